package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/server/auth"
)

// Authenticate extracts and verifies the bearer token on protected
// requests. Per request the outcome is terminal: missing header, a header
// that is not exactly "Bearer <token>", and a token that fails
// verification each reject the request; on success the verified claims are
// attached to the request context for downstream handlers.
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			s.collector.RecordAuthFailure("missing_token")
			writeError(w, common.ErrMissingToken)
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != common.BearerScheme {
			s.collector.RecordAuthFailure("malformed_header")
			writeError(w, common.ErrMalformedHeader)
			return
		}

		claims, err := auth.ParseToken(parts[1], s.jwtSecret)
		if err != nil {
			s.collector.RecordAuthFailure("invalid_token")
			writeError(w, common.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireAdmin gates admin-only routes on the already-verified identity.
// It never re-verifies the token; Authenticate must run first.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ClaimsFromContext(r.Context())
		if err != nil || !claims.Admin {
			s.collector.RecordAuthFailure("forbidden")
			writeError(w, common.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter and remembers the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// requestLogger logs one structured line per request and feeds the status
// code into the metrics collector.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.collector.RecordRequest(rec.statusCode)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.statusCode,
			"duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond),
		)
	})
}
