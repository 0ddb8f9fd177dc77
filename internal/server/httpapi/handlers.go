package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/server/users"
)

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	NationalID string `json:"national_id"`
	Contact    string `json:"contact"`
	BirthDate  string `json:"birth_date"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *users.PublicUser `json:"user"`
	Token string            `json:"token"`
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, common.ErrMissingCredentials)
		return
	}

	res, err := s.users.Register(r.Context(), users.RegisterInput{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		NationalID: in.NationalID,
		Contact:    in.Contact,
		BirthDate:  in.BirthDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.collector.RecordRegistration()
	writeJSON(w, http.StatusCreated, authResponse{User: res.User, Token: res.Token})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, common.ErrMissingCredentials)
		return
	}

	res, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.collector.RecordAuthFailure("invalid_credentials")
		}
		writeError(w, err)
		return
	}

	s.collector.RecordLogin()
	writeJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

// verifyHandler runs behind Authenticate; reaching it means the token is
// valid, so it just echoes the verified claims.
func (s *Server) verifyHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user": map[string]any{
			"id":    claims.UserID,
			"email": claims.Email,
			"name":  claims.Name,
			"admin": claims.Admin,
		},
	})
}

// meHandler looks up the token's subject in storage rather than echoing the
// claims: the response reflects the current account record, and a token whose
// account has since been deleted gets a 404.
func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": list})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the sentinel taxonomy onto fixed client-facing status
// classes. Anything outside the taxonomy becomes a generic 500; raw storage
// errors never reach the response body.
func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := common.ErrorInternal.Error()

	switch {
	case errors.Is(err, common.ErrMissingCredentials):
		statusCode = http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrMissingToken),
		errors.Is(err, common.ErrMalformedHeader),
		errors.Is(err, common.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrDuplicateIdentity):
		statusCode = http.StatusConflict
	}

	if statusCode != http.StatusInternalServerError {
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
