package cryptox

import (
	"strings"
	"testing"
)

func TestDigestSecret_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := DigestSecret("secret1")
	if err != nil {
		t.Fatalf("DigestSecret error: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Fatalf("unexpected digest format: %q", digest)
	}

	if !VerifySecret("secret1", digest) {
		t.Fatalf("expected digest to verify against original secret")
	}
	if VerifySecret("wrong", digest) {
		t.Fatalf("expected mismatching secret to fail verification")
	}
}

func TestDigestSecret_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	a, err := DigestSecret("same-password")
	if err != nil {
		t.Fatalf("DigestSecret error: %v", err)
	}
	b, err := DigestSecret("same-password")
	if err != nil {
		t.Fatalf("DigestSecret error: %v", err)
	}

	if a == b {
		t.Fatalf("two digests of the same password share a salt: %q", a)
	}
	if !VerifySecret("same-password", a) || !VerifySecret("same-password", b) {
		t.Fatalf("both digests must verify against the password")
	}
}

func TestVerifySecret_MalformedDigest(t *testing.T) {
	t.Parallel()

	for _, digest := range []string{
		"",
		"plain-md5-hex",
		"$argon2id$v=19$m=65536,t=1,p=4$notbase64!$x",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
	} {
		if VerifySecret("anything", digest) {
			t.Fatalf("digest %q must not verify", digest)
		}
	}
}

func TestDigestIdentity_FormattingInvariance(t *testing.T) {
	t.Parallel()

	if DigestIdentity("123.456.789-00") != DigestIdentity("12345678900") {
		t.Fatalf("formatting variants of the same id must share a digest")
	}
	if DigestIdentity("(11) 98765-4321") != DigestIdentity("11987654321") {
		t.Fatalf("formatting variants of the same phone must share a digest")
	}
}

func TestDigestIdentity_DeterministicAndDistinct(t *testing.T) {
	t.Parallel()

	a := DigestIdentity("12345678900")
	if a != DigestIdentity("12345678900") {
		t.Fatalf("identity digest must be deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == DigestIdentity("12345678901") {
		t.Fatalf("distinct ids must not collide")
	}
}
