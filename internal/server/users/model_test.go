package users

import "testing"

func TestPublic_StripsDigests(t *testing.T) {
	t.Parallel()

	u := &User{
		ID:             "u-1",
		Name:           "Ana",
		Email:          "a@x.com",
		PasswordDigest: "pd",
		IdentityDigest: "idd",
		ContactDigest:  "cd",
		BirthDate:      "1990-05-01",
		Admin:          true,
	}

	p := u.Public()

	if p.ID != "u-1" || p.Name != "Ana" || p.Email != "a@x.com" || p.BirthDate != "1990-05-01" || !p.Admin {
		t.Fatalf("unexpected projection: %+v", p)
	}
}
