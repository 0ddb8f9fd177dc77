package users

import "time"

// User is the full account record as persisted. PasswordDigest,
// IdentityDigest and ContactDigest never leave the storage boundary;
// use Public before handing a record to any other consumer.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordDigest string
	IdentityDigest string
	ContactDigest  string
	BirthDate      string
	Admin          bool
	CreatedAt      time.Time
}

// PublicUser is the projection of a User that may cross the service
// boundary. It carries no digests.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date,omitempty"`
	Admin     bool   `json:"admin"`
}

// Public strips the sensitive fields from a User. Every call site that
// returns a user to a caller goes through this single projection.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		BirthDate: u.BirthDate,
		Admin:     u.Admin,
	}
}
