// Package models defines the records exchanged with the skill-sharing backend
// and held by the client-side collections.
package models

import "strconv"

// User is the identity record returned by the backend. It is treated as an
// immutable value once fetched and replaced wholesale on refresh.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Valid reports whether u identifies somebody.
func (u *User) Valid() bool {
	return u != nil && (u.ID != 0 || u.Email != "")
}

// Complete reports whether u is a full backend record rather than a
// placeholder built from the login identifier.
func (u *User) Complete() bool {
	return u != nil && u.ID != 0
}

// DisplayName returns the name, falling back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Key formats a backend id the way collections index entities.
func Key(id int64) string {
	return strconv.FormatInt(id, 10)
}
