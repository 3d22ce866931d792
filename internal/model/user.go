// Package model defines domain entities for the application.
package model

// User is an account record owned by the credential store.
// Accounts are created once and never updated or deleted.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Name         string `json:"name"`
}

// Public returns the wire-safe view of the user: id and display name,
// never the password hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:   u.ID,
		Name: u.Name,
	}
}

// PublicUser is the user shape embedded in API responses.
type PublicUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
