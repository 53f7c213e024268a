// Package users implements the QuickChat user directory: registration
// with per-field feedback, lookup, and plaintext credential checks.
//
// The directory is loaded and saved as a whole through a Store. Two
// stores exist: FileStore (a single users.json array) and SQLiteStore.
package users

import "github.com/HendryAvila/quickchat/internal/rules"

// User is a registered QuickChat account.
type User struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Cellphone string `json:"cellphone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Valid reports whether every field passes its registration rule.
func (u User) Valid() bool {
	return rules.ValidUsername(u.Username) &&
		rules.ValidPassword(u.Password) &&
		rules.ValidPhoneNumber(u.Cellphone) &&
		rules.ValidName(u.FirstName) &&
		rules.ValidName(u.LastName)
}

// Store loads and saves the full user collection.
type Store interface {
	Load() ([]User, error)
	Save(users []User) error
}
