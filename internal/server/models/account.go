// Package models contains the row structs persisted by the server-side
// repositories.
package models

import "time"

// Account is a registered user. Credentials are stored only as an argon2id
// hash with a per-account random salt; the plaintext password never reaches
// storage. An account with IsVerified=false exists but cannot authenticate.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	Salt         []byte
	IsVerified   bool
	CreatedAt    time.Time
}
