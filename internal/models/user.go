package models

// User represents a registered account.
//
// Only a one-way password hash is persisted; the hash never appears in API
// responses. Usernames are unique.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized into responses.
	PasswordHash string `json:"-"`

	// IsAdmin marks accounts allowed to perform destructive operations.
	// The first registered user is granted admin automatically.
	IsAdmin bool `json:"is_admin"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}
