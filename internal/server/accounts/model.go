package accounts

import "time"

// Account is a login-capable identity. Login is the key /login matches
// against: the e-mail address for registered accounts, the bare username for
// the seeded reference account.
type Account struct {
	ID           int64
	Login        string
	Name         string
	PasswordHash []byte
	Address      string
	PhoneNumber  string
	CreatedAt    time.Time
}

// RegisterInput is the /register form.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Reference is the bootstrap credential pair served by /api/users.
type Reference struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
