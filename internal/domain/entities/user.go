package entities

import "time"

// DefaultPriceWeight balances price against distance for users who have
// not set a preference. 0 means distance only, 1 means price only.
const DefaultPriceWeight = 0.3

// User is a registered account. PasswordHash is a bcrypt hash; the
// plaintext password is never stored.
type User struct {
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	PriceWeight  float64   `json:"price_weight"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser creates a user with the default price weight.
func NewUser(username string, passwordHash []byte) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		PriceWeight:  DefaultPriceWeight,
		CreatedAt:    time.Now(),
	}
}

// ClampWeight bounds a price weight to [0, 1]. Out-of-range preferences
// are clamped rather than rejected.
func ClampWeight(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
