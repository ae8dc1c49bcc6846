package domain

import (
	"errors"
)

// ErrWrongCredentials indicates an unknown username or a wrong password.
var ErrWrongCredentials = errors.New("invalid username or password")

// User is the single operator allowed to use the app.
type User struct {
	Username string `json:"username"`
}
