// Package auth implements the role selector: a request acts either as staff or,
// with the shared password, as the administrator.
package auth

import (
	"crypto/subtle"
	"fmt"

	"api_retail/internal/apperr"
)

type Role string

const (
	Admin Role = "admin"
	Staff Role = "staff"
)

// ParseRole accepts the two known roles.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case Admin, Staff:
		return Role(value), nil
	default:
		return "", apperr.Validation("role", fmt.Sprintf("unknown role %q", value))
	}
}

// Gate checks role claims against the shared administrator password.
type Gate struct {
	adminPassword []byte
}

func NewGate(adminPassword string) *Gate {
	return &Gate{adminPassword: []byte(adminPassword)}
}

// ErrWrongPassword is returned when the administrator password does not match.
var ErrWrongPassword = fmt.Errorf("%w: wrong administrator password", apperr.ErrForbidden)

// Login resolves the claimed role; only the administrator needs the password.
func (g *Gate) Login(role, password string) (Role, error) {
	r, err := ParseRole(role)
	if err != nil {
		return "", err
	}
	if r == Admin && subtle.ConstantTimeCompare([]byte(password), g.adminPassword) != 1 {
		return "", ErrWrongPassword
	}
	return r, nil
}
