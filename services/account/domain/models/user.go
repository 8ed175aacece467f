package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Roles stored in usuarios.rol.
const (
	RoleCustomer = "cliente"
	RoleAdmin    = "admin"
)

// User is a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// NewUser builds a customer account with a normalized email.
func NewUser(name, email, passwordHash string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
