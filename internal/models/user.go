package models

import (
	"errors"
	"regexp"
	"time"
)

// User represents a registered user
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	RegisterDate time.Time `json:"register_date" db:"register_date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to register a new user
type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var (
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Validate validates the user data
func (u *User) Validate() error {
	if err := validateUsername(u.Username); err != nil {
		return err
	}

	return validateUserEmail(u.Email)
}

// Validate validates user registration data
func (req *UserCreateRequest) Validate() error {
	if err := validateUsername(req.Username); err != nil {
		return err
	}

	if err := validateUserEmail(req.Email); err != nil {
		return err
	}

	return validateUserPassword(req.Password)
}

// validateUsername validates a username
func validateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}

	if len(username) < 5 || len(username) > 20 {
		return errors.New("username must be between 5 and 20 characters")
	}

	if !usernameRegex.MatchString(username) {
		return errors.New("username contains invalid characters")
	}

	return nil
}

// validateUserEmail validates an optional email address
func validateUserEmail(email string) error {
	if email == "" {
		return nil
	}

	if len(email) > 255 {
		return errors.New("email must be less than 255 characters")
	}

	if !userEmailRegex.MatchString(email) {
		return errors.New("email format is invalid")
	}

	return nil
}

// validateUserPassword validates a password
func validateUserPassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}

	if len(password) > 128 {
		return errors.New("password must be less than 128 characters")
	}

	return nil
}

// CanLogin returns true if the user is allowed to authenticate
func (u *User) CanLogin() bool {
	return u.IsActive
}
