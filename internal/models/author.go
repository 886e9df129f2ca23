package models

import (
	"errors"
	"strings"
)

// Author represents a book author
type Author struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// AuthorCreateRequest represents the data needed to create a new author
type AuthorCreateRequest struct {
	Name string `json:"name"`
}

// Validate validates author creation data
func (req *AuthorCreateRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("author name is required")
	}

	if len(req.Name) > 255 {
		return errors.New("author name must be less than 255 characters")
	}

	return nil
}
