package models

import (
	"errors"
	"strings"
)

// Genre represents a book genre
type Genre struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// GenreCreateRequest represents the data needed to create a new genre
type GenreCreateRequest struct {
	Name string `json:"name"`
}

// Validate validates genre creation data
func (req *GenreCreateRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("genre name is required")
	}

	if len(req.Name) > 100 {
		return errors.New("genre name must be less than 100 characters")
	}

	return nil
}
