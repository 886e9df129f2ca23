package models

import (
	"errors"
	"strings"
	"time"
)

// Review represents a user's review of a book
type Review struct {
	UserID    int       `json:"-" db:"user_id"`
	BookID    int       `json:"-" db:"book_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	Edited    bool      `json:"edited" db:"edited"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewCreateRequest represents the data needed to create or update a review
type ReviewCreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate validates review data
func (req *ReviewCreateRequest) Validate() error {
	if err := validateReviewRating(req.Rating); err != nil {
		return err
	}

	if strings.TrimSpace(req.Comment) == "" {
		return errors.New("comment is required")
	}

	if len(req.Comment) > 2000 {
		return errors.New("comment must be less than 2000 characters")
	}

	return nil
}

// validateReviewRating validates a rating value
func validateReviewRating(rating int) error {
	if rating < 0 || rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}

	return nil
}
