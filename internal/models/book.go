package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Book represents a catalog book
type Book struct {
	ID              int       `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description,omitempty" db:"description"`
	Language        string    `json:"language,omitempty" db:"language"`
	Price           int       `json:"price" db:"price"` // Amount in cents
	PublicationDate time.Time `json:"publication_date" db:"publication_date"`
	ISBN            string    `json:"isbn,omitempty" db:"isbn"`
	Image           string    `json:"image,omitempty" db:"image"` // Base64 cover image
	File            string    `json:"file,omitempty" db:"file"`   // Base64 ebook payload
	AvgRating       *float64  `json:"avg_rating" db:"avg_rating"`
	Authors         []*Author `json:"authors,omitempty"`
	Genres          []*Genre  `json:"genres,omitempty"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// BookCreateRequest represents the data needed to create a new book
type BookCreateRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	Price           int       `json:"price"` // Amount in cents
	PublicationDate time.Time `json:"publication_date"`
	ISBN            string    `json:"isbn"`
	Image           string    `json:"image"`
	File            string    `json:"file"`
	AuthorIDs       []int     `json:"author_ids"`
	GenreIDs        []int     `json:"genre_ids"`
}

// BookUpdateRequest represents the data that can be updated for a book
type BookUpdateRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Language        *string    `json:"language"`
	Price           *int       `json:"price"`
	PublicationDate *time.Time `json:"publication_date"`
	ISBN            *string    `json:"isbn"`
	Image           *string    `json:"image"`
	File            *string    `json:"file"`
	AuthorIDs       []int      `json:"author_ids"`
	GenreIDs        []int      `json:"genre_ids"`
}

var (
	// ISBN-10 or ISBN-13, hyphens optional
	isbnRegex = regexp.MustCompile(`^(?:\d[- ]?){9}[\dXx]$|^(?:\d[- ]?){13}$`)
)

// Validate validates the book data
func (b *Book) Validate() error {
	if err := validateBookTitle(b.Title); err != nil {
		return err
	}

	if err := validateBookPrice(b.Price); err != nil {
		return err
	}

	return validateBookISBN(b.ISBN)
}

// Validate validates book creation data
func (req *BookCreateRequest) Validate() error {
	if err := validateBookTitle(req.Title); err != nil {
		return err
	}

	if err := validateBookPrice(req.Price); err != nil {
		return err
	}

	if req.PublicationDate.IsZero() {
		return errors.New("publication date is required")
	}

	return validateBookISBN(req.ISBN)
}

// Validate validates book update data
func (req *BookUpdateRequest) Validate() error {
	if req.Title != nil {
		if err := validateBookTitle(*req.Title); err != nil {
			return err
		}
	}

	if req.Price != nil {
		if err := validateBookPrice(*req.Price); err != nil {
			return err
		}
	}

	if req.ISBN != nil {
		if err := validateBookISBN(*req.ISBN); err != nil {
			return err
		}
	}

	return nil
}

// validateBookTitle validates a book title
func validateBookTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}

	if len(title) > 255 {
		return errors.New("title must be less than 255 characters")
	}

	return nil
}

// validateBookPrice validates a book price
func validateBookPrice(price int) error {
	if price < 0 {
		return errors.New("price cannot be negative")
	}

	// Maximum book price of $10,000 (1,000,000 cents)
	if price > 1000000 {
		return errors.New("price cannot exceed $10,000")
	}

	return nil
}

// validateBookISBN validates an optional ISBN
func validateBookISBN(isbn string) error {
	if isbn == "" {
		return nil
	}

	if !isbnRegex.MatchString(isbn) {
		return errors.New("isbn format is invalid")
	}

	return nil
}

// PriceAmount returns the price in the main currency as a float
func (b *Book) PriceAmount() float64 {
	return float64(b.Price) / 100.0
}

// IsCheckoutEligible returns true if the book can be submitted for checkout.
// The payment processor rejects non-positive amounts.
func (b *Book) IsCheckoutEligible() bool {
	return b.Price > 0
}
