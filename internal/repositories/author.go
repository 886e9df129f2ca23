package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookhaven/internal/models"
)

// AuthorRepository handles author data operations
type AuthorRepository struct {
	db *sql.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *sql.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// Create creates a new author
func (r *AuthorRepository) Create(req *models.AuthorCreateRequest) (*models.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.Exec("INSERT INTO authors (name) VALUES (?)", req.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get author id: %w", err)
	}

	return &models.Author{ID: int(id), Name: req.Name}, nil
}

// GetByID retrieves an author by ID
func (r *AuthorRepository) GetByID(id int) (*models.Author, error) {
	author := &models.Author{}
	err := r.db.QueryRow("SELECT id, name FROM authors WHERE id = ?", id).Scan(&author.ID, &author.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return author, nil
}

// List retrieves all authors ordered by name
func (r *AuthorRepository) List() ([]*models.Author, error) {
	rows, err := r.db.Query("SELECT id, name FROM authors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		author := &models.Author{}
		if err := rows.Scan(&author.ID, &author.Name); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authors: %w", err)
	}
	return authors, nil
}

// Update renames an author
func (r *AuthorRepository) Update(id int, req *models.AuthorCreateRequest) (*models.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.Exec("UPDATE authors SET name = ? WHERE id = ?", req.Name, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrAuthorNotFound
	}
	return &models.Author{ID: id, Name: req.Name}, nil
}

// Delete removes an author
func (r *AuthorRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM authors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return models.ErrAuthorNotFound
	}
	return nil
}
