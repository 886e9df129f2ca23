package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookhaven/internal/models"
)

// GenreRepository handles genre data operations
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create creates a new genre
func (r *GenreRepository) Create(req *models.GenreCreateRequest) (*models.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.Exec("INSERT INTO genres (name) VALUES (?)", req.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get genre id: %w", err)
	}

	return &models.Genre{ID: int(id), Name: req.Name}, nil
}

// GetByID retrieves a genre by ID
func (r *GenreRepository) GetByID(id int) (*models.Genre, error) {
	genre := &models.Genre{}
	err := r.db.QueryRow("SELECT id, name FROM genres WHERE id = ?", id).Scan(&genre.ID, &genre.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return genre, nil
}

// List retrieves all genres ordered by name
func (r *GenreRepository) List() ([]*models.Genre, error) {
	rows, err := r.db.Query("SELECT id, name FROM genres ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []*models.Genre
	for rows.Next() {
		genre := &models.Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genres: %w", err)
	}
	return genres, nil
}

// Update renames a genre
func (r *GenreRepository) Update(id int, req *models.GenreCreateRequest) (*models.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.Exec("UPDATE genres SET name = ? WHERE id = ?", req.Name, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to update genre: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrGenreNotFound
	}
	return &models.Genre{ID: id, Name: req.Name}, nil
}

// Delete removes a genre
func (r *GenreRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM genres WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return models.ErrGenreNotFound
	}
	return nil
}
