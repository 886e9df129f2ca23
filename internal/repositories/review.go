package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookhaven/internal/models"
)

// ReviewRepository handles review data operations
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert creates a review, or updates the user's existing review for the
// book and marks it as edited.
func (r *ReviewRepository) Upsert(userID, bookID int, req *models.ReviewCreateRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var bookExists bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)", bookID).Scan(&bookExists); err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !bookExists {
		return nil, models.ErrBookNotFound
	}

	var exists bool
	if err := tx.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = ? AND book_id = ?)",
		userID, bookID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check review: %w", err)
	}

	now := time.Now()
	if exists {
		_, err = tx.Exec(`
			UPDATE reviews SET rating = ?, comment = ?, edited = 1, updated_at = ?
			WHERE user_id = ? AND book_id = ?`,
			req.Rating, req.Comment, now, userID, bookID)
		if err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
	} else {
		_, err = tx.Exec(`
			INSERT INTO reviews (user_id, book_id, rating, comment, edited, created_at, updated_at)
			VALUES (?, ?, ?, ?, 0, ?, ?)`,
			userID, bookID, req.Rating, req.Comment, now, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}

	return r.Get(userID, bookID)
}

// Get retrieves a single review
func (r *ReviewRepository) Get(userID, bookID int) (*models.Review, error) {
	review := &models.Review{}
	err := r.db.QueryRow(`
		SELECT user_id, book_id, rating, comment, edited, created_at, updated_at
		FROM reviews WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(
		&review.UserID,
		&review.BookID,
		&review.Rating,
		&review.Comment,
		&review.Edited,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// ListByBook retrieves all reviews for a book, newest first, with the
// reviewing user attached.
func (r *ReviewRepository) ListByBook(bookID int) ([]*models.Review, error) {
	rows, err := r.db.Query(`
		SELECT rv.user_id, rv.book_id, rv.rating, rv.comment, rv.edited, rv.created_at, rv.updated_at,
			u.id, u.username, u.is_active, u.is_admin, u.register_date
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.book_id = ?
		ORDER BY rv.created_at DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{User: &models.User{}}
		err := rows.Scan(
			&review.UserID,
			&review.BookID,
			&review.Rating,
			&review.Comment,
			&review.Edited,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.User.ID,
			&review.User.Username,
			&review.User.IsActive,
			&review.User.IsAdmin,
			&review.User.RegisterDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a user's review of a book
func (r *ReviewRepository) Delete(userID, bookID int) error {
	res, err := r.db.Exec("DELETE FROM reviews WHERE user_id = ? AND book_id = ?", userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}
