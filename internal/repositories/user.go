package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookhaven/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, is_active, is_admin, register_date, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Username,
		&email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsAdmin,
		&user.RegisterDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	return user, nil
}

// Create stores a new user with an already hashed password
func (r *UserRepository) Create(username, email, passwordHash string) (*models.User, error) {
	now := time.Now()
	res, err := r.db.Exec(`
		INSERT INTO users (username, email, password_hash, is_active, is_admin, register_date, created_at, updated_at)
		VALUES (?, ?, ?, 1, 0, ?, ?, ?)`,
		username, nullIfEmpty(email), passwordHash, now, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	return r.GetByID(int(id))
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM users WHERE username = ?", userColumns), username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// UpdateEmail changes a user's email address
func (r *UserRepository) UpdateEmail(id int, email string) error {
	res, err := r.db.Exec("UPDATE users SET email = ?, updated_at = ? WHERE id = ?",
		nullIfEmpty(email), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	return checkAffected(res, models.ErrUserNotFound)
}

// UpdatePasswordHash changes a user's stored password hash
func (r *UserRepository) UpdatePasswordHash(id int, passwordHash string) error {
	res, err := r.db.Exec("UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return checkAffected(res, models.ErrUserNotFound)
}

// SetActive activates or deactivates a user account
func (r *UserRepository) SetActive(id int, active bool) error {
	res, err := r.db.Exec("UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?",
		active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update active flag: %w", err)
	}
	return checkAffected(res, models.ErrUserNotFound)
}

// SetAdmin grants or revokes admin rights
func (r *UserRepository) SetAdmin(id int, admin bool) error {
	res, err := r.db.Exec("UPDATE users SET is_admin = ?, updated_at = ? WHERE id = ?",
		admin, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	return checkAffected(res, models.ErrUserNotFound)
}

// Delete removes a user
func (r *UserRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(res, models.ErrUserNotFound)
}

func checkAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// GetOwnedBookIDs returns the ids of books the user owns, oldest grant first
func (r *UserRepository) GetOwnedBookIDs(userID int) ([]int, error) {
	rows, err := r.db.Query(
		"SELECT book_id FROM user_books WHERE user_id = ? ORDER BY granted_at, book_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned books: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan book id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owned books: %w", err)
	}
	return ids, nil
}

// OwnsBook reports whether the user already owns the given book
func (r *UserRepository) OwnsBook(userID, bookID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM user_books WHERE user_id = ? AND book_id = ?)",
		userID, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book ownership: %w", err)
	}
	return exists, nil
}
