package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookhaven/internal/models"
)

// BookRepository handles book data operations
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// BookSearchFilters represents filters for book search
type BookSearchFilters struct {
	Title    string // Substring match on title
	AuthorID int    // Filter by author
	GenreID  int    // Filter by genre
	Language string // Exact language match
	PriceMin *int   // Minimum price filter (in cents)
	PriceMax *int   // Maximum price filter (in cents)
	Limit    int    // Number of results to return
	Offset   int    // Number of results to skip
	SortBy   string // "title", "price", "publication_date"
	SortDesc bool   // Sort in descending order
}

// Create creates a new book with its author and genre links
func (r *BookRepository) Create(req *models.BookCreateRequest) (*models.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(`
		INSERT INTO books (title, description, language, price, publication_date, isbn, image, file, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Title, req.Description, req.Language, req.Price, req.PublicationDate, req.ISBN, req.Image, req.File, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get book id: %w", err)
	}

	if err := linkBookRelations(tx, int(id), req.AuthorIDs, req.GenreIDs); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit book creation: %w", err)
	}

	return r.GetByID(int(id))
}

func linkBookRelations(tx *sql.Tx, bookID int, authorIDs, genreIDs []int) error {
	for _, authorID := range authorIDs {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM authors WHERE id = ?)", authorID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check author: %w", err)
		}
		if !exists {
			return fmt.Errorf("author %d: %w", authorID, models.ErrAuthorNotFound)
		}
		if _, err := tx.Exec("INSERT OR IGNORE INTO book_authors (book_id, author_id) VALUES (?, ?)", bookID, authorID); err != nil {
			return fmt.Errorf("failed to link author: %w", err)
		}
	}
	for _, genreID := range genreIDs {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM genres WHERE id = ?)", genreID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check genre: %w", err)
		}
		if !exists {
			return fmt.Errorf("genre %d: %w", genreID, models.ErrGenreNotFound)
		}
		if _, err := tx.Exec("INSERT OR IGNORE INTO book_genres (book_id, genre_id) VALUES (?, ?)", bookID, genreID); err != nil {
			return fmt.Errorf("failed to link genre: %w", err)
		}
	}
	return nil
}

const bookColumns = `b.id, b.title, b.description, b.language, b.price, b.publication_date, b.isbn, b.image, b.file,
	(SELECT AVG(r.rating) FROM reviews r WHERE r.book_id = b.id), b.created_at, b.updated_at`

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	book := &models.Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Description,
		&book.Language,
		&book.Price,
		&book.PublicationDate,
		&book.ISBN,
		&book.Image,
		&book.File,
		&book.AvgRating,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID retrieves a book by ID including its authors, genres and average rating
func (r *BookRepository) GetByID(id int) (*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books b WHERE b.id = ?", bookColumns)

	book, err := scanBook(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := r.loadRelations(book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetByTitle retrieves the first book matching the exact title
func (r *BookRepository) GetByTitle(title string) (*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books b WHERE b.title = ? ORDER BY b.id LIMIT 1", bookColumns)

	book, err := scanBook(r.db.QueryRow(query, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by title: %w", err)
	}

	if err := r.loadRelations(book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetByIDs retrieves the books whose ids are in the given set. IDs with no
// matching book are simply absent from the result; the caller decides
// whether that is an error.
func (r *BookRepository) GetByIDs(ids []int) ([]*models.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM books b WHERE b.id IN (%s)", bookColumns, placeholders)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get books: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}
	for _, book := range books {
		if err := r.loadRelations(book); err != nil {
			return nil, err
		}
	}
	return books, nil
}

// Search retrieves books matching the given filters
func (r *BookRepository) Search(filters BookSearchFilters) ([]*models.Book, error) {
	var conditions []string
	var args []any

	if filters.Title != "" {
		conditions = append(conditions, "b.title LIKE ?")
		args = append(args, "%"+filters.Title+"%")
	}
	if filters.AuthorID > 0 {
		conditions = append(conditions, "b.id IN (SELECT book_id FROM book_authors WHERE author_id = ?)")
		args = append(args, filters.AuthorID)
	}
	if filters.GenreID > 0 {
		conditions = append(conditions, "b.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)")
		args = append(args, filters.GenreID)
	}
	if filters.Language != "" {
		conditions = append(conditions, "b.language = ?")
		args = append(args, filters.Language)
	}
	if filters.PriceMin != nil {
		conditions = append(conditions, "b.price >= ?")
		args = append(args, *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		conditions = append(conditions, "b.price <= ?")
		args = append(args, *filters.PriceMax)
	}

	query := fmt.Sprintf("SELECT %s FROM books b", bookColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "b.id"
	switch filters.SortBy {
	case "title":
		sortBy = "b.title"
	case "price":
		sortBy = "b.price"
	case "publication_date":
		sortBy = "b.publication_date"
	}
	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}
	for _, book := range books {
		if err := r.loadRelations(book); err != nil {
			return nil, err
		}
	}
	return books, nil
}

func collectBooks(rows *sql.Rows) ([]*models.Book, error) {
	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) loadRelations(book *models.Book) error {
	authorRows, err := r.db.Query(`
		SELECT a.id, a.name FROM authors a
		JOIN book_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = ?
		ORDER BY a.name`, book.ID)
	if err != nil {
		return fmt.Errorf("failed to load authors: %w", err)
	}
	defer authorRows.Close()

	book.Authors = []*models.Author{}
	for authorRows.Next() {
		author := &models.Author{}
		if err := authorRows.Scan(&author.ID, &author.Name); err != nil {
			return fmt.Errorf("failed to scan author: %w", err)
		}
		book.Authors = append(book.Authors, author)
	}
	if err := authorRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate authors: %w", err)
	}

	genreRows, err := r.db.Query(`
		SELECT g.id, g.name FROM genres g
		JOIN book_genres bg ON bg.genre_id = g.id
		WHERE bg.book_id = ?
		ORDER BY g.name`, book.ID)
	if err != nil {
		return fmt.Errorf("failed to load genres: %w", err)
	}
	defer genreRows.Close()

	book.Genres = []*models.Genre{}
	for genreRows.Next() {
		genre := &models.Genre{}
		if err := genreRows.Scan(&genre.ID, &genre.Name); err != nil {
			return fmt.Errorf("failed to scan genre: %w", err)
		}
		book.Genres = append(book.Genres, genre)
	}
	if err := genreRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate genres: %w", err)
	}

	return nil
}

// Update applies the non-nil fields of the request to an existing book
func (r *BookRepository) Update(id int, req *models.BookUpdateRequest) (*models.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var sets []string
	var args []any
	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *req.Language)
	}
	if req.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *req.Price)
	}
	if req.PublicationDate != nil {
		sets = append(sets, "publication_date = ?")
		args = append(args, *req.PublicationDate)
	}
	if req.ISBN != nil {
		sets = append(sets, "isbn = ?")
		args = append(args, *req.ISBN)
	}
	if req.Image != nil {
		sets = append(sets, "image = ?")
		args = append(args, *req.Image)
	}
	if req.File != nil {
		sets = append(sets, "file = ?")
		args = append(args, *req.File)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now())
		args = append(args, id)

		res, err := tx.Exec(fmt.Sprintf("UPDATE books SET %s WHERE id = ?", strings.Join(sets, ", ")), args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return nil, models.ErrBookNotFound
		}
	} else {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)", id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check book: %w", err)
		}
		if !exists {
			return nil, models.ErrBookNotFound
		}
	}

	if req.AuthorIDs != nil {
		if _, err := tx.Exec("DELETE FROM book_authors WHERE book_id = ?", id); err != nil {
			return nil, fmt.Errorf("failed to clear authors: %w", err)
		}
	}
	if req.GenreIDs != nil {
		if _, err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id); err != nil {
			return nil, fmt.Errorf("failed to clear genres: %w", err)
		}
	}
	if req.AuthorIDs != nil || req.GenreIDs != nil {
		if err := linkBookRelations(tx, id, req.AuthorIDs, req.GenreIDs); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit book update: %w", err)
	}

	return r.GetByID(id)
}

// Delete removes a book and its links
func (r *BookRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return models.ErrBookNotFound
	}
	return nil
}
