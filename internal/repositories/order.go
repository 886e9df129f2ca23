package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookhaven/internal/models"
)

// OrderRepository handles order and fulfillment data operations
type OrderRepository struct {
	db    *sql.DB
	books *BookRepository
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, books: NewBookRepository(db)}
}

// FulfillmentExists reports whether a capture for the payment order id was
// already processed, by either a guest or a registered user.
func (r *OrderRepository) FulfillmentExists(paymentOrderID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM fulfillments WHERE payment_order_id = ?)",
		paymentOrderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check fulfillment: %w", err)
	}
	return exists, nil
}

// RecordGuestFulfillment marks a guest capture as processed. Guest purchases
// leave no order row, so the ledger entry is the only durable trace.
func (r *OrderRepository) RecordGuestFulfillment(paymentOrderID string) error {
	_, err := r.db.Exec(
		"INSERT INTO fulfillments (payment_order_id, kind, created_at) VALUES (?, 'guest', ?)",
		paymentOrderID, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrAlreadyFulfilled
		}
		return fmt.Errorf("failed to record guest fulfillment: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateFulfilled persists a completed user purchase in a single
// transaction: the order row, its line items, the user's book grants and
// the fulfillment ledger entry all commit together or not at all.
func (r *OrderRepository) CreateFulfilled(userID int, paymentOrderID string, books []*models.Book) (*models.Order, error) {
	if len(books) == 0 {
		return nil, errors.New("order must contain at least one book")
	}
	if paymentOrderID == "" {
		return nil, errors.New("payment order id is required")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The ledger insert doubles as the concurrency guard: a second
	// transaction for the same payment order fails here and rolls back.
	_, err = tx.Exec(
		"INSERT INTO fulfillments (payment_order_id, kind, user_id, created_at) VALUES (?, 'user', ?, ?)",
		paymentOrderID, userID, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrAlreadyFulfilled
		}
		return nil, fmt.Errorf("failed to record fulfillment: %w", err)
	}

	orderNumber := models.GenerateOrderNumber()
	for i := 0; i < 5; i++ {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM orders WHERE order_number = ?)", orderNumber).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check order number uniqueness: %w", err)
		}
		if !exists {
			break
		}
		orderNumber = models.GenerateOrderNumber()
	}

	totalPrice := 0
	for _, book := range books {
		totalPrice += book.Price
	}

	now := time.Now()
	res, err := tx.Exec(`
		INSERT INTO orders (user_id, order_number, order_date, total_price, payment_order_id, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		userID, orderNumber, now, totalPrice, paymentOrderID, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get order id: %w", err)
	}

	for _, book := range books {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO order_books (order_id, book_id) VALUES (?, ?)",
			orderID, book.ID); err != nil {
			return nil, fmt.Errorf("failed to link order book: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO user_books (user_id, book_id, granted_at) VALUES (?, ?, ?)",
			userID, book.ID, now); err != nil {
			return nil, fmt.Errorf("failed to grant book: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit fulfillment: %w", err)
	}

	return &models.Order{
		ID:             int(orderID),
		UserID:         userID,
		OrderNumber:    orderNumber,
		OrderDate:      now,
		TotalPrice:     totalPrice,
		PaymentOrderID: paymentOrderID,
		Completed:      true,
		Books:          books,
		CreatedAt:      now,
	}, nil
}

const orderColumns = "id, user_id, order_number, order_date, total_price, payment_order_id, completed, created_at"

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.OrderDate,
		&order.TotalPrice,
		&order.PaymentOrderID,
		&order.Completed,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retrieves an order with its books
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM orders WHERE id = ?", orderColumns), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if err := r.loadBooks(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByPaymentOrderID retrieves the order recorded for a payment provider order
func (r *OrderRepository) GetByPaymentOrderID(paymentOrderID string) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM orders WHERE payment_order_id = ?", orderColumns), paymentOrderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if err := r.loadBooks(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByUser retrieves all of a user's orders, newest first
func (r *OrderRepository) GetByUser(userID int) ([]*models.Order, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM orders WHERE user_id = ? ORDER BY order_date DESC, id DESC", orderColumns),
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadBooks(order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadBooks(order *models.Order) error {
	rows, err := r.db.Query("SELECT book_id FROM order_books WHERE order_id = ? ORDER BY book_id", order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order books: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan order book: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate order books: %w", err)
	}

	books, err := r.books.GetByIDs(ids)
	if err != nil {
		return err
	}
	order.Books = books
	return nil
}
