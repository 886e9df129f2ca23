package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// Order represents a fulfilled checkout persisted for a registered user
type Order struct {
	ID             int       `json:"id" db:"id"`
	UserID         int       `json:"user_id" db:"user_id"`
	OrderNumber    string    `json:"order_number" db:"order_number"`
	OrderDate      time.Time `json:"order_date" db:"order_date"`
	TotalPrice     int       `json:"total_price" db:"total_price"` // Amount in cents
	PaymentOrderID string    `json:"payment_order_id" db:"payment_order_id"`
	Completed      bool      `json:"completed" db:"completed"`
	Books          []*Book   `json:"books,omitempty"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

var (
	// Order number format: ORD-YYYYMMDD-XXXXXX (e.g., ORD-20240101-123456)
	orderNumberRegex = regexp.MustCompile(`^ORD-\d{8}-\d{6}$`)
)

// Validate validates the order data
func (o *Order) Validate() error {
	if o.OrderNumber == "" {
		return errors.New("order number is required")
	}

	if !orderNumberRegex.MatchString(o.OrderNumber) {
		return errors.New("order number format is invalid")
	}

	if err := validateOrderTotalPrice(o.TotalPrice); err != nil {
		return err
	}

	if o.PaymentOrderID == "" {
		return errors.New("payment order id is required")
	}

	return nil
}

// validateOrderTotalPrice validates an order total
func validateOrderTotalPrice(totalPrice int) error {
	if totalPrice < 0 {
		return errors.New("total price cannot be negative")
	}

	// Maximum order total of $100,000 (10,000,000 cents)
	if totalPrice > 10000000 {
		return errors.New("total price cannot exceed $100,000")
	}

	return nil
}

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// Generate a 6-digit random number using crypto/rand for better uniqueness
	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		timestamp := now.UnixNano()
		randomPart := timestamp % 1000000
		return fmt.Sprintf("ORD-%s-%06d", dateStr, randomPart)
	}

	return fmt.Sprintf("ORD-%s-%06d", dateStr, randomNum.Int64())
}

// TotalPriceAmount returns the total price in the main currency as a float
func (o *Order) TotalPriceAmount() float64 {
	return float64(o.TotalPrice) / 100.0
}
