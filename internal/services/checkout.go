package services

import (
	"errors"
	"fmt"
	"log"

	"bookhaven/internal/models"
	"bookhaven/internal/repositories"
)

// CheckoutService orchestrates the payment workflow: cart resolution, order
// creation at the payment provider, and fulfillment after capture.
type CheckoutService struct {
	books    *repositories.BookRepository
	orders   *repositories.OrderRepository
	payments PaymentProvider
	auth     AuthServiceInterface
	email    EmailService
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	books *repositories.BookRepository,
	orders *repositories.OrderRepository,
	payments PaymentProvider,
	auth AuthServiceInterface,
	email EmailService,
) *CheckoutService {
	return &CheckoutService{
		books:    books,
		orders:   orders,
		payments: payments,
		auth:     auth,
		email:    email,
	}
}

// CheckoutSession is the result of starting a checkout. MissingBookIDs
// reports cart entries that did not resolve to a catalog book so the client
// can see exactly what was dropped rather than guessing from the total.
type CheckoutSession struct {
	PaymentOrderID string         `json:"payment_order_id"`
	Status         string         `json:"status"`
	ApproveURL     string         `json:"approve_url,omitempty"`
	Books          []*models.Book `json:"books"`
	TotalPrice     int            `json:"total_price"`
	MissingBookIDs []int          `json:"missing_book_ids,omitempty"`
}

// CheckoutResult is the outcome of a completed capture. Exactly one of
// Order (registered buyer) or BuyerToken (guest) is set.
type CheckoutResult struct {
	Status     string         `json:"status"`
	Books      []*models.Book `json:"books"`
	Order      *models.Order  `json:"order,omitempty"`
	BuyerToken string         `json:"buyer_token,omitempty"`
}

// ErrEmptyCart is returned when no cart entry resolves to a purchasable book
var ErrEmptyCart = errors.New("cart contains no purchasable books")

// BeginCheckout resolves the cart against the catalog and creates a payment
// order for the books that resolved. Unknown ids are reported back, not
// treated as a failure; duplicates collapse to a single copy.
func (s *CheckoutService) BeginCheckout(cart *models.ShoppingCart) (*CheckoutSession, error) {
	if cart == nil || len(cart.BookIDs) == 0 {
		return nil, ErrEmptyCart
	}

	seen := make(map[int]bool)
	var ids []int
	for _, id := range cart.BookIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	books, err := s.books.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	found := make(map[int]bool, len(books))
	var purchasable []*models.Book
	for _, book := range books {
		found[book.ID] = true
		if book.IsCheckoutEligible() {
			purchasable = append(purchasable, book)
		}
	}

	var missing []int
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	if len(purchasable) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.payments.CreateOrder(purchasable)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	total := 0
	for _, book := range purchasable {
		total += book.Price
	}

	return &CheckoutSession{
		PaymentOrderID: order.ID,
		Status:         order.Status,
		ApproveURL:     order.ApproveURL(),
		Books:          purchasable,
		TotalPrice:     total,
		MissingBookIDs: missing,
	}, nil
}

// CompleteCheckout captures an approved payment order and fulfills it. The
// fulfillment ledger is consulted before the capture call so a replayed
// request never reaches the payment provider twice. Line items come back
// from the provider by title and are matched against the catalog.
func (s *CheckoutService) CompleteCheckout(paymentOrderID string, user *models.User) (*CheckoutResult, error) {
	if paymentOrderID == "" {
		return nil, errors.New("payment order id is required")
	}

	fulfilled, err := s.orders.FulfillmentExists(paymentOrderID)
	if err != nil {
		return nil, err
	}
	if fulfilled {
		return nil, models.ErrAlreadyFulfilled
	}

	captured, err := s.payments.CaptureOrder(paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment: %w", err)
	}
	if captured.Status != "COMPLETED" {
		return nil, fmt.Errorf("payment not completed: status %s", captured.Status)
	}

	// The capture response omits line items; fetch the order for them.
	order, err := s.payments.GetOrder(paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captured order: %w", err)
	}

	books, err := s.resolveByTitle(order.ItemNames())
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, errors.New("captured order contains no known books")
	}

	if user == nil {
		return s.fulfillGuest(paymentOrderID, books)
	}
	return s.fulfillUser(paymentOrderID, user, books)
}

// resolveByTitle maps provider line item names back to catalog books. The
// first book with a matching title wins; unknown titles are skipped.
func (s *CheckoutService) resolveByTitle(titles []string) ([]*models.Book, error) {
	var books []*models.Book
	for _, title := range titles {
		book, err := s.books.GetByTitle(title)
		if err != nil {
			if errors.Is(err, models.ErrBookNotFound) {
				log.Printf("checkout: captured item %q not found in catalog, skipping", title)
				continue
			}
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func (s *CheckoutService) fulfillGuest(paymentOrderID string, books []*models.Book) (*CheckoutResult, error) {
	ids := make([]int, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
	}

	// Sign before touching the ledger: the token is the guest's only
	// proof of purchase, so a signing failure must leave the capture
	// retryable.
	token, err := s.auth.IssueAnonBuyerToken(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to issue buyer token: %w", err)
	}

	if err := s.orders.RecordGuestFulfillment(paymentOrderID); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Status:     "COMPLETED",
		Books:      books,
		BuyerToken: token,
	}, nil
}

func (s *CheckoutService) fulfillUser(paymentOrderID string, user *models.User, books []*models.Book) (*CheckoutResult, error) {
	order, err := s.orders.CreateFulfilled(user.ID, paymentOrderID, books)
	if err != nil {
		return nil, err
	}

	// Confirmation email failures must not undo a completed purchase.
	if user.Email != "" && s.email != nil {
		if err := s.email.SendOrderConfirmation(user.Email, user.Username, order); err != nil {
			log.Printf("checkout: failed to send confirmation for order %s: %v", order.OrderNumber, err)
		}
	}

	return &CheckoutResult{
		Status: "COMPLETED",
		Books:  books,
		Order:  order,
	}, nil
}
