package services

import (
	"fmt"
	"log"
	"sync"

	"bookhaven/internal/models"

	"github.com/google/uuid"
)

// MockPaymentService provides a mock payment provider that can optionally
// delegate to the real PayPal API when credentials are configured. Without
// credentials every order is held in memory and captures always succeed,
// which is enough for local development and tests.
type MockPaymentService struct {
	paypal    *PayPalService
	usePayPal bool

	mu     sync.Mutex
	orders map[string]*PayPalOrder
}

// NewMockPaymentService creates a payment provider, preferring the real
// PayPal API when a client id and secret are present.
func NewMockPaymentService(config *PayPalConfig) *MockPaymentService {
	service := &MockPaymentService{
		orders: make(map[string]*PayPalOrder),
	}

	if config != nil && config.ClientID != "" && config.Secret != "" {
		service.paypal = NewPayPalService(*config)
		service.usePayPal = true
		log.Printf("Payment service: Using PayPal API (%s environment)", config.Environment)
	} else {
		log.Println("Payment service: Using mock (no PayPal credentials provided)")
	}

	return service
}

// CreateOrder creates a payment order
func (s *MockPaymentService) CreateOrder(books []*models.Book) (*PayPalOrder, error) {
	if s.usePayPal {
		return s.paypal.CreateOrder(books)
	}

	if len(books) == 0 {
		return nil, fmt.Errorf("cannot create an order with no items")
	}

	items := make([]PayPalItem, 0, len(books))
	for _, book := range books {
		items = append(items, PayPalItem{
			Name:     book.Title,
			Quantity: "1",
			UnitAmount: PayPalAmount{
				CurrencyCode: "USD",
				Value:        formatAmount(book.Price),
			},
		})
	}

	order := &PayPalOrder{
		ID:            "MOCK-" + uuid.NewString(),
		Status:        "CREATED",
		PurchaseUnits: []PayPalPurchaseUnit{{Items: items}},
		Links: []PayPalLink{{
			Href:   "https://example.com/approve",
			Rel:    "approve",
			Method: "GET",
		}},
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	return order, nil
}

// GetOrder retrieves a payment order
func (s *MockPaymentService) GetOrder(orderID string) (*PayPalOrder, error) {
	if s.usePayPal {
		return s.paypal.GetOrder(orderID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("not found: order %s", orderID)
	}
	return order, nil
}

// CaptureOrder captures a payment order
func (s *MockPaymentService) CaptureOrder(orderID string) (*PayPalOrder, error) {
	if s.usePayPal {
		return s.paypal.CaptureOrder(orderID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("not found: order %s", orderID)
	}
	order.Status = "COMPLETED"
	return order, nil
}
