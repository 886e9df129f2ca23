package services

import (
	"log"
	"sync"

	"bookhaven/internal/models"
)

// MockEmailService logs instead of sending. Used when no Resend API key is
// configured, and by tests to assert what would have been sent.
type MockEmailService struct {
	mu   sync.Mutex
	Sent []MockEmail
}

// MockEmail records one email the mock service was asked to send
type MockEmail struct {
	To      string
	Subject string
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SendOrderConfirmation logs an order confirmation
func (s *MockEmailService) SendOrderConfirmation(email, username string, order *models.Order) error {
	s.record(email, "Order confirmation "+order.OrderNumber)
	log.Printf("Mock email: order confirmation %s to %s", order.OrderNumber, email)
	return nil
}

// SendWelcomeEmail logs a welcome email
func (s *MockEmailService) SendWelcomeEmail(email, username string) error {
	s.record(email, "Welcome to BookHaven")
	log.Printf("Mock email: welcome to %s", email)
	return nil
}

func (s *MockEmailService) record(to, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, MockEmail{To: to, Subject: subject})
}
