package services

import (
	"bookhaven/internal/models"
)

// PaymentProvider defines the interface for the payment processor
type PaymentProvider interface {
	CreateOrder(books []*models.Book) (*PayPalOrder, error)
	GetOrder(orderID string) (*PayPalOrder, error)
	CaptureOrder(orderID string) (*PayPalOrder, error)
}

// EmailService defines the interface for transactional email
type EmailService interface {
	SendOrderConfirmation(email, username string, order *models.Order) error
	SendWelcomeEmail(email, username string) error
}

// AuthServiceInterface defines the interface for authentication services
type AuthServiceInterface interface {
	Register(req *models.UserCreateRequest) (*models.User, error)
	Login(username, password string) (*TokenResponse, error)
	ChangePassword(userID int, currentPassword, newPassword string) error
	IssueAccessToken(user *models.User) (string, error)
	ParseAccessToken(token string) (*AccessClaims, error)
	IssueAnonBuyerToken(bookIDs []int) (string, error)
	ParseAnonBuyerToken(token string) (*AnonBuyerClaims, error)
	GetUser(id int) (*models.User, error)
}

// CheckoutServiceInterface defines the interface for the checkout workflow
type CheckoutServiceInterface interface {
	BeginCheckout(cart *models.ShoppingCart) (*CheckoutSession, error)
	CompleteCheckout(paymentOrderID string, user *models.User) (*CheckoutResult, error)
}
