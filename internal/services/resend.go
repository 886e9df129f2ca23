package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookhaven/internal/models"
)

// ResendConfig represents Resend email service configuration
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// ResendEmailService handles email sending via the Resend API
type ResendEmailService struct {
	config  ResendConfig
	client  *http.Client
	baseURL string
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config ResendConfig) *ResendEmailService {
	return &ResendEmailService{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.resend.com",
	}
}

// ResendEmailRequest represents the request structure for the Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from the Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from the Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (s *ResendEmailService) getFromField() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

// SendOrderConfirmation sends a purchase receipt listing the bought books
func (s *ResendEmailService) SendOrderConfirmation(email, username string, order *models.Order) error {
	var items strings.Builder
	for _, book := range order.Books {
		items.WriteString(fmt.Sprintf("<li>%s - $%.2f</li>", book.Title, book.PriceAmount()))
	}

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Order Confirmation</title></head>
<body>
	<h2>Thanks for your order, %s!</h2>
	<p>Order <strong>%s</strong> placed on %s.</p>
	<ul>%s</ul>
	<p>Total: <strong>$%.2f</strong></p>
	<p>Your books are now available in your library.</p>
</body>
</html>`,
		username,
		order.OrderNumber,
		order.OrderDate.Format("January 2, 2006"),
		items.String(),
		order.TotalPriceAmount(),
	)

	return s.sendEmail(email, fmt.Sprintf("Order confirmation %s", order.OrderNumber), htmlContent)
}

// SendWelcomeEmail sends a greeting to a newly registered user
func (s *ResendEmailService) SendWelcomeEmail(email, username string) error {
	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Welcome</title></head>
<body>
	<h2>Welcome, %s!</h2>
	<p>Your account is ready. Browse the catalog and start reading.</p>
</body>
</html>`, username)

	return s.sendEmail(email, "Welcome to BookHaven", htmlContent)
}

func (s *ResendEmailService) sendEmail(to, subject, htmlContent string) error {
	req := &ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{to},
		Subject: subject,
		HTML:    htmlContent,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", s.baseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read email response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var resendErr ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &resendErr); err == nil && resendErr.Message != "" {
			return fmt.Errorf("email API error: %s", resendErr.Message)
		}
		return fmt.Errorf("email API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
