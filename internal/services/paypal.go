package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"bookhaven/internal/models"

	"github.com/google/uuid"
)

// PayPalConfig represents PayPal payment service configuration
type PayPalConfig struct {
	ClientID    string
	Secret      string
	Environment string // "sandbox" or "live"
	Currency    string // ISO 4217 code, e.g. "USD"
}

// PayPalService handles payments via the PayPal Orders v2 API
type PayPalService struct {
	config  PayPalConfig
	client  *http.Client
	baseURL string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalService creates a new PayPal payment service
func NewPayPalService(config PayPalConfig) *PayPalService {
	baseURL := "https://api-m.sandbox.paypal.com"
	if config.Environment == "live" {
		baseURL = "https://api-m.paypal.com"
	}

	if config.Currency == "" {
		config.Currency = "USD"
	}

	return &PayPalService{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// PayPalAmount represents a monetary value on the wire
type PayPalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// PayPalItem represents a purchase unit line item
type PayPalItem struct {
	Name       string       `json:"name"`
	Quantity   string       `json:"quantity"`
	UnitAmount PayPalAmount `json:"unit_amount"`
}

// PayPalAmountBreakdown itemizes the purchase unit total
type PayPalAmountBreakdown struct {
	ItemTotal PayPalAmount `json:"item_total"`
}

// PayPalPurchaseAmount is the purchase unit total with its breakdown
type PayPalPurchaseAmount struct {
	CurrencyCode string                 `json:"currency_code"`
	Value        string                 `json:"value"`
	Breakdown    *PayPalAmountBreakdown `json:"breakdown,omitempty"`
}

// PayPalPurchaseUnit groups the items and total of an order
type PayPalPurchaseUnit struct {
	Items  []PayPalItem         `json:"items,omitempty"`
	Amount PayPalPurchaseAmount `json:"amount"`
}

// PayPalOrderRequest represents an order creation request
type PayPalOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []PayPalPurchaseUnit `json:"purchase_units"`
}

// PayPalOrder represents an order as returned by PayPal
type PayPalOrder struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	PurchaseUnits []PayPalPurchaseUnit `json:"purchase_units"`
	Links         []PayPalLink         `json:"links"`
}

// PayPalLink is a HATEOAS link on an order response
type PayPalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// PayPalError represents an error response from PayPal
type PayPalError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id,omitempty"`
}

func (e *PayPalError) Error() string {
	return fmt.Sprintf("PayPal error: %s: %s", e.Name, e.Message)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// getAccessToken returns a cached OAuth2 token, fetching a new one via the
// client credentials grant when the cache is empty or about to expire.
func (s *PayPalService) getAccessToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiry.Add(-time.Minute)) {
		return s.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	httpReq, err := http.NewRequest("POST", s.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	httpReq.SetBasicAuth(s.config.ClientID, s.config.Secret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", s.handleAPIError(resp.StatusCode, bodyBytes)
	}

	var token tokenResponse
	if err := json.Unmarshal(bodyBytes, &token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	s.accessToken = token.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

// CreateOrder creates a PayPal order for the given books. Each book becomes
// a line item priced from its catalog price; the total carries the required
// item_total breakdown.
func (s *PayPalService) CreateOrder(books []*models.Book) (*PayPalOrder, error) {
	if len(books) == 0 {
		return nil, fmt.Errorf("cannot create an order with no items")
	}

	total := 0
	items := make([]PayPalItem, 0, len(books))
	for _, book := range books {
		total += book.Price
		items = append(items, PayPalItem{
			Name:     book.Title,
			Quantity: "1",
			UnitAmount: PayPalAmount{
				CurrencyCode: s.config.Currency,
				Value:        formatAmount(book.Price),
			},
		})
	}

	req := &PayPalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PayPalPurchaseUnit{{
			Items: items,
			Amount: PayPalPurchaseAmount{
				CurrencyCode: s.config.Currency,
				Value:        formatAmount(total),
				Breakdown: &PayPalAmountBreakdown{
					ItemTotal: PayPalAmount{
						CurrencyCode: s.config.Currency,
						Value:        formatAmount(total),
					},
				},
			},
		}},
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	order := &PayPalOrder{}
	// PayPal-Request-Id makes the create call retry-safe on our side.
	headers := map[string]string{"PayPal-Request-Id": uuid.NewString()}
	if err := s.doJSON("POST", "/v2/checkout/orders", bytes.NewBuffer(jsonData), headers, http.StatusCreated, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder retrieves an order including its line items
func (s *PayPalService) GetOrder(orderID string) (*PayPalOrder, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}

	order := &PayPalOrder{}
	if err := s.doJSON("GET", "/v2/checkout/orders/"+orderID, nil, nil, http.StatusOK, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CaptureOrder captures an approved order
func (s *PayPalService) CaptureOrder(orderID string) (*PayPalOrder, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}

	order := &PayPalOrder{}
	if err := s.doJSON("POST", "/v2/checkout/orders/"+orderID+"/capture", bytes.NewReader([]byte("{}")), nil, http.StatusCreated, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PayPalService) doJSON(method, path string, body io.Reader, headers map[string]string, wantStatus int, out any) error {
	token, err := s.getAccessToken()
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Capture replays come back as 200 instead of 201.
	if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusOK {
		return s.handleAPIError(resp.StatusCode, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleAPIError handles PayPal API errors
func (s *PayPalService) handleAPIError(statusCode int, body []byte) error {
	var payPalErr PayPalError
	if err := json.Unmarshal(body, &payPalErr); err != nil || payPalErr.Name == "" {
		return fmt.Errorf("API error (status %d): %s", statusCode, string(body))
	}

	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", payPalErr.Message)
	case http.StatusUnauthorized:
		return fmt.Errorf("unauthorized: check API credentials - %s", payPalErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("not found: %s", payPalErr.Message)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("validation error: %s", payPalErr.Message)
	default:
		return &payPalErr
	}
}

// formatAmount renders an amount in cents as a decimal string
func formatAmount(cents int) string {
	return strconv.Itoa(cents/100) + "." + fmt.Sprintf("%02d", cents%100)
}

// ApproveURL returns the buyer approval link of an order, if present
func (o *PayPalOrder) ApproveURL() string {
	for _, link := range o.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}

// ItemNames returns the line item names across the order's purchase units
func (o *PayPalOrder) ItemNames() []string {
	var names []string
	for _, unit := range o.PurchaseUnits {
		for _, item := range unit.Items {
			names = append(names, item.Name)
		}
	}
	return names
}
