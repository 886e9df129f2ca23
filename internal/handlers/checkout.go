package handlers

import (
	"net/http"

	"bookhaven/internal/middleware"
	"bookhaven/internal/models"
	"bookhaven/internal/services"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler serves the payment workflow endpoints
type CheckoutHandler struct {
	checkout services.CheckoutServiceInterface
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout services.CheckoutServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CreateOrder godoc
// @Summary Start a checkout
// @Description Resolves the cart against the catalog and creates a PayPal
// order for the purchasable books. Unknown ids are reported back in
// missing_book_ids instead of failing the request.
// @Tags checkout
// @Accept json
// @Produce json
// @Param cart body models.ShoppingCart true "Book ids to purchase"
// @Success 201 {object} services.CheckoutSession
// @Failure 400 {object} ErrorResponse
// @Router /api/checkout/paypal/order/create [post]
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var cart models.ShoppingCart
	if err := c.ShouldBindJSON(&cart); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.checkout.BeginCheckout(&cart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CaptureOrder godoc
// @Summary Capture an approved checkout
// @Description Captures the payment and fulfills the purchase. Logged-in
// buyers get a persisted order and permanent book grants; guests get a
// signed buyer token carrying their books. Replayed captures are rejected.
// @Tags checkout
// @Produce json
// @Param orderID path string true "PayPal order id"
// @Success 200 {object} services.CheckoutResult
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/checkout/paypal/order/{orderID}/capture [post]
func (h *CheckoutHandler) CaptureOrder(c *gin.Context) {
	orderID := c.Param("orderID")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "order id is required"})
		return
	}

	// nil user means guest checkout.
	user := middleware.CurrentUser(c)

	result, err := h.checkout.CompleteCheckout(orderID, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
