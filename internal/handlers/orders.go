package handlers

import (
	"net/http"

	"bookhaven/internal/middleware"
	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves the order history endpoints
type OrderHandler struct {
	orders *repositories.OrderRepository
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *repositories.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List godoc
// @Summary List the authenticated user's orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orders.GetByUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// Get godoc
// @Summary Get one of the authenticated user's orders
// @Tags orders
// @Produce json
// @Param id path int true "Order id"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if order.UserID != user.ID && !user.IsAdmin {
		// Hide other users' orders rather than confirming they exist.
		c.JSON(http.StatusNotFound, ErrorResponse{Error: models.ErrOrderNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}
