package handlers

import (
	"net/http"

	"bookhaven/internal/middleware"
	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ReviewHandler serves the book review endpoints
type ReviewHandler struct {
	reviews *repositories.ReviewRepository
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *repositories.ReviewRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List godoc
// @Summary List a book's reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {array} models.Review
// @Router /api/books/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByBook(bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

// Put godoc
// @Summary Create or update the caller's review of a book
// @Description A user holds at most one review per book; posting again
// replaces it and marks it as edited.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Param review body models.ReviewCreateRequest true "Review data"
// @Success 200 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/books/{id}/reviews [put]
func (h *ReviewHandler) Put(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	review, err := h.reviews.Upsert(user.ID, bookID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete godoc
// @Summary Delete the caller's review of a book
// @Tags reviews
// @Param id path int true "Book id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/books/{id}/reviews [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.reviews.Delete(user.ID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
