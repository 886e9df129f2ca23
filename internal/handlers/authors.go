package handlers

import (
	"net/http"

	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/gin-gonic/gin"
)

// AuthorHandler serves the author endpoints
type AuthorHandler struct {
	authors *repositories.AuthorRepository
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(authors *repositories.AuthorRepository) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// List godoc
// @Summary List authors
// @Tags authors
// @Produce json
// @Success 200 {array} models.Author
// @Router /api/authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	authors, err := h.authors.List()
	if err != nil {
		respondError(c, err)
		return
	}
	if authors == nil {
		authors = []*models.Author{}
	}
	c.JSON(http.StatusOK, authors)
}

// Get godoc
// @Summary Get an author
// @Tags authors
// @Produce json
// @Param id path int true "Author id"
// @Success 200 {object} models.Author
// @Failure 404 {object} ErrorResponse
// @Router /api/authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	author, err := h.authors.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// Create godoc
// @Summary Create an author
// @Tags authors
// @Accept json
// @Produce json
// @Param author body models.AuthorCreateRequest true "Author data"
// @Success 201 {object} models.Author
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req models.AuthorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	author, err := h.authors.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

// Update godoc
// @Summary Rename an author
// @Tags authors
// @Accept json
// @Produce json
// @Param id path int true "Author id"
// @Param author body models.AuthorCreateRequest true "Author data"
// @Success 200 {object} models.Author
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/authors/{id} [put]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AuthorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	author, err := h.authors.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// Delete godoc
// @Summary Delete an author
// @Tags authors
// @Param id path int true "Author id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.authors.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
