package handlers

import (
	"net/http"
	"strconv"

	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/gin-gonic/gin"
)

// BookHandler serves the book catalog endpoints
type BookHandler struct {
	books *repositories.BookRepository
}

// NewBookHandler creates a new book handler
func NewBookHandler(books *repositories.BookRepository) *BookHandler {
	return &BookHandler{books: books}
}

// List godoc
// @Summary List books
// @Description Searches the catalog with optional filters and pagination
// @Tags books
// @Produce json
// @Param title query string false "Title substring"
// @Param author_id query int false "Author id"
// @Param genre_id query int false "Genre id"
// @Param language query string false "Language"
// @Param price_min query int false "Minimum price in cents"
// @Param price_max query int false "Maximum price in cents"
// @Param sort_by query string false "title, price or publication_date"
// @Param sort_desc query bool false "Sort descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Book
// @Router /api/books [get]
func (h *BookHandler) List(c *gin.Context) {
	filters := repositories.BookSearchFilters{
		Title:    c.Query("title"),
		Language: c.Query("language"),
		SortBy:   c.Query("sort_by"),
	}
	filters.AuthorID, _ = strconv.Atoi(c.Query("author_id"))
	filters.GenreID, _ = strconv.Atoi(c.Query("genre_id"))
	filters.Limit, _ = strconv.Atoi(c.Query("limit"))
	filters.Offset, _ = strconv.Atoi(c.Query("offset"))
	filters.SortDesc = c.Query("sort_desc") == "true"

	if v := c.Query("price_min"); v != "" {
		if min, err := strconv.Atoi(v); err == nil {
			filters.PriceMin = &min
		}
	}
	if v := c.Query("price_max"); v != "" {
		if max, err := strconv.Atoi(v); err == nil {
			filters.PriceMax = &max
		}
	}

	books, err := h.books.Search(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	if books == nil {
		books = []*models.Book{}
	}
	c.JSON(http.StatusOK, books)
}

// Get godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} models.Book
// @Failure 404 {object} ErrorResponse
// @Router /api/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	book, err := h.books.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create godoc
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Param book body models.BookCreateRequest true "Book data"
// @Success 201 {object} models.Book
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req models.BookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	book, err := h.books.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// Update godoc
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Param book body models.BookUpdateRequest true "Fields to update"
// @Success 200 {object} models.Book
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/books/{id} [patch]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	book, err := h.books.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// Delete godoc
// @Summary Delete a book
// @Tags books
// @Param id path int true "Book id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.books.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
