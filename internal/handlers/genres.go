package handlers

import (
	"net/http"

	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GenreHandler serves the genre endpoints
type GenreHandler struct {
	genres *repositories.GenreRepository
}

// NewGenreHandler creates a new genre handler
func NewGenreHandler(genres *repositories.GenreRepository) *GenreHandler {
	return &GenreHandler{genres: genres}
}

// List godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {array} models.Genre
// @Router /api/genres [get]
func (h *GenreHandler) List(c *gin.Context) {
	genres, err := h.genres.List()
	if err != nil {
		respondError(c, err)
		return
	}
	if genres == nil {
		genres = []*models.Genre{}
	}
	c.JSON(http.StatusOK, genres)
}

// Get godoc
// @Summary Get a genre
// @Tags genres
// @Produce json
// @Param id path int true "Genre id"
// @Success 200 {object} models.Genre
// @Failure 404 {object} ErrorResponse
// @Router /api/genres/{id} [get]
func (h *GenreHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	genre, err := h.genres.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Create godoc
// @Summary Create a genre
// @Tags genres
// @Accept json
// @Produce json
// @Param genre body models.GenreCreateRequest true "Genre data"
// @Success 201 {object} models.Genre
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/genres [post]
func (h *GenreHandler) Create(c *gin.Context) {
	var req models.GenreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	genre, err := h.genres.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Update godoc
// @Summary Rename a genre
// @Tags genres
// @Accept json
// @Produce json
// @Param id path int true "Genre id"
// @Param genre body models.GenreCreateRequest true "Genre data"
// @Success 200 {object} models.Genre
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/genres/{id} [put]
func (h *GenreHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.GenreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	genre, err := h.genres.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Delete godoc
// @Summary Delete a genre
// @Tags genres
// @Param id path int true "Genre id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/genres/{id} [delete]
func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.genres.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
