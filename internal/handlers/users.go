package handlers

import (
	"log"
	"net/http"

	"bookhaven/internal/middleware"
	"bookhaven/internal/models"
	"bookhaven/internal/repositories"
	"bookhaven/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler serves registration, login and account endpoints
type UserHandler struct {
	auth  services.AuthServiceInterface
	users *repositories.UserRepository
	books *repositories.BookRepository
	email services.EmailService
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	auth services.AuthServiceInterface,
	users *repositories.UserRepository,
	books *repositories.BookRepository,
	email services.EmailService,
) *UserHandler {
	return &UserHandler{auth: auth, users: users, books: books, email: email}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserCreateRequest true "Registration data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	if user.Email != "" && h.email != nil {
		if err := h.email.SendWelcomeEmail(user.Email, user.Username); err != nil {
			log.Printf("failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusCreated, user)
}

// tokenRequest accepts credentials as JSON or as a classic login form
type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Token godoc
// @Summary Exchange credentials for a bearer token
// @Tags users
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param credentials body tokenRequest true "Username and password"
// @Success 200 {object} services.TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/token [post]
func (h *UserHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and password are required"})
		return
	}

	resp, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// MyBooks godoc
// @Summary List the authenticated user's owned books
// @Tags users
// @Produce json
// @Success 200 {array} models.Book
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users/me/books [get]
func (h *UserHandler) MyBooks(c *gin.Context) {
	user := middleware.CurrentUser(c)

	ids, err := h.users.GetOwnedBookIDs(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	books, err := h.books.GetByIDs(ids)
	if err != nil {
		respondError(c, err)
		return
	}
	if books == nil {
		books = []*models.Book{}
	}
	c.JSON(http.StatusOK, books)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Tags users
// @Accept json
// @Param passwords body changePasswordRequest true "Current and new password"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.auth.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GuestBooks godoc
// @Summary Resolve a guest purchase token to its books
// @Description Guests hold a signed token instead of an account; this
// endpoint exchanges it for the purchased books.
// @Tags users
// @Accept json
// @Produce json
// @Param token body guestBooksRequest true "Buyer token"
// @Success 200 {array} models.Book
// @Failure 401 {object} ErrorResponse
// @Router /api/guest/books [post]
func (h *UserHandler) GuestBooks(c *gin.Context) {
	var req guestBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "token is required"})
		return
	}

	claims, err := h.auth.ParseAnonBuyerToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid buyer token"})
		return
	}

	books, err := h.books.GetByIDs(claims.BookIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	if books == nil {
		books = []*models.Book{}
	}
	c.JSON(http.StatusOK, books)
}

type guestBooksRequest struct {
	Token string `json:"token"`
}
