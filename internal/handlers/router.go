package handlers

import (
	"net/http"

	"bookhaven/internal/config"
	"bookhaven/internal/middleware"
	"bookhaven/internal/repositories"
	"bookhaven/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies holds everything the router needs
type Dependencies struct {
	Config   *config.Config
	Auth     services.AuthServiceInterface
	Checkout services.CheckoutServiceInterface
	Email    services.EmailService
	Books    *repositories.BookRepository
	Authors  *repositories.AuthorRepository
	Genres   *repositories.GenreRepository
	Users    *repositories.UserRepository
	Reviews  *repositories.ReviewRepository
	Orders   *repositories.OrderRepository
}

// NewRouter builds the HTTP router with all routes registered
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(deps.Config.CORS))

	books := NewBookHandler(deps.Books)
	authors := NewAuthorHandler(deps.Authors)
	genres := NewGenreHandler(deps.Genres)
	users := NewUserHandler(deps.Auth, deps.Users, deps.Books, deps.Email)
	reviews := NewReviewHandler(deps.Reviews)
	orders := NewOrderHandler(deps.Orders)
	checkout := NewCheckoutHandler(deps.Checkout)

	router.GET("/health", Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	api.POST("/users", users.Register)
	api.POST("/token", users.Token)
	api.POST("/guest/books", users.GuestBooks)

	api.GET("/books", books.List)
	api.GET("/books/:id", books.Get)
	api.GET("/books/:id/reviews", reviews.List)
	api.GET("/authors", authors.List)
	api.GET("/authors/:id", authors.Get)
	api.GET("/genres", genres.List)
	api.GET("/genres/:id", genres.Get)

	authed := api.Group("", middleware.RequireAuth(deps.Auth))
	authed.GET("/users/me", users.Me)
	authed.GET("/users/me/books", users.MyBooks)
	authed.PUT("/users/me/password", users.ChangePassword)
	authed.PUT("/books/:id/reviews", reviews.Put)
	authed.DELETE("/books/:id/reviews", reviews.Delete)
	authed.GET("/orders", orders.List)
	authed.GET("/orders/:id", orders.Get)

	admin := api.Group("", middleware.RequireAuth(deps.Auth), middleware.RequireAdmin())
	admin.POST("/books", books.Create)
	admin.PATCH("/books/:id", books.Update)
	admin.DELETE("/books/:id", books.Delete)
	admin.POST("/authors", authors.Create)
	admin.PUT("/authors/:id", authors.Update)
	admin.DELETE("/authors/:id", authors.Delete)
	admin.POST("/genres", genres.Create)
	admin.PUT("/genres/:id", genres.Update)
	admin.DELETE("/genres/:id", genres.Delete)

	// Capture serves guests and logged-in buyers alike.
	pay := api.Group("/checkout/paypal", middleware.OptionalAuth(deps.Auth))
	pay.POST("/order/create", checkout.CreateOrder)
	pay.POST("/order/:orderID/capture", checkout.CaptureOrder)

	return router
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
