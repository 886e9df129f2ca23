package main

import (
	"fmt"
	"log"

	"bookhaven/internal/config"
	"bookhaven/internal/database"
	"bookhaven/internal/handlers"
	"bookhaven/internal/repositories"
	"bookhaven/internal/services"

	_ "bookhaven/docs"
)

// @title BookHaven API
// @version 1.0
// @description Online bookstore backend with catalog, reviews and PayPal checkout.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := database.NewConnection(database.Config{Path: cfg.Database.Path})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	bookRepo := repositories.NewBookRepository(db.DB)
	authorRepo := repositories.NewAuthorRepository(db.DB)
	genreRepo := repositories.NewGenreRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)
	reviewRepo := repositories.NewReviewRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)

	// Initialize services; payment and email fall back to mocks without credentials
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.AnonBuyerTokenTTL)

	var emailService services.EmailService
	if cfg.Resend.APIKey != "" {
		emailService = services.NewResendEmailService(services.ResendConfig{
			APIKey:    cfg.Resend.APIKey,
			FromEmail: cfg.Resend.FromEmail,
			FromName:  cfg.Resend.FromName,
		})
		log.Println("Email service: Using Resend API")
	} else {
		emailService = services.NewMockEmailService()
		log.Println("Email service: Using mock (no Resend API key provided)")
	}

	paymentService := services.NewMockPaymentService(&services.PayPalConfig{
		ClientID:    cfg.PayPal.ClientID,
		Secret:      cfg.PayPal.Secret,
		Environment: cfg.PayPal.Environment,
		Currency:    cfg.PayPal.Currency,
	})

	checkoutService := services.NewCheckoutService(bookRepo, orderRepo, paymentService, authService, emailService)

	router := handlers.NewRouter(handlers.Dependencies{
		Config:   cfg,
		Auth:     authService,
		Checkout: checkoutService,
		Email:    emailService,
		Books:    bookRepo,
		Authors:  authorRepo,
		Genres:   genreRepo,
		Users:    userRepo,
		Reviews:  reviewRepo,
		Orders:   orderRepo,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s (%s environment)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server failed:", err)
	}
}
