package main

import (
	"flag"
	"fmt"
	"log"

	"bookhaven/internal/config"
	"bookhaven/internal/database"
	"bookhaven/internal/repositories"
	"bookhaven/internal/utils"
)

func main() {
	var (
		username = flag.String("username", "", "Admin username")
		email    = flag.String("email", "", "Admin email (optional)")
		password = flag.String("password", "", "Admin password")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("Usage: go run cmd/create-admin/main.go -username <name> -password <password> [-email <email>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{Path: cfg.Database.Path})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := repositories.NewUserRepository(db.DB)
	user, err := users.Create(*username, *email, hash)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	if err := users.SetAdmin(user.ID, true); err != nil {
		log.Fatalf("Failed to grant admin rights: %v", err)
	}

	fmt.Printf("Admin user %q created (id %d)\n", user.Username, user.ID)
}
