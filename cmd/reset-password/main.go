package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"go-stock-pos/internal/repository"
	"go-stock-pos/pkg/config"
	"go-stock-pos/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.LoadEnv()

	email := flag.String("email", cfg.Seed.AdminEmail, "account to reset")
	password := flag.String("password", cfg.Seed.AdminPassword, "new password")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	// 2. Setup Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(ctx, strings.ToLower(*email))
	if err != nil {
		log.Fatalf("user %s not found: %v", *email, err)
	}

	// 4. Hash new password
	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// 5. Update and drop the active session
	if err := users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		log.Fatalf("failed to update password: %v", err)
	}
	if err := users.UpdateSession(ctx, user.ID, ""); err != nil {
		log.Fatalf("failed to revoke session: %v", err)
	}

	log.Printf("password for %s has been reset", user.Email)
}
