package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"userhub/internal/config"
	"userhub/internal/db"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// demoUser is a fixture account for local development.
type demoUser struct {
	Username string
	Password string
	Role     model.Role
}

var demoUsers = []demoUser{
	{Username: "alice", Password: "Passw0rd", Role: model.RoleStudent},
	{Username: "bob", Password: "Secret99x", Role: model.RoleStudent},
	{Username: "carol", Password: "Carol123", Role: model.RoleStudent},
	{Username: "dave", Password: "Dave2024", Role: model.RoleStudent},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	seeded, skipped := 0, 0

	// Admin first, so a fresh database is usable immediately.
	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin := &model.User{
		Username:     model.AdminUsername,
		PasswordHash: string(adminHash),
		Role:         model.RoleAdmin,
	}
	switch err := userRepo.Create(ctx, admin); {
	case err == nil:
		seeded++
	case errors.Is(err, apperrors.ErrUsernameTaken):
		skipped++
	default:
		log.Fatalf("Failed to seed admin: %v", err)
	}

	for _, item := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", item.Username, err)
		}

		user := &model.User{
			Username:     item.Username,
			PasswordHash: string(hash),
			Role:         item.Role,
		}
		switch err := userRepo.Create(ctx, user); {
		case err == nil:
			seeded++
		case errors.Is(err, apperrors.ErrUsernameTaken):
			skipped++
		default:
			log.Fatalf("Failed to seed %s: %v", item.Username, err)
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", seeded)
	log.Printf("  - Existing users skipped: %d", skipped)
}
