package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/pkg/container"
	"recycle-rewards-backend/pkg/logger"
)

// Usage:
//
//	go run ./cmd/create-admin -email admin@example.com -password 'S3cret!pass' -name "Site Admin"
func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 chars)")
	name := flag.String("name", "Administrator", "full name")
	flag.Parse()

	in := struct{ Email, Password, Name string }{
		Email:    user.NormalizeEmail(*email),
		Password: *password,
		Name:     strings.TrimSpace(*name),
	}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&in.Name, validation.Required, validation.Length(2, 255)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid input: %v\n", err)
		os.Exit(2)
	}

	c, err := container.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("hash password", err)
	}

	now := time.Now()
	admin := &user.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.Name,
		Role:         shared.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.UserRepo.Create(ctx, admin); err != nil {
		logger.Fatal("create admin", err)
	}

	logger.Info("Admin created", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
}
