package main

import (
	"context"
	"flag"

	"aroma-inventory/internal/config"
	applog "aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/valueobject"
	"aroma-inventory/pkg/database"
)

func main() {
	email := flag.String("email", "", "account to reset (defaults to ADMIN_EMAIL)")
	password := flag.String("password", "", "new password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	// 1. Load Env
	cfg := config.Load()
	log, err := applog.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *email == "" {
		*email = cfg.AdminEmail
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	userRepo := repository.NewUserRepo(db)
	ctx := context.Background()

	// 3. Find user
	user, err := findUser(ctx, userRepo, *email)
	if err != nil {
		log.Fatal("user not found", "email", *email, "error", err)
	}

	// 4. Hash new password and revoke existing sessions
	if err := user.SetPassword(*password); err != nil {
		log.Fatal("failed to set password", "error", err)
	}
	user.RotateTokenVersion()
	user.UpdatedBy = "reset-password"

	// 5. Update
	if err := userRepo.Save(ctx, user); err != nil {
		log.Fatal("failed to update password", "error", err)
	}

	log.Info("password reset", "email", user.Email)
}

// findUser looks the account up by its normalized address
func findUser(ctx context.Context, userRepo repository.UserRepository, raw string) (*model.User, error) {
	addr, err := valueobject.NewEmail(raw)
	if err != nil {
		return nil, err
	}
	return userRepo.FindByEmail(ctx, addr.String())
}
