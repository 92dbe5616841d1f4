package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/config"
	"aroma-inventory/internal/handler"
	applog "aroma-inventory/internal/logger"
	"aroma-inventory/internal/middleware"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/service"
	"aroma-inventory/internal/valueobject"
	"aroma-inventory/internal/ws"
	"aroma-inventory/pkg/database"
	"aroma-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load Env
	cfg := config.Load()

	log, err := applog.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", "driver", cfg.Database.Driver, "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", "error", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	historyRepo := repository.NewStockHistoryRepo(db)
	clientRepo := repository.NewClientRepo(db)
	userRepo := repository.NewUserRepo(db)

	seedAdmin(userRepo, cfg, log)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	productService := service.NewProductService(db, productRepo, historyRepo, wsHub, log, service.ProductOptions{
		LowStockThreshold: cfg.LowStockThreshold,
		DefaultCurrency:   cfg.DefaultCurrency,
	})
	clientService := service.NewClientService(clientRepo, wsHub, log)
	dashService := service.NewDashboardService(productRepo, historyRepo, cfg.LowStockThreshold)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, log),
		User:      handler.NewUserHandler(userService, log),
		Product:   handler.NewProductHandler(productService, log),
		Client:    handler.NewClientHandler(clientService, log),
		Dashboard: handler.NewDashboardHandler(dashService, log),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 6. Routes
	handler.Register(app, handlers, middleware.RequireAuth(authService), wsHub)

	// 7. Graceful Shutdown
	go func() {
		log.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	wsHub.Stop()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("server exited")
}

// seedAdmin creates the configured admin account if it does not exist yet
func seedAdmin(userRepo repository.UserRepository, cfg *config.Config, log *applog.Logger) {
	ctx := context.Background()
	email, err := valueobject.NewEmail(cfg.AdminEmail)
	if err != nil {
		log.Warn("invalid ADMIN_EMAIL, skipping admin seed", "error", err)
		return
	}

	_, err = userRepo.FindByEmail(ctx, email.String())
	if err == nil {
		return
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		log.Warn("failed to look up admin user", "error", err)
		return
	}

	name, _ := valueobject.NewPersonName("System", "Administrator")
	admin, err := model.NewUser(name, email, cfg.AdminPassword, model.RoleAdmin, "system")
	if err != nil {
		log.Warn("failed to build admin user", "error", err)
		return
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Warn("failed to create admin user", "error", err)
		return
	}
	log.Info("admin user created", "email", admin.Email)
}
