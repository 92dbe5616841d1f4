package handler

import (
	"aroma-inventory/internal/middleware"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Product   *ProductHandler
	Client    *ClientHandler
	Dashboard *DashboardHandler
}

// Register mounts every route on app. requireAuth guards everything except
// login, register and token validation.
func Register(app *fiber.App, h Handlers, requireAuth fiber.Handler, hub *ws.Hub) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/change-password", requireAuth, h.Auth.ChangePassword)
	auth.Post("/logout", requireAuth, h.Auth.Logout)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	protected.Get("/me", h.Auth.Me)

	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)

	protected.Get("/products", h.Product.GetProducts)
	protected.Get("/products/low-stock", h.Product.GetLowStock)
	protected.Post("/products", h.Product.CreateProduct)
	protected.Get("/products/:id", h.Product.GetProduct)
	protected.Put("/products/:id", h.Product.UpdateProduct)
	protected.Post("/products/:id/stock/add", h.Product.AddStock)
	protected.Post("/products/:id/stock/remove", h.Product.RemoveStock)
	protected.Get("/products/:id/stock-history", h.Product.GetStockHistory)
	protected.Post("/products/:id/deactivate", h.Product.DeactivateProduct)
	protected.Post("/products/:id/activate", h.Product.ActivateProduct)

	protected.Get("/clients", h.Client.GetClients)
	protected.Post("/clients/individual", h.Client.CreateIndividual)
	protected.Put("/clients/individual/:id", h.Client.UpdateIndividual)
	protected.Post("/clients/business", h.Client.CreateBusiness)
	protected.Put("/clients/business/:id", h.Client.UpdateBusiness)
	protected.Get("/clients/:id", h.Client.GetClient)
	protected.Post("/clients/:id/deactivate", h.Client.DeactivateClient)

	// User Management Routes
	protected.Get("/users", middleware.RequireRole(model.RoleAdmin), h.User.GetUsers)
	protected.Post("/users", middleware.RequireRole(model.RoleAdmin), h.User.CreateUser)
	protected.Get("/users/:id", h.User.GetUser)
	protected.Put("/users/:id", h.User.UpdateUser)
	protected.Post("/users/:id/deactivate", middleware.RequireRole(model.RoleAdmin), h.User.DeactivateUser)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, requireAuth)
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Join(c) {
			return
		}
		defer hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
