package handlers

import (
	"foodtruck/internal/middleware"
	"foodtruck/internal/models"

	"github.com/labstack/echo/v4"
)

// Handlers groups every resource handler mounted by RegisterRoutes.
type Handlers struct {
	Health     *HealthHandlers
	Auth       *AuthHandlers
	Trucks     *FoodTruckHandlers
	Items      *ItemHandlers
	Categories *CategoryHandlers
	Carts      *CartHandlers
	Orders     *OrderHandlers
	Users      *UserHandlers
	Wallets    *WalletHandlers
}

// RegisterRoutes mounts the health probes at the root and the API under /v1.
// auth must authenticate the bearer token and load the actor into the request context.
func RegisterRoutes(e *echo.Echo, h *Handlers, versions *middleware.VersionMiddleware, auth ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)
	e.GET("/health/live", h.Health.LivenessCheck)

	v1 := e.Group("/v1")
	v1.Use(versions.VersionHeader("v1"))

	// Public
	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.GET("/trucks", h.Trucks.ListTrucks)
	v1.GET("/trucks/:slug", h.Trucks.GetTruck)
	v1.GET("/trucks/:slug/availability", h.Trucks.CheckAvailability)
	v1.GET("/items", h.Items.ListItems)
	v1.GET("/items/:slug", h.Items.GetItem)
	v1.GET("/categories", h.Categories.ListCategories)

	protected := v1.Group("", auth...)
	protected.GET("/me", h.Auth.Me)

	cart := protected.Group("/cart", middleware.RequireRole(models.RoleCustomer, models.RoleStaff))
	cart.GET("", h.Carts.GetCart)
	cart.DELETE("", h.Carts.ClearCart)
	cart.POST("/items", h.Carts.AddItem)
	cart.PUT("/items/:itemId", h.Carts.SetQuantity)
	cart.DELETE("/items/:itemId", h.Carts.RemoveItem)

	customer := protected.Group("", middleware.RequireRole(models.RoleCustomer))
	customer.POST("/orders", h.Orders.PlaceOrder)
	customer.GET("/orders", h.Orders.ListOrders)
	customer.GET("/orders/:id", h.Orders.GetOrder)
	customer.POST("/orders/:id/cancel", h.Orders.CancelOrder)
	customer.PUT("/orders/:id/feedback", h.Orders.AddFeedback)
	customer.GET("/orders/:id/receipt", h.Orders.DownloadReceipt)
	customer.GET("/wallet", h.Wallets.GetWallet)
	customer.POST("/wallet/deposit", h.Wallets.Deposit)
	customer.GET("/wallet/transactions", h.Wallets.ListTransactions)

	truckSide := protected.Group("", middleware.RequireRole(models.RoleStaff, models.RoleManager))
	truckSide.GET("/staff/customers", h.Users.SearchCustomers)
	truckSide.GET("/manager/orders", h.Orders.ListTruckOrders)
	truckSide.POST("/manager/orders/:id/approve", h.Orders.ApproveOrder)
	truckSide.POST("/manager/orders/:id/reject", h.Orders.RejectOrder)
	truckSide.PUT("/manager/orders/:id/status", h.Orders.UpdateStatus)

	// assisted checkout reads the staff cart, which managers do not have
	staff := protected.Group("/staff", middleware.RequireRole(models.RoleStaff))
	staff.POST("/customers/:custId/orders", h.Orders.PlaceOrderForCustomer)

	manager := protected.Group("/manager", middleware.RequireRole(models.RoleManager))
	manager.GET("/schedule", h.Trucks.GetSchedule)
	manager.PUT("/schedule", h.Trucks.SaveSchedule)
	manager.GET("/items", h.Items.ListOwnItems)
	manager.POST("/items", h.Items.CreateItem)
	manager.PUT("/items/:id", h.Items.UpdateItem)
	manager.DELETE("/items/:id", h.Items.DeleteItem)
	manager.POST("/items/:id/image", h.Items.UploadItemImage)
	manager.GET("/staff", h.Users.ListStaff)
	manager.POST("/staff", h.Users.CreateStaff)

	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/trucks", h.Trucks.ListTrucks)
	admin.POST("/trucks", h.Trucks.OnboardTruck)
	admin.POST("/categories", h.Categories.CreateCategory)
	admin.PUT("/categories/:id", h.Categories.UpdateCategory)
	admin.DELETE("/categories/:id", h.Categories.DeleteCategory)
}
