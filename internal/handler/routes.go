package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/middleware"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/service"
	"go-retail-ws/internal/session"
)

// Deps is what the HTTP routes need from the wiring layer
type Deps struct {
	Auth       service.AuthService
	Users      service.UserService
	Sessions   session.Store
	Workspaces *service.Workspaces
}

// SetupRoutes mounts the REST API under /api/v1
func SetupRoutes(app *fiber.App, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Workspaces)
	userHandler := NewUserHandler(d.Users)
	storeHandler := NewStoreHandler()
	staffHandler := NewStaffHandler()
	invHandler := NewInventoryHandler()
	saleHandler := NewSaleHandler()
	metricHandler := NewMetricHandler()
	dashHandler := NewDashboardHandler()
	roleHandler := NewRoleHandler()

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Get("/roles", roleHandler.GetRoles)
	api.Get("/privileges", roleHandler.GetPrivileges)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.Sessions, d.Workspaces))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Put("/profile", userHandler.UpdateProfile)

	// Store Routes
	protected.Get("/stores", storeHandler.GetStores)
	protected.Post("/stores", storeHandler.CreateStore)
	protected.Post("/stores/:storeID/select", storeHandler.SelectStore)

	store := protected.Group("/stores/:storeID")
	store.Get("/summary", dashHandler.GetSummary)

	// Staff Routes (owner only, checked by the service)
	store.Get("/staff", staffHandler.GetStaff)
	store.Post("/staff", staffHandler.AddStaff)
	store.Put("/staff/:id", staffHandler.UpdateStaff)
	store.Delete("/staff/:id", staffHandler.RemoveStaff)

	// Product Routes (with permission checks)
	store.Get("/products", middleware.RequireAction(model.ActionProductView), invHandler.GetProducts)
	store.Post("/products", middleware.RequireAction(model.ActionProductCreate), invHandler.CreateProduct)
	store.Put("/products/:id", middleware.RequireAction(model.ActionProductUpdate), invHandler.UpdateProduct)
	store.Delete("/products/:id", middleware.RequireAction(model.ActionProductDelete), invHandler.DeleteProduct)

	// Sales Routes
	store.Get("/sales", saleHandler.GetSales)
	store.Post("/sales", saleHandler.CreateSale)
	store.Delete("/sales/:id", saleHandler.DeleteSale)

	// Metric Routes
	store.Get("/metrics", metricHandler.GetMetrics)
	store.Post("/metrics", metricHandler.CreateMetric)
	store.Delete("/metrics/:id", metricHandler.DeleteMetric)
}
