package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/academy/internal/cache"
	"github.com/example/academy/internal/handlers"
	"github.com/example/academy/internal/middleware"
	"github.com/example/academy/internal/service"
	"github.com/example/academy/internal/utils"
)

// Deps carries what the HTTP layer needs from main.
type Deps struct {
	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Checkout  *service.CheckoutService
	Dashboard *service.DashboardService
	Admin     *service.AdminService

	Tokens       *utils.TokenIssuer
	Limiter      cache.Limiter
	OTPSendLimit time.Duration
	Log          *zap.Logger
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Auth)
	passwordHandler := handlers.NewPasswordHandler(d.Auth)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog)
	orderHandler := handlers.NewOrderHandler(d.Cart, d.Checkout)
	dashboardHandler := handlers.NewDashboardHandler(d.Auth, d.Dashboard)
	adminHandler := handlers.NewAdminHandler(d.Admin, d.Checkout)

	otpLimit := middleware.OTPRateLimit(d.Limiter, d.OTPSendLimit, d.Log)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", otpLimit, authHandler.Register)
	auth.Post("/activate", authHandler.Activate)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", otpLimit, passwordHandler.ForgotPassword)
	auth.Post("/reset-password", passwordHandler.ResetPassword)

	// Catalog routes
	api.Get("/courses", catalogHandler.ListCourses)
	api.Get("/courses/:id", catalogHandler.GetCourse)
	api.Get("/categories/:slug/courses", catalogHandler.CategoryCourses)

	// Protected routes
	requireAuth := middleware.AuthMiddleware(d.Tokens)

	api.Post("/comments", requireAuth, catalogHandler.AddComment)
	api.Post("/bookmarks/:kind/:id", requireAuth, catalogHandler.ToggleBookmark)

	api.Get("/cart", requireAuth, orderHandler.GetCart)
	api.Post("/cart/:kind/:id", requireAuth, orderHandler.AddToCart)
	api.Delete("/cart/:kind/:id", requireAuth, orderHandler.RemoveFromCart)
	api.Post("/checkout", requireAuth, orderHandler.Checkout)
	api.Post("/orders/:id/pay", requireAuth, orderHandler.PayOrder)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.Get("/profile", dashboardHandler.GetProfile)
	dashboard.Put("/profile", dashboardHandler.UpdateProfile)
	dashboard.Post("/change-password", passwordHandler.ChangePassword)
	dashboard.Get("/courses", dashboardHandler.MyCourses)
	dashboard.Post("/courses", dashboardHandler.CreateCourse)
	dashboard.Put("/courses/:id", dashboardHandler.UpdateCourse)
	dashboard.Delete("/courses/:id", dashboardHandler.DeleteCourse)
	dashboard.Post("/courses/:id/sections", dashboardHandler.AddSection)
	dashboard.Post("/sections/:id/lessons", dashboardHandler.AddLesson)
	dashboard.Get("/bookmarks", dashboardHandler.MyBookmarks)
	dashboard.Get("/orders", dashboardHandler.MyOrders)
	dashboard.Get("/wallet", dashboardHandler.MyWallet)

	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin(d.Admin))
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Post("/users/:id/top-up", adminHandler.TopUp)
}
