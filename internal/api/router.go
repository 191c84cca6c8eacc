package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fintrackhq/fintrack-be/internal/api/handlers"
	"github.com/fintrackhq/fintrack-be/internal/auth"
	"github.com/fintrackhq/fintrack-be/internal/services"
	"github.com/fintrackhq/fintrack-be/internal/websocket"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	DB              *sql.DB
	Hub             *websocket.Hub
	UserService     services.UserServiceProvider
	TransactionSvc  services.TransactionServiceProvider
	BudgetService   services.BudgetServiceProvider
	GoalService     services.GoalServiceProvider
	CategoryService services.CategoryServiceProvider
	NotificationSvc services.NotificationServiceProvider
	RecurringSvc    services.RecurringServiceProvider
	InsightService  services.InsightServiceProvider
	AllowedOrigin   string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.UserService)
	transactionHandler := handlers.NewTransactionHandler(deps.TransactionSvc, deps.BudgetService, deps.InsightService)
	budgetHandler := handlers.NewBudgetHandler(deps.BudgetService, deps.InsightService)
	goalHandler := handlers.NewGoalHandler(deps.GoalService, deps.InsightService)
	categoryHandler := handlers.NewCategoryHandler(deps.CategoryService)
	notificationHandler := handlers.NewNotificationHandler(deps.NotificationSvc)
	recurringHandler := handlers.NewRecurringHandler(deps.RecurringSvc)
	insightHandler := handlers.NewInsightHandler(deps.InsightService)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.NotificationSvc)

	r.Get("/", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Get("/me", authHandler.GetMe)
				r.Put("/me", authHandler.UpdateMe)
				r.Put("/me/password", authHandler.ChangePassword)
			})
		})

		r.Get("/categories", categoryHandler.GetAll)

		// Everything below requires an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/ws", wsHandler.Serve)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.GetAll)
				r.Post("/", transactionHandler.Create)
				r.Delete("/{id}", transactionHandler.Delete)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", budgetHandler.GetAll)
				r.Post("/", budgetHandler.Upsert)
				r.Delete("/{id}", budgetHandler.Delete)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", goalHandler.GetAll)
				r.Post("/", goalHandler.Create)
				r.Post("/{id}/contribute", goalHandler.Contribute)
				r.Put("/{id}/status", goalHandler.UpdateStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.GetAll)
				r.Put("/{id}/read", notificationHandler.MarkRead)
			})

			r.Route("/recurring", func(r chi.Router) {
				r.Get("/", recurringHandler.GetAll)
				r.Post("/", recurringHandler.Create)
				r.Put("/{id}", recurringHandler.Update)
				r.Delete("/{id}", recurringHandler.Delete)
			})

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", authHandler.GetPreferences)
				r.Put("/", authHandler.UpdatePreferences)
			})

			r.Get("/dashboard/summary", insightHandler.GetSummary)
		})
	})

	return r
}
