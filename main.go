package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/api"
	"github.com/fintrackhq/fintrack-be/internal/config"
	"github.com/fintrackhq/fintrack-be/internal/database"
	"github.com/fintrackhq/fintrack-be/internal/logger"
	"github.com/fintrackhq/fintrack-be/internal/monitoring"
	"github.com/fintrackhq/fintrack-be/internal/services"
	"github.com/fintrackhq/fintrack-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db, hub)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db, notificationService)
	goalService := services.NewGoalService(db, notificationService)
	categoryService := services.NewCategoryService(db)
	recurringService := services.NewRecurringService(db)
	insightService := services.NewInsightService(transactionService)

	// Set up and run the background recurring transaction processor
	processor := monitoring.NewRecurringProcessor(recurringService, transactionService, notificationService, insightService)
	go processor.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		DB:              db,
		Hub:             hub,
		UserService:     userService,
		TransactionSvc:  transactionService,
		BudgetService:   budgetService,
		GoalService:     goalService,
		CategoryService: categoryService,
		NotificationSvc: notificationService,
		RecurringSvc:    recurringService,
		InsightService:  insightService,
		AllowedOrigin:   cfg.AllowedOrigin,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	processor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
