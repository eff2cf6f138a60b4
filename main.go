// File: amanthos/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amanthos/config"
	"amanthos/handlers"
	"amanthos/middleware"
	"amanthos/routes"
	"amanthos/services/assistant"
	"amanthos/services/booking"
	"amanthos/services/pms"
	"amanthos/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// PMS gateway.
	pmsClient := pms.NewClient(
		config.AppConfig.ApaleoTokenURL,
		config.AppConfig.ApaleoAPIBase,
		config.AppConfig.ApaleoClientID,
		config.AppConfig.ApaleoClientSecret,
		logger,
	)

	// Booking and payment services.
	bookingService := booking.NewBookingService(pmsClient, logger)
	linkOrchestrator := booking.NewLinkOrchestrator(pmsClient, logger)
	ledger := booking.NewFileLedger(config.AppConfig.PendingBookingsFile)

	// Chat assistant.
	providerClient := assistant.NewClient(
		config.AppConfig.AnthropicAPIURL,
		config.AppConfig.AnthropicAPIKey,
		config.AppConfig.AnthropicModel,
	)
	sessionStore := assistant.NewSessionStore()
	toolRunner := assistant.NewToolRunner(bookingService, linkOrchestrator, logger)
	assistantService := assistant.NewAssistantService(providerClient, sessionStore, toolRunner, logger)

	// Handlers.
	offersHandler := handlers.NewOffersHandler(bookingService)
	bookingHandler := handlers.NewBookingHandler(bookingService, linkOrchestrator, ledger, logger)
	chatHandler := handlers.NewChatHandler(assistantService, logger)
	adminHandler := handlers.NewAdminHandler(ledger, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetPropertiesHandler:   offersHandler.GetPropertiesHandler,
		GetOffersHandler:       offersHandler.GetOffersHandler,
		GetAvailabilityHandler: offersHandler.GetAvailabilityHandler,

		CreateBookingHandler: bookingHandler.CreateBookingHandler,
		PaymentLinkHandler:   bookingHandler.PaymentLinkHandler,

		ChatTurnHandler: chatHandler.ChatTurnHandler,

		PendingBookingsHandler: adminHandler.PendingBookingsHandler,
	}

	// Register routes with the assembled handler bundle.
	limiter := middleware.NewRateLimiter()
	routes.RegisterRoutes(router, handlerBundle, limiter)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3002"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
