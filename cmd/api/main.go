package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reviewrelay/backend/internal/adapters/cache"
	"github.com/reviewrelay/backend/internal/adapters/database"
	"github.com/reviewrelay/backend/internal/api/handlers"
	"github.com/reviewrelay/backend/internal/api/routes"
	"github.com/reviewrelay/backend/internal/application/services"
	"github.com/reviewrelay/backend/internal/domain/providers"
	"github.com/reviewrelay/backend/internal/infrastructure/clients/postgres"
	"github.com/reviewrelay/backend/internal/infrastructure/clients/redis"
	"github.com/reviewrelay/backend/internal/infrastructure/identity"
	"github.com/reviewrelay/backend/internal/infrastructure/notifications"
	"github.com/reviewrelay/backend/internal/infrastructure/observability"
	"github.com/reviewrelay/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize adapters
	businessAdapter := database.NewBusinessAdapter(pgClient)
	customerAdapter := database.NewCustomerAdapter(pgClient)
	requestAdapter := database.NewReviewRequestAdapter(pgClient)
	ratingAdapter := database.NewRatingEventAdapter(pgClient)
	feedbackAdapter := database.NewFeedbackAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize the identity verifier; without an external verify URL the
	// server runs with development tokens.
	var verifier providers.IdentityProvider
	if cfg.Identity.VerifyURL != "" {
		verifier, err = identity.NewHTTPVerifier(cfg.Identity.VerifyURL)
		if err != nil {
			log.Fatalf("Failed to initialize identity verifier: %v", err)
		}
	} else {
		log.Println("Warning: IDENTITY_VERIFY_URL is not set; using static development tokens")
		verifier = identity.NewStaticVerifier()
	}

	// Initialize the invite messenger
	var messenger providers.MessageProvider
	if cfg.WhatsApp.AccessToken != "" && cfg.WhatsApp.PhoneNumberID != "" {
		messenger, err = notifications.NewWhatsAppInviteSender(&cfg.WhatsApp)
		if err != nil {
			log.Fatalf("Failed to initialize WhatsApp sender: %v", err)
		}
		log.Println("WhatsApp invite sender initialized successfully")
	} else {
		log.Println("Warning: WhatsApp credentials not set; invites are logged instead of sent")
		messenger = notifications.NewLogInviteSender()
	}
	messenger = notifications.NewInstrumentedSender(messenger, metrics)

	// Initialize services
	businessService := services.NewBusinessService(businessAdapter)
	customerResolver := services.NewCustomerResolver(customerAdapter)

	requestLedger := services.NewRequestLedger(
		requestAdapter,
		customerAdapter,
		businessAdapter,
		messenger,
		services.LedgerPolicy{
			Strict:        cfg.Funnel.StrictProgression,
			RatingBaseURL: cfg.Funnel.RatingBaseURL,
		},
	)

	ratingGate := services.NewRatingGate(ratingAdapter, requestAdapter, businessAdapter)
	feedbackCollector := services.NewFeedbackCollector(feedbackAdapter, ratingAdapter, requestAdapter)

	analyticsService := services.NewAnalyticsService(
		requestAdapter,
		ratingAdapter,
		feedbackAdapter,
		cacheProvider,
		services.AnalyticsConfig{
			VisitMultiplier: cfg.Funnel.VisitMultiplier,
			CacheTTLSeconds: cfg.Funnel.OverviewCacheTTLSeconds,
		},
	)

	// Initialize handlers
	businessHandler := handlers.NewBusinessHandler(businessService)
	requestHandler := handlers.NewRequestHandler(customerResolver, requestLedger, businessService)
	ratingHandler := handlers.NewRatingHandler(ratingGate, metrics)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackCollector, businessService, cacheProvider)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, businessService)

	var deliveryWebhookHandler *handlers.DeliveryWebhookHandler
	if cfg.Funnel.WebhookSecret != "" {
		deliveryWebhookHandler = handlers.NewDeliveryWebhookHandler(requestLedger, cfg.Funnel.WebhookSecret)
	} else {
		log.Println("Warning: DELIVERY_WEBHOOK_SECRET is not set; delivery webhook disabled")
	}

	// Set up router
	router := routes.NewRouter(
		businessHandler,
		requestHandler,
		ratingHandler,
		feedbackHandler,
		analyticsHandler,
		deliveryWebhookHandler,
		verifier,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
