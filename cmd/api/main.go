package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/config"
	"github.com/noah-isme/portfolio-api/internal/database"
	"github.com/noah-isme/portfolio-api/internal/handler"
	"github.com/noah-isme/portfolio-api/internal/middleware"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/observability"
	"github.com/noah-isme/portfolio-api/internal/repository"
	"github.com/noah-isme/portfolio-api/internal/router"
	"github.com/noah-isme/portfolio-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.ContactSubmission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access database pool: %v", err)
	}
	defer sqlDB.Close()

	var replayGuard service.TokenReplayGuard
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		replayGuard = service.NewRedisTokenReplayGuard(redisClient, cfg.ContactReplayTTL)
	}

	deliveries := []service.ContactDelivery{service.NewLogContactDelivery(logger)}
	if cfg.DiscordWebhookURL != "" {
		deliveries = append(deliveries, service.NewDiscordWebhookDelivery(cfg.DiscordWebhookURL, observability.NewHTTPClient(cfg.NotifyTimeout)))
	} else {
		logger.Warn().Msg("discord webhook url not set, contact notifications are only logged")
	}

	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		deliveries = append(deliveries, service.NewNATSContactDelivery(natsConn, cfg.NATSSubject))
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	contactRepo := repository.NewContactRepository(db)
	verifier := service.NewTurnstileVerifier(service.TurnstileConfig{
		SecretKey: cfg.TurnstileSecretKey,
		VerifyURL: cfg.TurnstileVerifyURL,
	}, observability.NewHTTPClient(cfg.TurnstileTimeout), logger)
	dispatcher := service.NewAsyncContactDispatcher(cfg.NotifyTimeout, logger, deliveries...)

	contactService := service.NewContactService(contactRepo, service.NewContactValidator(validate), verifier, replayGuard, dispatcher, logger)
	contactHandler := handler.NewContactHandler(contactService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    64 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		ContactHandler: contactHandler,
		Database:       sqlDB,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, dispatcher)
}

func waitForShutdown(app *fiber.App, dispatcher *service.AsyncContactDispatcher) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	dispatcher.Wait()
	log.Println("server stopped")
}
