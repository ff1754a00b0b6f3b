package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/saathihq/saathi-platform/cmd/mainconfig"
	"github.com/saathihq/saathi-platform/internal/api/router"
	"github.com/saathihq/saathi-platform/internal/auth"
	"github.com/saathihq/saathi-platform/internal/bookings"
	"github.com/saathihq/saathi-platform/internal/chat"
	appconfig "github.com/saathihq/saathi-platform/internal/config"
	"github.com/saathihq/saathi-platform/internal/notify"
	"github.com/saathihq/saathi-platform/internal/observability/metrics"
	"github.com/saathihq/saathi-platform/internal/psychologists"
	"github.com/saathihq/saathi-platform/internal/razorpay"
	"github.com/saathihq/saathi-platform/internal/stories"
	"github.com/saathihq/saathi-platform/internal/users"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting saathi-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach postgres", "error", err)
		os.Exit(1)
	}

	// Redis (sessions and one-time codes)
	redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to reach redis", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	authMetrics := metrics.NewAuthMetrics(registry)
	bookingMetrics := metrics.NewBookingMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	// Repositories
	userRepo := users.NewPostgresRepository(pool)
	psyRepo := psychologists.NewPostgresRepository(pool)
	bookingRepo := bookings.NewPostgresRepository(pool)
	storyRepo := stories.NewPostgresRepository(pool)
	chatRepo := chat.NewPostgresRepository(pool)

	// Email delivery for one-time codes
	sender := buildEmailSender(ctx, cfg, logger)
	if sender == nil {
		logger.Error("no email sender configured", "provider", cfg.EmailProvider)
		os.Exit(1)
	}
	mailer := notify.NewOTPMailer(sender, logger)

	// Auth
	sessions := auth.NewSessionStore(rdb, cfg.SessionTTL, logger)
	otps := auth.NewOTPStore(rdb, cfg.OTPTTL)
	provider := auth.NewProviderClient(cfg.OAuthProviderURL, logger)
	authService := auth.NewService(userRepo, sessions, otps, mailer, provider, logger)
	authHandler := auth.NewHandler(authService, cfg.SessionCookie, authMetrics, logger)

	// Bookings and payments
	gateway := razorpay.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
	bookingService := bookings.NewService(bookingRepo, psyRepo, gateway, bookingMetrics, logger)
	bookingsHandler := bookings.NewHandler(bookingService, logger)

	// Support chat
	responder, err := chat.NewGeminiResponder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to initialize chat responder", "error", err)
		os.Exit(1)
	}
	defer func() { _ = responder.Close() }()
	chatService := chat.NewService(chatRepo, responder, logger)
	chatHandler := chat.NewHandler(chatService, logger)

	// Directory and stories
	psyHandler := psychologists.NewHandler(psyRepo, logger)
	storiesHandler := stories.NewHandler(storyRepo, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		AuthService:          authService,
		AuthHandler:          authHandler,
		PsychologistsHandler: psyHandler,
		BookingsHandler:      bookingsHandler,
		ChatHandler:          chatHandler,
		StoriesHandler:       storiesHandler,
		SessionCookie:        cfg.SessionCookie,
		AdminJWTSecret:       cfg.AdminJWTSecret,
		MetricsHandler:       metricsHandler,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the configured email provider. SES is the
// default; SendGrid is kept as a drop-in alternative.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SenderEmail,
			FromName:  cfg.SenderName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	default:
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return nil
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SenderEmail,
			FromName:  cfg.SenderName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	}
}
