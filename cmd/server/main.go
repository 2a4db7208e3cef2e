package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lighter/backend/internal/config"
	"github.com/lighter/backend/internal/handler"
	"github.com/lighter/backend/internal/logging"
	"github.com/lighter/backend/internal/repository"
	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
	"github.com/lighter/backend/pkg/resend"
	pkgstripe "github.com/lighter/backend/pkg/stripe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	vitalsRepo := repository.NewPgVitalsRepository(pool)
	experimentRepo := repository.NewPgExperimentRepository(pool)

	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)

	// メール通知（RESEND_API_KEY 未設定時は無効化）
	var notifier service.Notifier
	if cfg.ResendAPIKey != "" {
		mailer := resend.NewClient(cfg.ResendAPIKey, cfg.EmailFrom)
		notifier = service.NewNotifyService(mailer, cfg.AdminEmails)
	} else {
		slog.Warn("RESEND_API_KEY not set, email notifications disabled")
	}

	admins := service.NewAdminDirectory(userRepo, cfg.AdminEmails)
	authService := service.NewAuthService(userRepo, notifier, sessionSecret, cfg.FrontendURL)
	messageService := service.NewMessageService(messageRepo, userRepo, admins, notifier)
	vitalsService := service.NewVitalsService(vitalsRepo)
	experimentService := service.NewExperimentService(experimentRepo)

	stripeClient := pkgstripe.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	billingService := service.NewBillingService(stripeClient, userRepo, cfg.StripePriceID, cfg.FrontendURL)

	h := handler.New(userRepo, cfg.FrontendURL)
	authHandler := handler.NewAuthHandler(authService, sessionSecret, cfg.IsProduction())
	meHandler := handler.NewMeHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService)
	adminMessageHandler := handler.NewAdminMessageHandler(messageService)
	vitalsHandler := handler.NewVitalsHandler(vitalsService)
	chartHandler := handler.NewChartHandler(vitalsService)
	experimentHandler := handler.NewExperimentHandler(experimentService)
	billingHandler := handler.NewBillingHandler(billingService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/password-reset", authHandler.RequestPasswordReset)
	mux.HandleFunc("POST /api/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// 実験カタログは認証不要
	mux.HandleFunc("GET /api/experiments", experimentHandler.Catalog)

	// 認証必要エンドポイント
	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAuth(sessionSecret)(next)
		}
		return auth.DevAuth(next)
	}
	mux.Handle("GET /api/me", wrapAuth(http.HandlerFunc(meHandler.Get)))

	// Support messages
	mux.Handle("POST /api/messages", wrapAuth(http.HandlerFunc(messageHandler.Submit)))
	mux.Handle("GET /api/me/messages", wrapAuth(http.HandlerFunc(messageHandler.ListMine)))

	// Admin routes (service enforces the admin allowlist)
	mux.Handle("GET /api/admin/messages", wrapAuth(http.HandlerFunc(adminMessageHandler.List)))
	mux.Handle("POST /api/admin/messages/{id}/response", wrapAuth(http.HandlerFunc(adminMessageHandler.Respond)))

	// Daily vitals and progress charts
	mux.Handle("POST /api/vitals", wrapAuth(http.HandlerFunc(vitalsHandler.Record)))
	mux.Handle("GET /api/vitals", wrapAuth(http.HandlerFunc(vitalsHandler.List)))
	mux.Handle("DELETE /api/vitals/{id}", wrapAuth(http.HandlerFunc(vitalsHandler.Delete)))
	mux.Handle("GET /api/charts/vitals", wrapAuth(http.HandlerFunc(chartHandler.Vitals)))

	// Experiment runs
	mux.Handle("POST /api/experiments/{slug}/runs", wrapAuth(http.HandlerFunc(experimentHandler.Start)))
	mux.Handle("GET /api/me/experiments", wrapAuth(http.HandlerFunc(experimentHandler.ListRuns)))
	mux.Handle("POST /api/me/experiments/{id}/complete", wrapAuth(http.HandlerFunc(experimentHandler.Complete)))
	mux.Handle("POST /api/me/experiments/{id}/abandon", wrapAuth(http.HandlerFunc(experimentHandler.Abandon)))

	// Billing (webhook has no session auth; Stripe signs the payload)
	mux.Handle("POST /api/billing/checkout", wrapAuth(http.HandlerFunc(billingHandler.CreateCheckout)))
	mux.HandleFunc("POST /api/webhooks/stripe", billingHandler.Webhook)

	var root http.Handler = mux
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiter := handler.NewRateLimiter(repository.NewRedisRateLimitRepository(rdb), 120)
		root = limiter.Middleware(root)
	} else {
		slog.Warn("REDIS_ADDR not set, rate limiting disabled")
	}
	root = handler.RequestLogger(root)
	root = handler.SecurityHeaders(root)
	root = h.CORS(root)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
