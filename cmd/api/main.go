package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/vaultpass/passforge-go/internal/advisor"
	"github.com/vaultpass/passforge-go/internal/config"
	"github.com/vaultpass/passforge-go/internal/crypto"
	"github.com/vaultpass/passforge-go/internal/handler"
	"github.com/vaultpass/passforge-go/internal/middleware"
	"github.com/vaultpass/passforge-go/internal/repository"
	"github.com/vaultpass/passforge-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var adv advisor.Advisor
	if cfg.AdvisorEnabled() {
		adv = advisor.NewHTTPAdvisor(cfg.AdvisorURL, cfg.AdvisorAPIKey, cfg.AdvisorModel, cfg.AdvisorTimeout)
	} else {
		slog.Warn("ADVISOR_URL not set, separator suggestions disabled")
	}
	gateway := advisor.NewGateway(adv, cfg.AdvisorTimeout, slog.Default())

	// History is recorded only when the database is available.
	var history *repository.HistoryRepository
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, account routes disabled", "error", err)
	} else {
		defer db.Close()
		if err := repository.Migrate(ctx, db); err != nil {
			slog.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		history = repository.NewHistoryRepository(db)
	}

	var recorder service.HistoryRecorder
	if history != nil {
		recorder = history
	}
	genService := service.NewGeneratorService(crypto.NewSecureSource(), cfg.MaxPasswordLength, recorder)
	genHandler := handler.NewGeneratorHandler(genService)
	sugHandler := handler.NewSuggestionHandler(service.NewSuggestionService(gateway, recorder))

	genLimiter := middleware.NewIPRateLimiter(cfg.GenerateRate, cfg.GenerateBurst)
	sugLimiter := middleware.NewIPRateLimiter(cfg.SuggestRate, cfg.SuggestBurst)
	authLimiter := middleware.NewIPRateLimiter(5, 10)
	for _, l := range []*middleware.IPRateLimiter{genLimiter, sugLimiter, authLimiter} {
		go l.RunCleanup(ctx, 10*time.Minute)
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWTSecret))
		r.With(middleware.RateLimit(genLimiter)).Post("/api/v1/generate", genHandler.HandleGenerate)
		r.With(middleware.RateLimit(sugLimiter)).Post("/api/v1/suggest-separators", sugHandler.HandleSuggest)
	})

	if db != nil {
		hasher := crypto.NewArgon2Hasher(crypto.DefaultHashParams())
		accountService := service.NewAccountService(repository.NewAccountRepository(db), hasher, cfg.JWTSecret, cfg.JWTExpiry)
		accountHandler := handler.NewAccountHandler(accountService)
		historyHandler := handler.NewHistoryHandler(service.NewHistoryService(history))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(authLimiter))
			r.Post("/api/v1/auth/register", accountHandler.HandleRegister)
			r.Post("/api/v1/auth/login", accountHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/api/v1/auth/me", accountHandler.HandleMe)
			r.Get("/api/v1/history", historyHandler.HandleList)
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "advisor", gateway.Enabled(), "database", db != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
