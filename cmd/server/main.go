package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/config"
	"github.com/brightnest/leads-api/internal/coverage"
	"github.com/brightnest/leads-api/internal/crm"
	"github.com/brightnest/leads-api/internal/database"
	"github.com/brightnest/leads-api/internal/handlers"
	"github.com/brightnest/leads-api/internal/middleware"
	"github.com/brightnest/leads-api/internal/notify"
	"github.com/brightnest/leads-api/internal/pricing"
	"github.com/brightnest/leads-api/internal/repository"
	"github.com/brightnest/leads-api/internal/service"
	"github.com/brightnest/leads-api/internal/validation"
	"github.com/brightnest/leads-api/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	log.Info("starting leads api server",
		zap.String("port", cfg.Server.Port),
		zap.String("host", cfg.Server.Host),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("version", version),
	)

	ctx := context.Background()

	table, err := pricing.LoadTable(cfg.Pricing.File)
	if err != nil {
		log.Fatal("failed to load pricing table", zap.Error(err))
	}
	engine := pricing.NewEngine(table)

	checker := coverage.NewChecker()
	if len(cfg.Coverage.Core)+len(cfg.Coverage.Outer) > 0 {
		log.Info("loading coverage data...")
		if err := checker.Load(ctx, cfg.Coverage.Core, cfg.Coverage.Outer); err != nil {
			log.Fatal("failed to load coverage data", zap.Error(err))
		}
		stats := checker.GetStats()
		log.Info("coverage data loaded successfully",
			zap.Int("sources", stats.Sources),
			zap.Int("core_districts", stats.CoreDistricts),
			zap.Int("outer_districts", stats.OuterDistricts),
		)
	} else {
		log.Warn("no coverage lists configured, every postcode is treated as unserved")
	}

	validator, err := validation.New()
	if err != nil {
		log.Fatal("failed to compile request schemas", zap.Error(err))
	}

	quoteRepo, bookingRepo, closeDB, err := newRepositories(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to initialise storage", zap.Error(err))
	}
	defer closeDB()

	limiter, closeRedis := newRateLimiter(ctx, cfg.Redis, log)
	defer closeRedis()

	mailer, err := newMailer(ctx, cfg.Email, log)
	if err != nil {
		log.Fatal("failed to initialise email", zap.Error(err))
	}
	texter, err := newTexter(ctx, cfg.SMS)
	if err != nil {
		log.Fatal("failed to initialise sms", zap.Error(err))
	}
	notifier := notify.NewNotifier(mailer, texter, notify.NotifierConfig{
		OfficeTo:    cfg.Email.OfficeTo,
		OfficePhone: cfg.SMS.OfficePhone,
	}, log.Named("notify"))

	// nil interfaces switch CRM forwarding off
	var quoteForwarder service.QuoteForwarder
	var bookingForwarder service.BookingForwarder
	if cfg.CRM.Enabled {
		forwarder := crm.NewForwarder(crm.NewClient(crm.Config{
			BaseURL:         cfg.CRM.BaseURL,
			APIToken:        cfg.CRM.APIToken,
			APIVersion:      cfg.CRM.APIVersion,
			LocationID:      cfg.CRM.LocationID,
			PipelineID:      cfg.CRM.PipelineID,
			PipelineStageID: cfg.CRM.PipelineStageID,
		}), log.Named("crm"))
		quoteForwarder, bookingForwarder = forwarder, forwarder
	}

	catalogService := service.NewCatalogService(repository.NewInMemoryServiceRepository(), table)
	quoteService := service.NewQuoteService(engine, quoteRepo, validator, service.QuoteServiceConfig{
		Coverage:      checker,
		Notifier:      notifier,
		Forwarder:     quoteForwarder,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		Logger:        log,
	})
	bookingService := service.NewBookingService(bookingRepo, validator, notifier, bookingForwarder, log)

	healthHandler := handlers.NewHealthHandler(version, log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)
	quoteHandler := handlers.NewQuoteHandler(quoteService, log)
	bookingHandler := handlers.NewBookingHandler(bookingService, log)
	coverageHandler := handlers.NewCoverageHandler(checker, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/services", catalogHandler.ListServices)
		r.Get("/services/{slug}", catalogHandler.GetService)

		r.Get("/coverage/stats", coverageHandler.GetStats)
		r.Get("/coverage/{postcode}", coverageHandler.CheckPostcode)

		r.Post("/quotes/preview", quoteHandler.PreviewQuote)

		// Form submissions
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/quotes", quoteHandler.CreateQuote)
			r.Post("/bookings", bookingHandler.CreateBooking)
		})

		// Office dashboard
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))
			r.Get("/quotes", quoteHandler.ListQuotes)
			r.Get("/quotes/{id}", quoteHandler.GetQuote)
			r.Get("/bookings/{id}", bookingHandler.GetBooking)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("server stopped gracefully")
}

func newRepositories(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (repository.QuoteRepository, repository.BookingRepository, func(), error) {
	if cfg.Driver != "postgres" {
		log.Info("using in-memory storage")
		return repository.NewInMemoryQuoteRepository(), repository.NewInMemoryBookingRepository(), func() {}, nil
	}

	pg, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, nil, err
	}

	log.Info("connected to postgres", zap.String("host", cfg.Postgres.Host), zap.String("database", cfg.Postgres.Database))
	return repository.NewPostgresQuoteRepository(pg.DB),
		repository.NewPostgresBookingRepository(pg.DB),
		closeLogged(pg, "postgres", log),
		nil
}

// newRateLimiter returns a disabled limiter when Redis is off or unreachable
func newRateLimiter(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*middleware.RateLimiter, func()) {
	if !cfg.Enabled {
		return middleware.NewRateLimiter(nil, 0, 0, log), func() {}
	}

	rdb := database.NewRedis(cfg)
	if err := rdb.Ping(ctx); err != nil {
		log.Warn("rate limiting disabled", zap.Error(err))
		_ = rdb.Close()
		return middleware.NewRateLimiter(nil, 0, 0, log), func() {}
	}

	log.Info("rate limiting enabled",
		zap.Int("requests", cfg.RateLimit.Requests),
		zap.Duration("window", cfg.RateLimit.Window),
	)
	return middleware.NewRateLimiter(rdb.Client, cfg.RateLimit.Requests, cfg.RateLimit.Window, log), closeLogged(rdb, "redis", log)
}

func newMailer(ctx context.Context, cfg config.EmailConfig, log *zap.Logger) (notify.Mailer, error) {
	var primary notify.Mailer
	switch cfg.Provider {
	case "resend":
		primary = notify.NewResendMailer(cfg.Resend.APIKey, cfg.From, cfg.Resend.BaseURL)
	case "ses":
		ses, err := notify.NewSESMailer(ctx, cfg.SES.Region, cfg.From)
		if err != nil {
			return nil, err
		}
		primary = ses
	default:
		primary = notify.NopMailer{}
	}

	if !cfg.SMTP.Enabled {
		return primary, nil
	}
	smtp := notify.NewSMTPMailer(cfg.SMTP, cfg.From)
	if cfg.Provider == "none" {
		return smtp, nil
	}
	return notify.NewFallbackMailer(primary, smtp, log.Named("mailer")), nil
}

func newTexter(ctx context.Context, cfg config.SMSConfig) (notify.Texter, error) {
	if !cfg.Enabled {
		return notify.NopTexter{}, nil
	}
	return notify.NewSNSTexter(ctx, cfg.Region, cfg.SenderID)
}

func closeLogged(c io.Closer, name string, log *zap.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Error("failed to close "+name, zap.Error(err))
		}
	}
}
