package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"conventionlist/config"
	_ "conventionlist/docs"
	"conventionlist/internal/adapters/auth"
	"conventionlist/internal/adapters/cache"
	"conventionlist/internal/adapters/email"
	delivery "conventionlist/internal/delivery/http"
	"conventionlist/internal/delivery/http/controllers"
	"conventionlist/internal/delivery/http/middleware"
	"conventionlist/internal/repository/postgres"
	"conventionlist/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title ConventionList API
// @version 1.0
// @description Public convention catalog with organizer management and role applications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	version, dirty, err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath)
	if err != nil {
		logger.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("database open failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("database ping failed", "err", err)
		os.Exit(1)
	}

	// The catalog degrades gracefully without Redis: every search goes to
	// the database.
	var catalogCache = cache.NewNoopCache()
	if redisClient, err := cache.NewRedisClient(cfg.RedisURL); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "err", err)
	} else {
		defer redisClient.Close()
		catalogCache = cache.NewRedisCache(redisClient)
	}

	mailer, err := email.NewMailer(logger, email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("mailer init failed", "err", err)
		os.Exit(1)
	}

	conventionRepo := postgres.NewConventionRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	hotelRepo := postgres.NewHotelRepository(db)
	seriesRepo := postgres.NewSeriesRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	txRunner := postgres.NewConventionTxRunner(db)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(12)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	conventionService := services.NewConventionService(conventionRepo, seriesRepo, txRunner, logger, serviceTimeout)
	catalogService := services.NewCatalogService(conventionRepo, venueRepo, hotelRepo, catalogCache, logger, serviceTimeout)
	seriesService := services.NewSeriesService(seriesRepo, serviceTimeout)
	userService := services.NewUserService(userRepo, roleRepo, hasher, jwtManager, serviceTimeout)
	applicationService := services.NewApplicationService(applicationRepo, userRepo, roleRepo, emailService, logger, serviceTimeout)

	mux := delivery.NewRouter(
		jwtManager,
		controllers.NewAuthController(logger, userService),
		controllers.NewCatalogController(logger, catalogService),
		controllers.NewConventionController(logger, conventionService),
		controllers.NewSeriesController(logger, seriesService),
		controllers.NewApplicationController(logger, applicationService),
	)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
