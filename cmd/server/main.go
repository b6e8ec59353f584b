package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"councilboard/internal/config"
	"councilboard/internal/db"
	"councilboard/internal/identity"
	"councilboard/internal/jobs"
	"councilboard/internal/middleware"
	"councilboard/internal/repository"
	"councilboard/internal/router"
	"councilboard/internal/services"
	"councilboard/internal/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg)

	if cfg.IdentityPepper == "" {
		log.Warn("IDENTITY_PEPPER is empty, identities are plain SHA-256 HMACs with an empty key")
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}

	// Initialize Database
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	cache, err := utils.NewTTLCache(cfg.CacheSize, utils.SystemClock())
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}

	notifier := newNotifier(cfg)
	store := repository.NewGormStore(conn)
	hasher := identity.NewHasher(cfg.IdentityPepper)
	commentLimiter := services.NewRateLimiter(cache, utils.SystemClock(), cfg.CommentRateLimit, cfg.CommentRateWindow)
	issueLimiter := services.NewRateLimiter(cache, utils.SystemClock(), cfg.IssueRateLimit, cfg.IssueRateWindow)
	feedback := services.NewFeedbackService(store, hasher, services.NewVoteLedger(store), commentLimiter, notifier)

	scheduler, err := jobs.NewScheduler(services.NewReconciler(conn), cache, cfg.ReconcileSchedule)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()

	// Initialize Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())

	router.RegisterRoutes(r, router.Deps{
		Issues:            services.NewIssueService(conn, hasher, issueLimiter, notifier),
		Announcements:     services.NewAnnouncementService(conn),
		Council:           services.NewCouncilService(conn),
		Feedback:          feedback,
		SessionSecret:     cfg.SessionSecret,
		AdminPasswordHash: cfg.AdminPasswordHash,
		SecureCookies:     cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Councilboard server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	scheduler.Stop()

	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}
}

func setupLogging(cfg *config.Config) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func newNotifier(cfg *config.Config) services.Notifier {
	if cfg.TelegramBotToken == "" {
		return services.NopNotifier{}
	}
	n, err := services.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.WithError(err).Warn("Telegram notifier disabled")
		return services.NopNotifier{}
	}
	log.Info("Telegram notifications enabled")
	return n
}
