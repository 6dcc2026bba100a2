package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/api"
	"github.com/harikishants/MarketingMailPro/internal/config"
	"github.com/harikishants/MarketingMailPro/internal/mailing"
	"github.com/harikishants/MarketingMailPro/internal/pkg/distlock"
	"github.com/harikishants/MarketingMailPro/internal/pkg/logger"
	"github.com/harikishants/MarketingMailPro/internal/repository/postgres"
	"github.com/harikishants/MarketingMailPro/internal/service/analytics"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
	"github.com/harikishants/MarketingMailPro/internal/service/contact"
	"github.com/harikishants/MarketingMailPro/internal/service/settings"
	"github.com/harikishants/MarketingMailPro/internal/service/template"
	"github.com/harikishants/MarketingMailPro/internal/tracking"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}
	if cfg.Database.URL == "" {
		log.Fatal("No database configured (set database.url or DATABASE_URL)")
	}
	if cfg.Tracking.Secret == "" {
		log.Println("Warning: tracking.secret not set, using insecure dev secret")
		cfg.Tracking.Secret = "mmp-tracking-secret-dev"
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatalf("Database ping failed: %v", err)
	}
	logger.Info("database connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional: without it the send lease falls back to a
	// Postgres advisory lock.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn("redis connection failed, falling back to pg advisory locks", "addr", cfg.Redis.Addr, "error", err)
			redisClient.Close()
			redisClient = nil
		} else {
			logger.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	} else {
		logger.Info("redis not configured, using pg advisory locks for send leases")
	}

	// Repositories
	campaignRepo := postgres.NewCampaignRepo(db)
	contactRepo := postgres.NewContactRepo(db)
	templateRepo := postgres.NewTemplateRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)
	eventRepo := postgres.NewEventRepo(db)
	userRepo := postgres.NewUserRepo(db)

	// Mailing pipeline
	links := tracking.NewLinkBuilder(cfg.Tracking.BaseURL, cfg.Tracking.Secret)
	recorder := mailing.NewEventRecorder(eventRepo)
	transport := mailing.NewSMTPTransport(cfg.Dispatch.VerifyTimeout())
	lockFactory := func(key string) distlock.DistLock {
		return distlock.NewLock(redisClient, db, key, cfg.Dispatch.LeaseTTL())
	}
	dispatcher := mailing.NewDispatcher(
		campaignRepo, settingsRepo, contactRepo,
		recorder, mailing.NewComposer(links),
		transport, links, lockFactory, cfg.Dispatch.Workers,
	)

	// Services
	templateSvc := template.NewService(templateRepo)
	campaignSvc := campaign.NewService(campaignRepo, templateRepo)
	contactSvc := contact.NewService(contactRepo, recorder, campaignRepo)
	settingsSvc := settings.NewService(settingsRepo, transport)
	analyticsSvc := analytics.NewService(eventRepo)

	handlers := api.NewHandlers(campaignSvc, contactSvc, templateSvc, settingsSvc, analyticsSvc, dispatcher)
	trackHandler := tracking.NewHandler(cfg.Tracking.Secret, recorder, contactSvc)
	server := api.NewServer(cfg.Server, handlers, userRepo, trackHandler)

	// Scheduled campaigns are picked up by a background ticker; the
	// dispatcher's lease plus status CAS keeps concurrent instances safe.
	scheduler := mailing.NewScheduler(campaignRepo, dispatcher, time.Minute)
	go scheduler.Run(ctx)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		logger.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()
	logger.Info("server stopped")
}
