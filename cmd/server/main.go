package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-sync/internal/config"
	"github.com/iliyamo/health-sync/internal/database"
	"github.com/iliyamo/health-sync/internal/handler"
	"github.com/iliyamo/health-sync/internal/middleware"
	"github.com/iliyamo/health-sync/internal/queue"
	"github.com/iliyamo/health-sync/internal/repository"
	"github.com/iliyamo/health-sync/internal/router"
	"github.com/iliyamo/health-sync/internal/sync"
	"github.com/iliyamo/health-sync/internal/withings"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; subscription cache and webhook rate limiting disabled")
	}

	tokenRepo := repository.NewTokenRepo(db)
	client := withings.NewClient(cfg.WithingsClientID, cfg.WithingsClientSecret, cfg.BaseURL)
	tokens := withings.NewTokenManager(tokenRepo, client)

	dispatcher := &sync.Dispatcher{
		Tokens:   tokens,
		Client:   client,
		Body:     repository.NewBodyRepo(db),
		BP:       repository.NewBloodPressureRepo(db),
		Activity: repository.NewActivityRepo(db),
		Sleep:    repository.NewSleepRepo(db),
	}

	// Background consumer executing queued sync jobs; reconnects on its own.
	go func() {
		if err := queue.StartSyncConsumer(dispatcher); err != nil {
			log.Printf("sync consumer stopped: %v", err)
		}
	}()

	h := handler.NewWithingsHandler(cfg, client, tokens, dispatcher, tokenRepo, rdb)
	webhookLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e, h, webhookLimiter, cfg.APIToken)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
