package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/cdn"
	"github.com/RON-000000/photocomp/internal/config"
	"github.com/RON-000000/photocomp/internal/db"
	"github.com/RON-000000/photocomp/internal/handler"
	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/repository"
	"github.com/RON-000000/photocomp/internal/router"
	"github.com/RON-000000/photocomp/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "photocomp-api")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Bootstrap(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()
	cache.SetMetricsHooks(handler.Metrics.CacheHits.Inc, handler.Metrics.CacheMisses.Inc)

	images := cdn.NewClient(cfg.CDNBaseURL, cfg.CDNAPIKey, cfg.CDNFolder)

	compRepo := repository.NewCompetitionRepo(pool)
	subRepo := repository.NewSubmissionRepo(pool)
	ratingRepo := repository.NewRatingRepo(pool)
	userRepo := repository.NewUserRepo(pool)

	lifecycle := service.NewLifecycleService(compRepo)
	scoring := service.NewScoringService()
	compSvc := service.NewCompetitionService(compRepo, subRepo, userRepo, lifecycle, scoring, cache, images)
	subSvc := service.NewSubmissionService(subRepo, compRepo, lifecycle, cache, images)
	ratingSvc := service.NewRatingService(ratingRepo, subRepo, compRepo, cache)
	userSvc := service.NewUserService(userRepo, subRepo)
	uploadSvc := service.NewUploadService(images, int(cfg.MaxUploadMB), int(cfg.MaxImageMB), cfg.MaxImageEdge)

	h := &router.Handlers{
		Competition: handler.NewCompetitionHandler(compSvc),
		Submission:  handler.NewSubmissionHandler(subSvc),
		Rating:      handler.NewRatingHandler(ratingSvc),
		User:        handler.NewUserHandler(userSvc),
		Upload:      handler.NewUploadHandler(uploadSvc),
		Stats:       handler.NewStatsHandler(userSvc),
		Health:      handler.NewHealthHandler(pool, cache.Client()),
	}

	// A shared Redis keeps limits consistent across replicas; without it
	// each process counts on its own.
	limiters := middleware.NewMemoryLimiters()
	if rdb := cache.Client(); rdb != nil {
		limiters = middleware.NewRedisLimiters(rdb)
	}

	app := fiber.New(fiber.Config{
		AppName:      "PhotoComp API",
		ServerHeader: "PhotoComp",
		BodyLimit:    int(cfg.MaxUploadMB)<<20 + 1<<20,
	})

	router.Setup(app, h, router.Config{
		CORSOrigins: cfg.CORSOrigins,
		Auth:        middleware.Auth(cfg.JWTSecret, userRepo),
		Limiters:    limiters,
	})

	go func() {
		log.Printf("photocomp backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
