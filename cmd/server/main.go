package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/cache"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/config"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/repository"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/service"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/transport/rest"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/transport/ws"
)

// @title Evaluation Builder API
// @version 1.0
// @description Question template builder with anonymous evaluation submission and reporting
// @BasePath /v1
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	if cfg.AdminPasswordHash == "" {
		log.Println("Warning: ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	templateRepo := repository.NewTemplateRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize caches
	templateCache := cache.NewTemplateCache(rdb, cfg.TemplateCacheTTL)
	statsCache := cache.NewStatsCache(rdb, cfg.StatsCacheTTL)

	// Initialize services
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret)
	templateSvc := service.NewTemplateService(templateRepo, templateCache, statsCache)
	responseSvc := service.NewResponseService(responseRepo, templateRepo, statsCache)
	statsSvc := service.NewStatsService(templateRepo, responseRepo, statsCache)
	exportSvc := service.NewExportService(templateRepo, responseRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	responseSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		TemplateService: templateSvc,
		ResponseService: responseSvc,
		StatsService:    statsSvc,
		ExportService:   exportSvc,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/public/templates/{slug}")
		log.Println("  POST /v1/public/evaluations")
		log.Println("  POST/GET /v1/templates")
		log.Println("  GET  /v1/templates/{id}/statistics")
		log.Println("  GET  /v1/templates/{id}/export")
		log.Println("  WS   /v1/ws/templates/{id}/live")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
