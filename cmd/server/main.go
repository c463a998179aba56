package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/gigflow/internal/alerts"
	"github.com/sudo-init-do/gigflow/internal/auth"
	"github.com/sudo-init-do/gigflow/internal/bids"
	"github.com/sudo-init-do/gigflow/internal/config"
	"github.com/sudo-init-do/gigflow/internal/db"
	"github.com/sudo-init-do/gigflow/internal/gigs"
	"github.com/sudo-init-do/gigflow/internal/hire"
	mware "github.com/sudo-init-do/gigflow/internal/middleware"
	"github.com/sudo-init-do/gigflow/internal/realtime"
	"github.com/sudo-init-do/gigflow/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	var entityStore store.EntityStore
	switch cfg.StoreDriver {
	case "memory":
		log.Println("using in-memory store (data is not persisted)")
		entityStore = store.NewMemoryStore()
	default:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		log.Println("connected to Postgres")
		entityStore = store.NewPostgresStore(pool)
	}

	if cfg.EmailAlerts {
		alerts.Init(cfg.RedisAddr)
		defer alerts.Close()
	}

	registry := realtime.NewRegistry()
	bus := realtime.NewBus(registry)
	wsHandler := realtime.NewHandler(registry)

	coordinator := hire.NewCoordinator(entityStore, bus)
	go hire.NewReconciler(entityStore, cfg.ReconcileInterval).Run(ctx)

	authHandler := auth.NewHandler(entityStore, []byte(cfg.JWTSecret), cfg.EmailAlerts)
	gigHandler := gigs.NewHandler(entityStore)
	bidHandler := bids.NewHandler(entityStore, coordinator, cfg.EmailAlerts)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "gigflow"})
	})

	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	// Public browsing
	e.GET("/gigs", gigHandler.List)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWT([]byte(cfg.JWTSecret)))

	api.GET("/auth/me", authHandler.Me)

	api.GET("/gigs/me", gigHandler.Mine)
	api.GET("/gigs/:id", gigHandler.Get)
	api.POST("/gigs", gigHandler.Create)

	api.POST("/bids", bidHandler.Submit)
	api.GET("/bids/me", bidHandler.Mine)
	api.GET("/gigs/:id/bids", bidHandler.ForGig)
	api.POST("/bids/:id/hire", bidHandler.Hire)

	api.GET("/ws", wsHandler.Serve)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
