package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ninernav/domain"
	authController "ninernav/internal/auth/controller"
	authRepository "ninernav/internal/auth/repository"
	authUsecase "ninernav/internal/auth/usecase"
	gameController "ninernav/internal/game/controller"
	gameRepository "ninernav/internal/game/repository"
	gameUsecase "ninernav/internal/game/usecase"
	"ninernav/internal/service/config"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/metrics"
	"ninernav/internal/service/middleware"
	"ninernav/internal/service/password"
	"ninernav/internal/service/router"
	"ninernav/internal/service/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialize loggers: %v", err)
	}
	defer func() {
		if err := logger.SyncLoggers(); err != nil {
			log.Printf("Failed to sync loggers: %v", err)
		}
	}()

	db := middleware.DbConnect(cfg.DB)

	var store domain.SessionStore
	if redisClient := middleware.InitRedis(cfg.Redis); redisClient != nil {
		store = session.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	} else {
		log.Println("REDIS_ENDPOINT not set, keeping sessions in memory")
		store = session.NewMemorySessionStore()
	}
	sessionService := session.NewSessionService(store)

	jwtToken, err := middleware.NewJwtToken(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to create JWT token: %v", err)
	}

	m := metrics.New()

	authRepository := authRepository.NewAuthRepository(db)
	authUseCase := authUsecase.NewAuthUsecase(authRepository, sessionService, password.NewArgon2idHasher(password.DefaultParams), m)
	authHandler := authController.NewAuthHandler(authUseCase, jwtToken, cfg.SessionTTL)

	gameRepository := gameRepository.NewGameRepository(db)
	catalog := gameUsecase.NewMapCatalog(gameRepository, uint64(uuid.New().ID()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = catalog.Init(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load maps: %v", err)
	}
	gameUseCase := gameUsecase.NewGameUsecase(gameRepository, sessionService, catalog, m)
	gameHandler := gameController.NewGameHandler(gameUseCase)

	mainRouter := router.SetUpRoutes(authHandler, gameHandler, m.Handler())
	mainRouter.Use(middleware.RequestIDMiddleware)
	mainRouter.Use(middleware.RateLimitMiddleware)
	mainRouter.Use(middleware.SessionMiddleware(jwtToken, cfg.SessionTTL))
	http.Handle("/", middleware.EnableCORS(cfg.FrontendURL)(mainRouter))
	fmt.Printf("Starting HTTP server on adress %s\n", cfg.BackendURL)
	if err := http.ListenAndServe(cfg.BackendURL, nil); err != nil {
		fmt.Printf("Error on starting server: %s", err)
	}
}
