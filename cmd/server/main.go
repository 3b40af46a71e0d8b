package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/oldcrow/westeros/internal/auth"
	"github.com/oldcrow/westeros/internal/config"
	"github.com/oldcrow/westeros/internal/handler"
	"github.com/oldcrow/westeros/internal/logger"
	"github.com/oldcrow/westeros/internal/middleware"
	"github.com/oldcrow/westeros/internal/repository/postgres"
	redisrepo "github.com/oldcrow/westeros/internal/repository/redis"
	"github.com/oldcrow/westeros/internal/service"
)

func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Enable Redis keyspace notifications for deadline expiry events.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (deadline expiry may not work)")
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	snapRepo := postgres.NewSnapshotRepo(db)
	messageRepo := postgres.NewMessageRepo(db)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuth(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	gameSvc := service.NewGameService(gameRepo, snapRepo, redisClient, cfg.PlanningTimeout(), wsHub)
	planSvc := service.NewPlanService(gameRepo, redisClient)
	roundSvc := service.NewRoundService(gameRepo, snapRepo, redisClient, wsHub)

	// Timer listener (auto-reveal planning on deadline expiry)
	timerListener := service.NewTimerListener(redisClient.Underlying(), roundSvc, gameRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(googleOAuth, jwtMgr, userRepo)
	userHandler := handler.NewUserHandler(userRepo)
	gameHandler := handler.NewGameHandler(gameSvc, planSvc, wsHub)
	planHandler := handler.NewPlanHandler(planSvc, roundSvc, wsHub)
	actionHandler := handler.NewActionHandler(roundSvc)
	snapshotHandler := handler.NewSnapshotHandler(snapRepo)
	messageHandler := handler.NewMessageHandler(messageRepo, redisClient, wsHub)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /users/me", userHandler.GetMe)
	api.HandleFunc("PATCH /users/me", userHandler.UpdateMe)
	api.HandleFunc("GET /users/{id}", userHandler.GetUser)
	api.HandleFunc("POST /games", gameHandler.CreateGame)
	api.HandleFunc("GET /games", gameHandler.ListGames)
	api.HandleFunc("GET /games/{id}", gameHandler.GetGame)
	api.HandleFunc("POST /games/{id}/join", gameHandler.JoinGame)
	api.HandleFunc("POST /games/{id}/start", gameHandler.StartGame)
	api.HandleFunc("DELETE /games/{id}", gameHandler.DeleteGame)
	api.HandleFunc("POST /games/{id}/stop", gameHandler.StopGame)
	api.HandleFunc("POST /games/{id}/plans", planHandler.SubmitPlans)
	api.HandleFunc("POST /games/{id}/plans/ready", planHandler.MarkReady)
	api.HandleFunc("DELETE /games/{id}/plans/ready", planHandler.UnmarkReady)
	api.HandleFunc("POST /games/{id}/actions", actionHandler.ApplyAction)
	api.HandleFunc("GET /games/{id}/state", actionHandler.GetState)
	api.HandleFunc("GET /games/{id}/snapshots", snapshotHandler.ListSnapshots)
	api.HandleFunc("GET /games/{id}/snapshots/latest", snapshotHandler.LatestSnapshot)
	api.HandleFunc("GET /games/{id}/messages", messageHandler.ListMessages)
	api.HandleFunc("POST /games/{id}/messages", messageHandler.SendMessage)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Recover active games (rehydrate Redis from Postgres after restart)
	if err := roundSvc.RecoverActiveGames(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to recover active games (non-fatal)")
	}

	// Start timer listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go timerListener.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
