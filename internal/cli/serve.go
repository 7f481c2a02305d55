package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/treasure-hunt/backend/internal/assets"
	"github.com/treasure-hunt/backend/internal/auth"
	"github.com/treasure-hunt/backend/internal/catalog"
	"github.com/treasure-hunt/backend/internal/clock"
	"github.com/treasure-hunt/backend/internal/config"
	"github.com/treasure-hunt/backend/internal/database"
	"github.com/treasure-hunt/backend/internal/game"
	"github.com/treasure-hunt/backend/internal/generator"
	"github.com/treasure-hunt/backend/internal/leaderboard"
	"github.com/treasure-hunt/backend/internal/logger"
	"github.com/treasure-hunt/backend/internal/progress"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the treasure hunt API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// progressStoreAdapter narrows the concrete progress store to the interface
// the game service consumes.
type progressStoreAdapter struct {
	*progress.Store
}

func (a progressStoreAdapter) Begin(ctx context.Context, userID string) (game.ProgressTx, error) {
	return a.Store.Begin(ctx, userID)
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, leaderboard cache disabled")
			redisClient = nil
		}
	}

	// Stores and services.
	catalogStore := catalog.NewStore(db)
	progressStore := progress.NewStore(db)
	gameService := game.NewService(catalogStore, progressStoreAdapter{progressStore}, clock.System())

	leaderboardStore := leaderboard.NewStore(db)
	leaderboardCache := leaderboard.NewCache(redisClient, leaderboardStore, cfg.LeaderboardTTL())
	gameService.OnCompletion(func(ctx context.Context, day int) {
		leaderboardCache.Invalidate(ctx, day)
	})

	drafter := generator.New(cfg.AnthropicModel, cfg.MockGenerator)
	assetStore := assets.NewDiskStore(cfg.AssetDir, cfg.AssetBaseURL)

	// Handlers.
	gameHandler := game.NewHandler(gameService)
	catalogHandler := catalog.NewHandler(catalogStore, drafter)
	leaderboardHandler := leaderboard.NewHandler(leaderboardCache)
	authHandler := auth.NewHandler(db, cfg.AdminJWTSecret)
	assetHandler := assets.NewHandler(assetStore)
	mw := auth.NewMiddleware(cfg.IdentitySecret, cfg.AdminJWTSecret)

	// Router.
	r := mux.NewRouter()
	r.Use(auth.RequestLogging)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.PathPrefix("/assets/").Handler(
		http.StripPrefix("/assets/", http.FileServer(http.Dir(assetStore.Dir()))),
	).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/admin/login", authHandler.Login).Methods("POST")

	player := api.PathPrefix("").Subrouter()
	player.Use(mw.RequireUser)
	player.HandleFunc("/question", gameHandler.GetQuestion).Methods("GET")
	player.HandleFunc("/progress", gameHandler.GetProgress).Methods("GET")
	player.HandleFunc("/submit", gameHandler.Submit).Methods("POST")
	player.HandleFunc("/tutorial/complete", gameHandler.CompleteTutorial).Methods("POST")
	player.HandleFunc("/leaderboard/{day}", leaderboardHandler.GetLeaderboard).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mw.RequireAdmin)
	admin.HandleFunc("/days", catalogHandler.ListQuestions).Methods("GET")
	admin.HandleFunc("/days", catalogHandler.UpsertQuestion).Methods("POST")
	admin.HandleFunc("/days/swap", catalogHandler.SwapQuestions).Methods("POST")
	admin.HandleFunc("/days/draft", catalogHandler.DraftQuestion).Methods("POST")
	admin.HandleFunc("/days/{day}", catalogHandler.GetQuestion).Methods("GET")
	admin.HandleFunc("/days/{day}", catalogHandler.DeleteQuestion).Methods("DELETE")
	admin.HandleFunc("/days/{day}/image", assetHandler.UploadImage).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
