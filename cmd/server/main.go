package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizstorm/internal/cache"
	"quizstorm/internal/config"
	"quizstorm/internal/game"
	"quizstorm/internal/logger"
	"quizstorm/internal/repository"
	"quizstorm/internal/service"
	"quizstorm/internal/transport/rest"
	"quizstorm/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	// Repositories
	roomRepo := repository.NewRoomRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	quizRepo := repository.NewQuizRepo(db)
	resultRepo := repository.NewResultRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := roomRepo.EnsureIndexes(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure room indexes")
	}

	// Caches
	roomCache := cache.NewRoomCache(rdb)
	lbCache := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	roomSvc := service.NewRoomService(roomRepo, quizRepo, roomCache, lbCache)
	contentSvc := service.NewContentService(questionRepo, quizRepo, cfg.Game.QuestionSampleSize)
	liveSvc := service.NewLiveService(roomCache, lbCache)
	resultSvc := service.NewResultService(resultRepo, userRepo)

	// Live game engine, fanning out through the websocket hub
	hub := ws.NewHub(log)

	engine := game.NewEngine(game.Deps{
		Rooms:       roomRepo,
		Content:     contentSvc,
		Results:     resultRepo,
		Stats:       userRepo,
		Users:       userRepo,
		Live:        liveSvc,
		Broadcaster: hub,
	}, game.Options{
		Timing: game.Timing{
			TickInterval:      cfg.Game.TickInterval,
			FeedbackDelay:     cfg.Game.FeedbackDelay,
			IntermissionDelay: cfg.Game.IntermissionDelay,
			GraceDelay:        cfg.Game.GraceDelay,
			PersistTimeout:    cfg.Game.PersistTimeout,
		},
		Logger: log,
	})

	wsHandler := ws.NewHandler(hub, engine, authSvc, ws.Limits{
		MessagesPerSecond: cfg.WS.MessagesPerSecond,
		Burst:             cfg.WS.Burst,
	}, log)

	router := rest.NewRouter(&rest.Container{
		AuthService:   authSvc,
		RoomService:   roomSvc,
		ResultService: resultSvc,
		WSHandler:     wsHandler,
		ActiveRooms:   engine.ActiveRooms,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := engine.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("engine shutdown incomplete")
	}

	log.Info().Msg("server exited")
}
