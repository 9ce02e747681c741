package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/pulse/internal/api"
	"github.com/VitaminP8/pulse/internal/comment"
	"github.com/VitaminP8/pulse/internal/config"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/feed"
	"github.com/VitaminP8/pulse/internal/logger"
	"github.com/VitaminP8/pulse/internal/middleware"
	"github.com/VitaminP8/pulse/internal/post"
	"github.com/VitaminP8/pulse/internal/profile"
	"github.com/VitaminP8/pulse/internal/storage/memory"
	"github.com/VitaminP8/pulse/internal/storage/postgres"
	"github.com/VitaminP8/pulse/internal/trend"
	"github.com/VitaminP8/pulse/internal/user"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	storageType := flag.String("storage", config.StorageMemory, "Тип хранилища: memory или postgres")
	flag.Parse()

	cfg, err := config.Load(*storageType)
	if err != nil {
		log.Fatalf("ошибка конфигурации: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("не удалось инициализировать логгер: %v", err)
	}
	defer logger.Sync()
	lg := logger.Get()

	var (
		postStore    post.PostStorage
		commentStore comment.CommentStorage
		userStore    user.UserStorage
		edgeStore    edge.EdgeStorage
	)

	switch *storageType {
	case config.StoragePostgres:
		if err := postgres.InitDB(cfg.PostgresDSN()); err != nil {
			lg.Fatal("Не удалось подключиться к PostgreSQL", zap.Error(err))
		}
		if err := postgres.Migrate(); err != nil {
			lg.Fatal("Ошибка миграции", zap.Error(err))
		}

		lg.Info("Используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		userStore = postgres.NewUserPostgresStorage()
		edgeStore = postgres.NewEdgePostgresStorage()

	case config.StorageMemory:
		lg.Info("Используется in-memory хранилище")
		posts := memory.NewPostMemoryStorage()
		users := memory.NewUserMemoryStorage()
		postStore = posts
		userStore = users
		commentStore = memory.NewCommentMemoryStorage(posts)
		edgeStore = memory.NewEdgeMemoryStorage(users, posts)

	default:
		lg.Fatal("Неизвестный тип хранилища", zap.String("storage", *storageType))
	}

	engine := engagement.NewEngine(edgeStore, commentStore)

	handler := &api.Handler{
		Engine:          engine,
		Feed:            feed.NewAssembler(engine, postStore, userStore).WithDefaultLimit(cfg.FeedLimit),
		Profiles:        profile.NewAggregator(engine, postStore, userStore).WithPostLimit(cfg.ProfilePostLimit),
		Trends:          trend.NewExtractor(postStore, commentStore),
		Posts:           post.NewService(engine, postStore, commentStore, userStore),
		Comments:        comment.NewService(commentStore, userStore),
		Users:           user.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL),
		Metrics:         middleware.NewMetrics("pulse"),
		Log:             lg,
		TrendSampleSize: cfg.TrendSampleSize,
		TrendTopK:       cfg.TrendTopK,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(handler, api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Breaker:   middleware.DefaultBreakerConfig("api"),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// ListenAndServe блокирует до Shutdown, поэтому запускаем в горутине
	go func() {
		lg.Info("Сервер запущен", zap.String("port", cfg.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Ошибка сервера", zap.Error(err))
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("Завершение...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		lg.Error("Ошибка при завершении сервера", zap.Error(err))
	}

	if cfg.IsPersistent() {
		if err := postgres.CloseDB(); err != nil {
			lg.Error("Ошибка при закрытии БД", zap.Error(err))
		}
	}

	lg.Info("Сервер остановлен корректно")
}
