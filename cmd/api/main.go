package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clitter/clitter/internal/config"
	"github.com/clitter/clitter/internal/handlers"
	"github.com/clitter/clitter/internal/repository"
	"github.com/clitter/clitter/internal/services"
	"github.com/clitter/clitter/internal/storage"
	"github.com/clitter/clitter/pkg/cache"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/clitter/clitter/pkg/queue"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(os.Stdout, cfg.Log.Level)
	logger.Info("Starting clitter API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	ctx := context.Background()
	m := metrics.New()

	var profileCache services.ProfileCache
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(
			cfg.Redis.Addr(),
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			cfg.Redis.MinIdleConns,
		)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		profileCache = cache.NewProfileCache(redisClient, cfg.Cache.ProfileTTL, m)
	}

	var publisher services.EventPublisher
	if cfg.Kafka.Enabled {
		producer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	mediaStore, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialise media storage")
	}

	authorRepo := repository.NewAuthorRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	mediaRepo := repository.NewMediaRepository(db.DB)

	events := services.NewEmitter(publisher, m, logger)
	accessService := services.NewAccessService(authorRepo)
	authorService := services.NewAuthorService(db.DB, authorRepo, followRepo, profileCache, events, logger).
		WithReinvalidateDelay(cfg.Cache.ReinvalidateDelay)
	mediaService := services.NewMediaService(mediaRepo, mediaStore, cfg.Media.PublicURL, cfg.Media.MaxSize, events, logger)
	postService := services.NewPostService(db.DB, postRepo, likeRepo, mediaService, events, logger)
	likeService := services.NewLikeService(db.DB, postRepo, likeRepo, authorRepo, events, logger)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := handlers.RouterConfig{
		Logger:  logger,
		Metrics: m,
		Access:  accessService,
		Users:   handlers.NewUserHandler(authorService, m),
		Posts:   handlers.NewPostHandler(postService, likeService, m),
		Media:   handlers.NewMediaHandler(mediaService, m),
		Health: func(ctx context.Context) error {
			return db.Ping()
		},
	}
	if local, ok := mediaStore.(*storage.LocalStorage); ok {
		routerCfg.StaticRoot = local.Root()
		routerCfg.StaticURL = cfg.Media.PublicURL
	}
	router := handlers.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	dirs := []string{"configs", "static/media"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Failed to create directory %s: %v", dir, err)
		}
	}

	if _, err := os.Stat(config.DefaultPath); os.IsNotExist(err) {
		if err := createDefaultConfig(config.DefaultPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  driver: "postgres"   # postgres | sqlite
  host: "localhost"
  port: 5432
  user: "clitter"
  password: "clitter"
  dbname: "clitter"
  sslmode: "disable"
  path: "clitter.db"   # used by the sqlite driver
  max_open_conns: 50
  max_idle_conns: 10

redis:
  enabled: true
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 50
  min_idle_conns: 5

kafka:
  enabled: true
  brokers:
    - "localhost:9092"
  topic: "clitter-events"
  group_id: "clitter-worker-group"

media:
  max_size: 10485760
  public_url: "/static/media"

storage:
  driver: "local"      # local | s3
  local:
    root: "static/media"
  s3:
    endpoint: ""
    region: "auto"
    bucket: ""
    access_key_id: ""
    secret_access_key: ""
    use_path_style: true

cache:
  profile_ttl: 60s
  reinvalidate_delay: 1s

log:
  level: "info"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
