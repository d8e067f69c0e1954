package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pagecraft/common/database"
	"pagecraft/common/logger"
	"pagecraft/common/mqtt"
	commonredis "pagecraft/common/redis"
	"pagecraft/internal/config"
	httpapi "pagecraft/internal/http"
	"pagecraft/internal/repository"
	"pagecraft/internal/service"
	"pagecraft/internal/store"
)

type repositories struct {
	users   repository.UsersRepository
	configs repository.ProfileConfigsRepository
	pages   repository.PagesRepository
	clients repository.ClientsRepository
	tasks   repository.TasksRepository
}

func main() {
	cfg := config.Load()

	zl, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "pagecraft-api",
		File:        cfg.Log.File,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres, or in-memory repositories when DB is disabled or unreachable
	var db *sql.DB
	repos := memoryRepositories()
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err != nil {
			zl.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		} else if err := database.EnsureSchema(ctx, d); err != nil {
			zl.Warn("Schema bootstrap failed, falling back to in-memory repositories", zap.Error(err))
			_ = d.Close()
		} else {
			db = d
			repos = postgresRepositories(db)
			zl.Info("DB enabled for pagecraft-api", zap.String("database", cfg.Database.Database))
		}
	}

	redisClient := commonredis.NewRedisClient(&cfg.Redis)
	if err := commonredis.Ping(ctx, redisClient); err != nil {
		zl.Warn("Redis not reachable at startup; sessions and drafts will fail until it is", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	kv := store.NewRedisKV(redisClient)

	var mqttClient *mqtt.Client
	var mqttPublisher service.MQTTPublisher
	if cfg.MQTT.Enabled {
		if c, err := mqtt.NewClient(&cfg.MQTT, zl); err != nil {
			zl.Warn("MQTT enabled but connection failed, change events go to the Redis stream only", zap.Error(err))
		} else {
			mqttClient = c
			mqttPublisher = c
		}
	}
	notifier := service.NewChangeNotifier(mqttPublisher, cfg.MQTT.TopicPrefix, redisClient, cfg.ChangeStream, zl)

	cache := service.NewPublishedCache(kv, cfg.PublishedCacheTTL, zl)
	authSvc := service.NewAuthService(repos.users, kv, cfg.SessionTTL, zl)
	profiles := service.NewProfileService(repos.configs, cache, notifier, service.NewStatusBoard(cfg.SaveStatusReset), zl)
	editor := service.NewPageEditorService(repos.pages, kv, notifier, zl)
	publish := service.NewPublishService(repos.configs, repos.users, repos.pages, cache, zl)
	email := service.NewEmailClient(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.Timeout, cfg.Email.Retries, zl)
	crm := service.NewCRMService(repos.clients, repos.tasks, email, notifier, zl)
	blobs := service.NewLocalBlobStore(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)
	uploads := service.NewUploadService(blobs, cfg.Uploads.MaxBytes, zl)

	authn := httpapi.NewAuthenticator(authSvc, zl)
	router := httpapi.NewRouter(zl)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authSvc, zl), authn)
	router.RegisterProfileRoutes(httpapi.NewProfileHandler(profiles, zl), authn)
	router.RegisterPageRoutes(httpapi.NewPageHandler(editor, zl), authn)
	router.RegisterPublicRoutes(httpapi.NewPublicHandler(publish, zl))
	router.RegisterCRMRoutes(httpapi.NewCRMHandler(crm, zl), authn)
	router.RegisterUploadRoutes(httpapi.NewUploadHandler(uploads, zl), authn, blobs.Dir())

	srv := service.NewServer(cfg.HTTP.Addr, httpapi.LogRequests(zl, router), zl)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		zl.Error("HTTP server stopped", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	_ = commonredis.Close(redisClient)
	if db != nil {
		_ = database.Close(db)
	}
}

func memoryRepositories() repositories {
	return repositories{
		users:   repository.NewMemoryUsersRepo(),
		configs: repository.NewMemoryProfileConfigsRepo(),
		pages:   repository.NewMemoryPagesRepo(),
		clients: repository.NewMemoryClientsRepo(),
		tasks:   repository.NewMemoryTasksRepo(),
	}
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		users:   repository.NewPostgresUsersRepository(db),
		configs: repository.NewPostgresProfileConfigsRepository(db),
		pages:   repository.NewPostgresPagesRepository(db),
		clients: repository.NewPostgresClientsRepository(db),
		tasks:   repository.NewPostgresTasksRepository(db),
	}
}
