package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/vidspace/internal/auth"
	"anoa.com/vidspace/internal/bootstrap"
	"anoa.com/vidspace/internal/config"
	"anoa.com/vidspace/internal/jobs"
	searchService "anoa.com/vidspace/internal/modules/search/service"
	"anoa.com/vidspace/internal/server"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/internal/storage/sqlstore"
	"anoa.com/vidspace/pkg/database"
	"anoa.com/vidspace/pkg/logger"
	"anoa.com/vidspace/pkg/metrics"
	objectstore "anoa.com/vidspace/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Warn().Err(err).Msg("failed to close database")
			}
		}()
	}

	deps := server.Deps{
		Store:   store,
		Metrics: metrics.Default(),
		Log:     log,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		deps.Redis = rdb
		log.Info().Msg("redis connected")
	} else {
		log.Warn().Msg("REDIS_URL not set: realtime notifications and comment rate limiting disabled")
	}

	if cfg.MeiliSearchHost != "" {
		client := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		deps.Search = searchService.NewMeiliSearchService(client, log)
	} else {
		log.Info().Msg("MEILISEARCH_HOST not set: search uses storage title matching")
	}

	if cfg.S3Bucket != "" {
		blobs, err := objectstore.NewS3Storage(ctx, objectstore.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
			UsePathStyle:    cfg.S3UsePathStyle,
			PartSizeMB:      cfg.S3PartSizeMB,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		deps.Blobs = blobs
	} else if cfg.LocalMediaDir != "" {
		blobs, err := objectstore.NewLocalStorage(cfg.LocalMediaDir, "/media")
		if err != nil {
			return fmt.Errorf("failed to initialize local media storage: %w", err)
		}
		deps.Blobs = blobs
		deps.MediaDir = cfg.LocalMediaDir
	}

	if cfg.CloudinaryCloudName != "" {
		images, err := objectstore.NewCloudinaryStorage(objectstore.CloudinaryOptions{
			CloudName:  cfg.CloudinaryCloudName,
			APIKey:     cfg.CloudinaryAPIKey,
			APISecret:  cfg.CloudinaryAPISecret,
			RootFolder: cfg.CloudinaryUploadFolder,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize cloudinary storage: %w", err)
		}
		deps.Images = images
	}

	deps.Sessions = auth.NewSessionStore(cfg.SessionSecret, db, cfg.IsProduction())
	if deps.Strategy, err = auth.NewStrategy(cfg, store, log); err != nil {
		return fmt.Errorf("failed to initialize auth: %w", err)
	}

	if cfg.SeedDemo {
		videos, err := bootstrap.SeedDemo(ctx, store, log)
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		if deps.Search != nil {
			for i := range videos {
				if err := deps.Search.IndexVideo(ctx, &videos[i]); err != nil {
					log.Warn().Err(err).Str("video_id", videos[i].ID).Msg("failed to index seeded video")
				}
			}
		}
	}

	scheduler := jobs.NewScheduler(10*time.Minute, log)
	if deps.Search != nil && cfg.ReindexSchedule != "" {
		if err := scheduler.Register(jobs.NewReindexJob(store, deps.Search, cfg.ReindexSchedule, log)); err != nil {
			return fmt.Errorf("invalid SEARCH_REINDEX_CRON: %w", err)
		}
	}
	scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	log.Info().
		Str("env", cfg.AppEnv).
		Str("storage", cfg.StorageBackend).
		Str("auth", deps.Strategy.Name()).
		Msg("starting vidspace")

	return server.NewServer(cfg, deps).Run(ctx, shutdownTimeout)
}

// openStore returns the gorm handle alongside the store when the SQL
// backend is selected so sessions can share it.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Storage, *gorm.DB, error) {
	if cfg.StorageBackend == config.StorageMemory {
		log.Warn().Msg("using in-memory storage: data is lost on restart")
		return memory.New(), nil, nil
	}

	dsn := cfg.PostgresDSN()
	if cfg.DBDriver == config.DriverSQLite {
		dsn = cfg.SQLitePath
	}
	db, err := database.Connect(database.Options{
		Driver:  cfg.DBDriver,
		DSN:     dsn,
		Verbose: cfg.LogLevel == "debug",
	})
	if err != nil {
		return nil, nil, err
	}

	store := sqlstore.New(db)
	if err := store.Migrate(ctx); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connected and migrated")
	return store, db, nil
}
