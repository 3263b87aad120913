package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/msuny-c/fdb-viewer/internal/domain/auth"
	"github.com/msuny-c/fdb-viewer/internal/domain/document"
	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	"github.com/msuny-c/fdb-viewer/internal/infra/blobstore"
	"github.com/msuny-c/fdb-viewer/internal/infra/config"
	"github.com/msuny-c/fdb-viewer/internal/infra/doccache"
	"github.com/msuny-c/fdb-viewer/internal/infra/docrepo"
)

func provideDocumentConfig(cfg *config.Config) document.Config {
	return document.Config{
		MaxFileBytes:    cfg.Documents.MaxFileBytes,
		MaxAssetBytes:   cfg.Documents.MaxAssetBytes,
		AssetExtensions: cfg.Documents.AssetExtensions,
		CacheTTL:        cfg.Documents.CacheTTL,
		LookupCacheSize: cfg.Documents.LookupCacheSize,
		Lookup: lookup.Config{
			Threshold: cfg.Lookup.Threshold,
			Bonus:     cfg.Lookup.Bonus,
		},
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

func provideDocumentRepository(cfg *config.Config, logger *slog.Logger) document.Repository {
	fallback := docrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := docrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres document repository enabled")
	return repo
}

func provideDocumentCache(cfg *config.Config, logger *slog.Logger) document.Cache {
	if cfg.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return doccache.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return doccache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("valkey document cache enabled", "addr", cfg.Redis.Addr)
			return doccache.NewValkeyCache(client, cfg.Redis.Prefix)
		}
	}
	return doccache.NewMemoryCache()
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) document.ObjectStorage {
	if strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		logger.Info("storage endpoint not set, keeping blobs in memory")
		return blobstore.NewMemoryStorage()
	}
	storage, err := blobstore.NewR2Storage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.Region, logger)
	if err != nil {
		logger.Error("failed to initialize r2 storage, keeping blobs in memory", "error", err)
		return blobstore.NewMemoryStorage()
	}
	logger.Info("r2 blob storage enabled", "bucket", cfg.Storage.Bucket)
	return storage
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
