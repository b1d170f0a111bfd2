package source

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/settlements/internal/config"
	"github.com/JonMunkholm/settlements/internal/core"
)

// Open builds the loader selected by cfg.Data.Source. The returned cleanup
// releases any connections the loader holds and is always safe to call.
// When cfg.Data.Fallback is set, non-embedded sources fall back to the
// built-in dataset.
func Open(ctx context.Context, cfg *config.Config) (core.Loader, func(), error) {
	cleanup := func() {}

	var loader core.Loader
	switch cfg.Data.Source {
	case config.SourceEmbedded, "":
		return NewEmbedded(), cleanup, nil

	case config.SourceFile:
		loader = NewFile(cfg.Data.Path)

	case config.SourceHTTP:
		loader = NewHTTP(cfg.Data.URL, cfg.Data.FetchTimeout, cfg.Data.MaxBytes)

	case config.SourcePostgres:
		pool, err := OpenPool(ctx, PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			if !cfg.Data.Fallback {
				return nil, cleanup, err
			}
			// Database unreachable at startup: serve the built-in
			// dataset rather than refusing to start.
			return WithFallback(unavailable{name: config.SourcePostgres, err: err}, NewEmbedded()), cleanup, nil
		}
		cleanup = pool.Close
		loader = NewPostgres(pool, cfg.Database.Table, cfg.Database.OrderBy)

	case config.SourceS3:
		client, err := NewS3Client(ctx, S3ClientConfig{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, cleanup, err
		}
		loader = NewS3(client, cfg.S3.Bucket, cfg.S3.Key)

	default:
		return nil, cleanup, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	if cfg.Data.Fallback {
		loader = WithFallback(loader, NewEmbedded())
	}
	return loader, cleanup, nil
}

// unavailable stands in for a source that could not be initialized.
type unavailable struct {
	name string
	err  error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Load(ctx context.Context) ([]core.Record, error) {
	return nil, u.err
}
