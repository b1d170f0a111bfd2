package core

// catalog.go holds the dataset snapshot shared by all requests.
//
// The record slice inside a snapshot is never mutated after load; reloads
// build a new Dataset and swap the pointer. A failed reload keeps serving
// the previous snapshot.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoDataset is returned when a query runs before the first successful load.
var ErrNoDataset = errors.New("dataset not loaded")

// Loader produces a record collection from some data source.
type Loader interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// LoadReport describes which source actually served a load.
type LoadReport struct {
	Source   string
	Fallback bool
}

// ReportingLoader is implemented by loaders that may delegate to another
// source, such as a fallback chain.
type ReportingLoader interface {
	Loader
	LoadWithReport(ctx context.Context) ([]Record, LoadReport, error)
}

// Observer receives catalog events. Implemented by the metrics package.
type Observer interface {
	DatasetLoaded(report LoadReport, records int, took time.Duration)
	DatasetLoadFailed(source string, err error)
	QueryServed(took time.Duration, matches int)
}

// Catalog owns the current Dataset.
type Catalog struct {
	loader   Loader
	observer Observer
	pageSize int

	mu      sync.RWMutex
	current *Dataset
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithObserver attaches an event observer.
func WithObserver(o Observer) CatalogOption {
	return func(c *Catalog) { c.observer = o }
}

// WithPageSize sets the default page size for queries without one.
func WithPageSize(n int) CatalogOption {
	return func(c *Catalog) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewCatalog creates an empty catalog. Call Reload before querying.
func NewCatalog(loader Loader, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		loader:   loader,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the default page size.
func (c *Catalog) PageSize() int { return c.pageSize }

// Dataset returns the current snapshot, or nil before the first load.
func (c *Catalog) Dataset() *Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Reload loads records from the loader and replaces the snapshot.
func (c *Catalog) Reload(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	var (
		records []Record
		report  LoadReport
		err     error
	)
	if rl, ok := c.loader.(ReportingLoader); ok {
		records, report, err = rl.LoadWithReport(ctx)
	} else {
		records, err = c.loader.Load(ctx)
		report = LoadReport{Source: c.loader.Name()}
	}
	if err != nil {
		if c.observer != nil {
			c.observer.DatasetLoadFailed(c.loader.Name(), err)
		}
		return nil, fmt.Errorf("load %s: %w", c.loader.Name(), err)
	}

	ds := &Dataset{
		ID:       uuid.New(),
		Records:  records,
		Source:   report.Source,
		Fallback: report.Fallback,
		LoadedAt: time.Now(),
	}

	c.mu.Lock()
	c.current = ds
	c.mu.Unlock()

	took := time.Since(start)
	if c.observer != nil {
		c.observer.DatasetLoaded(report, len(records), took)
	}

	level := slog.LevelInfo
	if report.Fallback {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "dataset loaded",
		"dataset_id", ds.ID,
		"source", ds.Source,
		"fallback", ds.Fallback,
		"records", len(records),
		"duration_ms", took.Milliseconds(),
	)

	return ds, nil
}

// Query runs one render cycle against the current snapshot.
func (c *Catalog) Query(q Query) (Result, *Dataset, error) {
	ds := c.Dataset()
	if ds == nil {
		return Result{}, nil, ErrNoDataset
	}
	if q.PageSize <= 0 {
		q.PageSize = c.pageSize
	}

	start := time.Now()
	res := Run(ds.Records, q)
	if c.observer != nil {
		c.observer.QueryServed(time.Since(start), res.Total)
	}
	return res, ds, nil
}

// Matching returns every record that passes search and filters.
func (c *Catalog) Matching(search string, filters FilterState) ([]Record, *Dataset, error) {
	ds := c.Dataset()
	if ds == nil {
		return nil, nil, ErrNoDataset
	}
	return Matching(ds.Records, search, filters), ds, nil
}

// StartRefreshScheduler reloads the dataset every interval until ctx is
// cancelled. A non-positive interval returns immediately.
func (c *Catalog) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	slog.Info("refresh scheduler started", "interval", interval.String(), "source", c.loader.Name())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			if _, err := c.Reload(ctx); err != nil {
				slog.Error("dataset refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}
