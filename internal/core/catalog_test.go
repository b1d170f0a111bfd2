package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubLoader struct {
	name    string
	records []Record
	err     error
	calls   int
}

func (s *stubLoader) Name() string { return s.name }

func (s *stubLoader) Load(ctx context.Context) ([]Record, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type reportingStub struct {
	stubLoader
	report LoadReport
}

func (r *reportingStub) LoadWithReport(ctx context.Context) ([]Record, LoadReport, error) {
	records, err := r.Load(ctx)
	return records, r.report, err
}

type recordingObserver struct {
	mu      sync.Mutex
	loaded  []LoadReport
	failed  []string
	queries int
}

func (o *recordingObserver) DatasetLoaded(report LoadReport, records int, took time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded = append(o.loaded, report)
}

func (o *recordingObserver) DatasetLoadFailed(source string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, source)
}

func (o *recordingObserver) QueryServed(took time.Duration, matches int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries++
}

func TestCatalog_QueryBeforeLoad(t *testing.T) {
	c := NewCatalog(&stubLoader{name: "stub"})
	_, _, err := c.Query(Query{})
	if !errors.Is(err, ErrNoDataset) {
		t.Errorf("Query before load: err = %v, want ErrNoDataset", err)
	}
	if c.Dataset() != nil {
		t.Error("Dataset() should be nil before load")
	}
}

func TestCatalog_ReloadAndQuery(t *testing.T) {
	obs := &recordingObserver{}
	loader := &stubLoader{name: "stub", records: makeRecords(120)}
	c := NewCatalog(loader, WithObserver(obs), WithPageSize(25))

	ds, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if ds.Source != "stub" || ds.Fallback {
		t.Errorf("dataset source = %q fallback = %v", ds.Source, ds.Fallback)
	}
	if len(ds.Records) != 120 {
		t.Errorf("dataset holds %d records, want 120", len(ds.Records))
	}

	res, got, err := c.Query(Query{Filters: FilterState{Region: "C"}})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got.ID != ds.ID {
		t.Error("Query returned a different dataset")
	}
	if res.PageSize != 25 || res.TotalPages != 2 || res.Total != 40 {
		t.Errorf("result size=%d pages=%d total=%d", res.PageSize, res.TotalPages, res.Total)
	}
	if obs.queries != 1 || len(obs.loaded) != 1 {
		t.Errorf("observer saw %d queries and %d loads", obs.queries, len(obs.loaded))
	}

	all, _, err := c.Matching("", FilterState{Region: "C"})
	if err != nil || len(all) != 40 {
		t.Errorf("Matching returned %d records, err %v", len(all), err)
	}
}

func TestCatalog_FailedReloadKeepsSnapshot(t *testing.T) {
	obs := &recordingObserver{}
	loader := &stubLoader{name: "stub", records: makeRecords(10)}
	c := NewCatalog(loader, WithObserver(obs))

	first, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	loader.err = errors.New("connection refused")
	if _, err := c.Reload(context.Background()); err == nil {
		t.Fatal("Reload() expected error")
	}
	if c.Dataset() != first {
		t.Error("failed reload replaced the snapshot")
	}
	if len(obs.failed) != 1 || obs.failed[0] != "stub" {
		t.Errorf("observer failures = %v", obs.failed)
	}
}

func TestCatalog_ReportingLoader(t *testing.T) {
	loader := &reportingStub{
		stubLoader: stubLoader{name: "chain", records: makeRecords(3)},
		report:     LoadReport{Source: "embedded", Fallback: true},
	}
	c := NewCatalog(loader)

	ds, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if ds.Source != "embedded" || !ds.Fallback {
		t.Errorf("dataset source = %q fallback = %v, want embedded/true", ds.Source, ds.Fallback)
	}
	info := ds.Info()
	if info.Records != 3 || info.ID == "" {
		t.Errorf("Info() = %+v", info)
	}
}

func TestCatalog_RefreshSchedulerStops(t *testing.T) {
	loader := &stubLoader{name: "stub", records: makeRecords(1)}
	c := NewCatalog(loader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.StartRefreshScheduler(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	// Disabled interval returns immediately.
	c.StartRefreshScheduler(context.Background(), 0)
}
