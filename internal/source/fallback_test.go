package source

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/settlements/internal/core"
)

type stubLoader struct {
	name    string
	records []core.Record
	err     error
	calls   int
}

func (s *stubLoader) Name() string { return s.name }

func (s *stubLoader) Load(ctx context.Context) ([]core.Record, error) {
	s.calls++
	return s.records, s.err
}

func TestEmbedded_Load(t *testing.T) {
	records, err := NewEmbedded().Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) == 0 {
		t.Fatal("embedded dataset is empty")
	}
	for i, r := range records {
		if r.Region == "" || r.Locality == "" {
			t.Errorf("record %d missing region or locality: %+v", i, r)
		}
	}
}

func TestFallback_PrimarySucceeds(t *testing.T) {
	primary := &stubLoader{name: "file", records: []core.Record{{Region: "Adana"}}}
	secondary := &stubLoader{name: "embedded", records: []core.Record{{Region: "Ankara"}}}

	records, report, err := WithFallback(primary, secondary).LoadWithReport(context.Background())
	if err != nil {
		t.Fatalf("LoadWithReport() error = %v", err)
	}
	if len(records) != 1 || records[0].Region != "Adana" {
		t.Errorf("records = %+v, want primary records", records)
	}
	if report.Source != "file" || report.Fallback {
		t.Errorf("report = %+v, want {file false}", report)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestFallback_PrimaryFails(t *testing.T) {
	tests := []struct {
		name    string
		primary *stubLoader
	}{
		{"error", &stubLoader{name: "http", err: errors.New("connection refused")}},
		{"empty", &stubLoader{name: "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := &stubLoader{name: "embedded", records: []core.Record{{Region: "Ankara"}}}

			records, report, err := WithFallback(tt.primary, secondary).LoadWithReport(context.Background())
			if err != nil {
				t.Fatalf("LoadWithReport() error = %v", err)
			}
			if len(records) != 1 || records[0].Region != "Ankara" {
				t.Errorf("records = %+v, want fallback records", records)
			}
			if report.Source != "embedded" || !report.Fallback {
				t.Errorf("report = %+v, want {embedded true}", report)
			}
		})
	}
}

func TestFallback_BothFail(t *testing.T) {
	primaryErr := errors.New("no such host")
	secondaryErr := errors.New("decode failed")
	f := WithFallback(
		&stubLoader{name: "http", err: primaryErr},
		&stubLoader{name: "embedded", err: secondaryErr},
	)

	_, err := f.Load(context.Background())
	if err == nil {
		t.Fatal("Load() expected error when both loaders fail")
	}
	if !errors.Is(err, primaryErr) || !errors.Is(err, secondaryErr) {
		t.Errorf("error should wrap both causes: %v", err)
	}
}

func TestFallback_Name(t *testing.T) {
	f := WithFallback(&stubLoader{name: "s3"}, NewEmbedded())
	if got := f.Name(); got != "s3+embedded" {
		t.Errorf("Name() = %q, want %q", got, "s3+embedded")
	}
}

func TestFile_Load(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/settlements.csv"
	if err := writeFile(path, "region,locality\nAdana,Reşatbey Mahallesi\n"); err != nil {
		t.Fatal(err)
	}

	records, err := NewFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 || records[0].Locality != "Reşatbey Mahallesi" {
		t.Errorf("records = %+v", records)
	}
}

func TestFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewFile(dir + "/missing.json").Load(context.Background()); err == nil {
		t.Error("Load() expected error for missing file")
	}

	empty := dir + "/empty.json"
	if err := writeFile(empty, "[]"); err != nil {
		t.Fatal(err)
	}
	_, err := NewFile(empty).Load(context.Background())
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Load() error = %v, want ErrEmptyDataset", err)
	}
}

// blockingLoader fails only when its context ends.
type blockingLoader struct{ calls int }

func (b *blockingLoader) Name() string { return "http" }

func (b *blockingLoader) Load(ctx context.Context) ([]core.Record, error) {
	b.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFallback_CancelledContextSkipsFallback(t *testing.T) {
	tests := []struct {
		name    string
		primary core.Loader
		want    error
	}{
		{"blocked until cancel", &blockingLoader{}, context.Canceled},
		{"empty after cancel", &stubLoader{name: "http"}, context.Canceled},
		{"unrelated error after cancel", &stubLoader{name: "http", err: errors.New("connection reset")}, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := &stubLoader{name: "embedded", records: []core.Record{{Region: "Ankara"}}}
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			records, report, err := WithFallback(tt.primary, secondary).LoadWithReport(ctx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadWithReport() error = %v, want %v", err, tt.want)
			}
			if records != nil || report.Fallback {
				t.Errorf("got records=%v report=%+v, want nothing", records, report)
			}
			if secondary.calls != 0 {
				t.Errorf("secondary called %d times, want 0", secondary.calls)
			}
		})
	}
}

func TestFallback_CancelledReloadKeepsSnapshot(t *testing.T) {
	primary := &stubLoader{name: "http", records: []core.Record{{Region: "Adana"}, {Region: "Ankara"}}}
	fallback := WithFallback(primary, NewEmbedded())
	catalog := core.NewCatalog(fallback)

	before, err := catalog.Reload(context.Background())
	if err != nil {
		t.Fatalf("initial Reload() error = %v", err)
	}

	// The next load hangs until the request that triggered it goes away.
	fallback.Primary = &blockingLoader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := catalog.Reload(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled Reload() error = %v, want context.Canceled", err)
	}

	after := catalog.Dataset()
	if after.ID != before.ID {
		t.Errorf("dataset ID = %s, want %s", after.ID, before.ID)
	}
	if after.Fallback || after.Source != "http" || len(after.Records) != 2 {
		t.Errorf("dataset = source %q fallback %v records %d, want http snapshot with 2 records",
			after.Source, after.Fallback, len(after.Records))
	}
}
