package source

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/settlements/internal/config"
	"github.com/JonMunkholm/settlements/internal/core"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		data     config.DataConfig
		wantName string
	}{
		{"embedded", config.DataConfig{Source: config.SourceEmbedded, Fallback: true}, "embedded"},
		{"file", config.DataConfig{Source: config.SourceFile, Path: "x.json"}, "file"},
		{"file with fallback", config.DataConfig{Source: config.SourceFile, Path: "x.json", Fallback: true}, "file+embedded"},
		{"http", config.DataConfig{Source: config.SourceHTTP, URL: "http://127.0.0.1/x.json"}, "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Data: tt.data}
			loader, cleanup, err := Open(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer cleanup()
			if loader.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", loader.Name(), tt.wantName)
			}
		})
	}
}

func TestOpen_UnknownSource(t *testing.T) {
	_, cleanup, err := Open(context.Background(), &config.Config{Data: config.DataConfig{Source: "ldap"}})
	defer cleanup()
	if err == nil {
		t.Fatal("Open() expected error for unknown source")
	}
}

func TestOpen_MissingFileFallsBack(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{
		Source:   config.SourceFile,
		Path:     t.TempDir() + "/missing.json",
		Fallback: true,
	}}
	loader, cleanup, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cleanup()

	rl, ok := loader.(core.ReportingLoader)
	if !ok {
		t.Fatal("fallback loader should report its source")
	}
	records, report, err := rl.LoadWithReport(context.Background())
	if err != nil {
		t.Fatalf("LoadWithReport() error = %v", err)
	}
	if !report.Fallback || report.Source != "embedded" || len(records) == 0 {
		t.Errorf("report = %+v, %d records; want embedded fallback", report, len(records))
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	u := unavailable{name: "postgres", err: cause}
	if _, err := u.Load(context.Background()); !errors.Is(err, cause) {
		t.Errorf("Load() error = %v, want %v", err, cause)
	}
}
