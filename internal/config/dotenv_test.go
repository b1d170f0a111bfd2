package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_EnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DATA_SOURCE=http\nPAGE_SIZE=10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DATA_SOURCE", "embedded")
	// Registered with t.Setenv so it is restored, then cleared for the file to fill.
	t.Setenv("PAGE_SIZE", "")
	os.Unsetenv("PAGE_SIZE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"DATA_SOURCE", "embedded"},
		{"PAGE_SIZE", "10"},
	}
	for _, tt := range tests {
		if got := os.Getenv(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Error("LoadDotEnv() error = nil, want error for missing file")
	}
}
