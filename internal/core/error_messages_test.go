package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "not loaded", err: ErrNoDataset, wantCode: "SRC001"},
		{name: "wrapped not loaded", err: fmt.Errorf("query: %w", ErrNoDataset), wantCode: "SRC001"},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), wantCode: "SRC002"},
		{name: "http status", err: errors.New("fetch https://example.com/data.json: unexpected status 404"), wantCode: "SRC002"},
		{name: "json decode", err: errors.New("decode json: invalid character 'x'"), wantCode: "SRC003"},
		{name: "empty dataset", err: errors.New("file data.json: empty dataset"), wantCode: "SRC004"},
		{name: "unknown field", err: errors.New("unknown field \"city\""), wantCode: "QRY001"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "unmatched falls back", err: errors.New("something odd"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Errorf("MapError(%v) returned empty message", tt.err)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrNoDataset)
	want := "The settlement list is not loaded yet (Code: SRC001). Wait a moment and reload the page"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(errors.New("rate limit exceeded")) {
		t.Error("rate limit should be user facing")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("unknown errors should not be user facing")
	}
}
