package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTP_LoadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"region": "Bursa", "subregion": "Osmangazi", "status": "Kentsel Alan"}]`))
	}))
	defer srv.Close()

	records, err := NewHTTP(srv.URL+"/settlements", time.Second, 0).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 || records[0].Subregion != "Osmangazi" {
		t.Errorf("records = %+v", records)
	}
}

func TestHTTP_LoadCSVByContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte("il,ilce\nBursa,Nilüfer\n"))
	}))
	defer srv.Close()

	records, err := NewHTTP(srv.URL+"/export", time.Second, 0).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 || records[0].Subregion != "Nilüfer" {
		t.Errorf("records = %+v", records)
	}
}

func TestHTTP_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		max     int64
		want    string
	}{
		{
			name:    "status",
			handler: func(w http.ResponseWriter, r *http.Request) { http.Error(w, "gone", http.StatusNotFound) },
			want:    "unexpected status 404",
		},
		{
			name:    "too large",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[{"region": "` + strings.Repeat("x", 64) + `"}]`)) },
			max:     16,
			want:    "exceeds 16 bytes",
		},
		{
			name:    "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[{"region": `)) },
			want:    "decode json",
		},
		{
			name:    "empty",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) },
			want:    "empty dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTP(srv.URL, time.Second, tt.max).Load(context.Background())
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestHTTP_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTP(srv.URL, time.Second, 0).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
