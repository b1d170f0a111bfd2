package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/settlements/internal/core"
)

// DefaultMaxBytes caps remote dataset downloads (50MB).
const DefaultMaxBytes = 50 * 1024 * 1024

// HTTP fetches a dataset from a URL.
type HTTP struct {
	URL      string
	Client   *http.Client
	MaxBytes int64
}

// NewHTTP creates an HTTP loader with the given request timeout.
func NewHTTP(url string, timeout time.Duration, maxBytes int64) *HTTP {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTP{
		URL:      url,
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
	}
}

func (h *HTTP) Name() string { return "http" }

// Load downloads and decodes the dataset. A text/csv content type or a
// .csv path selects CSV; anything else is decoded as JSON.
func (h *HTTP) Load(ctx context.Context) ([]core.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", h.URL, resp.StatusCode)
	}

	format := FormatFromName(h.URL)
	if strings.Contains(resp.Header.Get("Content-Type"), "csv") {
		format = FormatCSV
	}

	maxBytes := h.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	body := io.LimitReader(resp.Body, maxBytes+1)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("fetch %s: response exceeds %d bytes", h.URL, maxBytes)
	}

	records, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, ErrEmptyDataset)
	}
	return records, nil
}
