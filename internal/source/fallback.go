package source

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/settlements/internal/core"
)

//go:embed data/fallback.json
var fallbackJSON []byte

// Embedded serves the built-in dataset compiled into the binary.
type Embedded struct{}

// NewEmbedded returns the built-in loader.
func NewEmbedded() *Embedded { return &Embedded{} }

func (Embedded) Name() string { return "embedded" }

// Load decodes the built-in dataset. It only fails if the binary was built
// with a broken data file.
func (Embedded) Load(ctx context.Context) ([]core.Record, error) {
	records, err := DecodeJSON(bytes.NewReader(fallbackJSON))
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return records, nil
}

// Fallback loads from Primary and switches to Secondary when Primary
// fails or returns no records.
type Fallback struct {
	Primary   core.Loader
	Secondary core.Loader
}

// WithFallback chains primary with secondary.
func WithFallback(primary, secondary core.Loader) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

// Load implements core.Loader.
func (f *Fallback) Load(ctx context.Context) ([]core.Record, error) {
	records, _, err := f.LoadWithReport(ctx)
	return records, err
}

// LoadWithReport implements core.ReportingLoader. A cancelled or expired
// ctx is returned as an error instead of switching to Secondary.
func (f *Fallback) LoadWithReport(ctx context.Context) ([]core.Record, core.LoadReport, error) {
	records, err := f.Primary.Load(ctx)
	if err == nil && len(records) == 0 {
		err = ErrEmptyDataset
	}
	if err == nil {
		return records, core.LoadReport{Source: f.Primary.Name()}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The caller gave up; the previous snapshot must stay in place.
		if !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		return nil, core.LoadReport{}, fmt.Errorf("%s: %w", f.Primary.Name(), err)
	}

	slog.Warn("primary data source failed, using fallback",
		"primary", f.Primary.Name(),
		"fallback", f.Secondary.Name(),
		"error", err,
	)

	fallback, ferr := f.Secondary.Load(ctx)
	if ferr != nil {
		return nil, core.LoadReport{}, errors.Join(err, fmt.Errorf("fallback %s: %w", f.Secondary.Name(), ferr))
	}
	return fallback, core.LoadReport{Source: f.Secondary.Name(), Fallback: true}, nil
}
