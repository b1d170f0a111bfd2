package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field identifies one of the five record columns.
type Field int

const (
	FieldRegion Field = iota
	FieldSubregion
	FieldAuthority
	FieldLocality
	FieldStatus
)

// Fields lists every column in display order.
var Fields = []Field{FieldRegion, FieldSubregion, FieldAuthority, FieldLocality, FieldStatus}

// FacetFields lists the dropdown columns. Locality is free text and has no facet.
var FacetFields = []Field{FieldRegion, FieldSubregion, FieldAuthority, FieldStatus}

// Key returns the stable identifier used in query strings and JSON.
func (f Field) Key() string {
	switch f {
	case FieldRegion:
		return "region"
	case FieldSubregion:
		return "subregion"
	case FieldAuthority:
		return "authority"
	case FieldLocality:
		return "locality"
	case FieldStatus:
		return "status"
	default:
		return ""
	}
}

// Label returns the column heading shown to users.
func (f Field) Label() string {
	switch f {
	case FieldRegion:
		return "İl"
	case FieldSubregion:
		return "İlçe"
	case FieldAuthority:
		return "Belediye"
	case FieldLocality:
		return "Mahalle"
	case FieldStatus:
		return "Durum"
	default:
		return ""
	}
}

// IsFacet reports whether the field has a derived option list.
func (f Field) IsFacet() bool {
	return f != FieldLocality && f.Key() != ""
}

func (f Field) String() string { return f.Key() }

// ParseField resolves a field key (case-insensitive).
func ParseField(key string) (Field, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range Fields {
		if f.Key() == key {
			return f, true
		}
	}
	return 0, false
}

// Record is one settlement row. Fields are never absent; missing source
// values are stored as "".
type Record struct {
	Region    string `json:"region"`
	Subregion string `json:"subregion"`
	Authority string `json:"authority"`
	Locality  string `json:"locality"`
	Status    string `json:"status"`
}

// Value returns the raw value of a field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldRegion:
		return r.Region
	case FieldSubregion:
		return r.Subregion
	case FieldAuthority:
		return r.Authority
	case FieldLocality:
		return r.Locality
	case FieldStatus:
		return r.Status
	default:
		return ""
	}
}

// Set assigns a field value.
func (r *Record) Set(f Field, v string) {
	switch f {
	case FieldRegion:
		r.Region = v
	case FieldSubregion:
		r.Subregion = v
	case FieldAuthority:
		r.Authority = v
	case FieldLocality:
		r.Locality = v
	case FieldStatus:
		r.Status = v
	}
}

// Values returns the fields in display order.
func (r Record) Values() []string {
	return []string{r.Region, r.Subregion, r.Authority, r.Locality, r.Status}
}

// FilterState holds one constraint per column. An empty string means
// "no constraint" for that column.
type FilterState struct {
	Region    string `json:"region,omitempty"`
	Subregion string `json:"subregion,omitempty"`
	Authority string `json:"authority,omitempty"`
	Locality  string `json:"locality,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Get returns the constraint for a field.
func (fs FilterState) Get(f Field) string {
	return Record(fs).Value(f)
}

// With returns a copy with the field's constraint replaced.
func (fs FilterState) With(f Field, v string) FilterState {
	r := Record(fs)
	r.Set(f, v)
	return FilterState(r)
}

// Without returns a copy with the field's constraint cleared.
func (fs FilterState) Without(f Field) FilterState {
	return fs.With(f, "")
}

// IsZero reports whether no constraint is active.
func (fs FilterState) IsZero() bool {
	return fs == FilterState{}
}

// Active returns the fields that carry a constraint, in display order.
func (fs FilterState) Active() []Field {
	var out []Field
	for _, f := range Fields {
		if fs.Get(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// FacetOptions maps each facet field to its sorted candidate values.
type FacetOptions map[Field][]string

// Query describes one stateless render cycle.
type Query struct {
	Search   string
	Filters  FilterState
	Page     int
	PageSize int
}

// Result is everything the presentation layer needs for one render cycle.
type Result struct {
	Records    []Record
	Total      int // matches after search and filters
	Page       int
	PageSize   int
	TotalPages int
	Facets     FacetOptions
	Search     string
	Filters    FilterState
}

// HasPrev reports whether a previous page exists.
func (r Result) HasPrev() bool { return r.Page > 1 }

// HasNext reports whether a following page exists.
func (r Result) HasNext() bool { return r.Page < r.TotalPages }

// Offset returns the zero-based index of the first record on the page.
func (r Result) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.PageSize
}

// Dataset is one loaded snapshot of records.
type Dataset struct {
	ID       uuid.UUID
	Records  []Record
	Source   string
	Fallback bool // true when the primary source failed and the fallback served
	LoadedAt time.Time
}

// DatasetInfo is the JSON-friendly summary of a Dataset.
type DatasetInfo struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Fallback bool      `json:"fallback"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Info summarizes the dataset.
func (d *Dataset) Info() DatasetInfo {
	if d == nil {
		return DatasetInfo{}
	}
	return DatasetInfo{
		ID:       d.ID.String(),
		Source:   d.Source,
		Fallback: d.Fallback,
		Records:  len(d.Records),
		LoadedAt: d.LoadedAt,
	}
}
