package source

// decode.go turns raw JSON or CSV into sanitized records.
//
// This is the input boundary for the core: every record leaves here with
// all five fields present. Missing keys, nulls, numbers and other
// non-string values become "". Nothing is rejected for having odd fields.

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/JonMunkholm/settlements/internal/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmptyDataset is returned when a source yields no records.
var ErrEmptyDataset = errors.New("empty dataset")

// Format is a serialized dataset format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatFromName picks a format from a file name, URL path or object key.
// Unknown extensions default to JSON.
func FormatFromName(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if strings.EqualFold(path.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// fieldAliases lists the accepted column names for each field, in
// precedence order. Names are matched after core.Normalize, so "İlçe",
// "ILCE" and "ilçe" are all "ilce".
var fieldAliases = []struct {
	field core.Field
	keys  []string
}{
	{core.FieldRegion, []string{"region", "province", "il"}},
	{core.FieldSubregion, []string{"subregion", "district", "ilce"}},
	{core.FieldAuthority, []string{"authority", "municipality", "belediye"}},
	{core.FieldLocality, []string{"locality", "neighborhood", "neighbourhood", "mahalle"}},
	{core.FieldStatus, []string{"status", "durum"}},
}

type alias struct {
	field core.Field
	rank  int // lower wins when several aliases carry a value
}

var keyAliases = func() map[string]alias {
	m := make(map[string]alias)
	for _, fa := range fieldAliases {
		for rank, k := range fa.keys {
			m[k] = alias{field: fa.field, rank: rank}
		}
	}
	return m
}()

func lookupAlias(key string) (alias, bool) {
	a, ok := keyAliases[core.Normalize(strings.TrimSpace(key))]
	return a, ok
}

// FieldForKey resolves a column name or JSON key.
func FieldForKey(key string) (core.Field, bool) {
	a, ok := lookupAlias(key)
	return a.field, ok
}

// Decode reads records in the given format.
func Decode(r io.Reader, format Format) ([]core.Record, error) {
	r = sanitizeReader(r)
	switch format {
	case FormatCSV:
		return DecodeCSV(r)
	default:
		return DecodeJSON(r)
	}
}

// sanitizeReader strips a UTF-8 BOM and replaces invalid byte sequences
// with U+FFFD.
func sanitizeReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// DecodeJSON accepts either a top-level array of objects or an object with
// a "records" array. Entries that are not JSON objects are skipped.
func DecodeJSON(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case '{':
		var wrapper struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		items = wrapper.Records
	default:
		return nil, fmt.Errorf("decode json: expected array or object, got %q", trimmed[0])
	}

	records := make([]core.Record, 0, len(items))
	for _, item := range items {
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		records = append(records, recordFromMap(obj))
	}
	return records, nil
}

// recordFromMap copies string values into a record. When a field appears
// under several aliases, the non-empty value with the highest precedence
// in fieldAliases wins, regardless of key order.
func recordFromMap(obj map[string]any) core.Record {
	var rec core.Record
	ranks := make(map[core.Field]int, len(fieldAliases))
	for k, v := range obj {
		a, ok := lookupAlias(k)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if r, seen := ranks[a.field]; seen && r <= a.rank {
			continue
		}
		ranks[a.field] = a.rank
		rec.Set(a.field, s)
	}
	return rec
}

// csvColumn binds a header position to a field.
type csvColumn struct {
	index int
	alias
}

// DecodeCSV reads a header row followed by data rows. Columns are matched
// by name; unknown columns are ignored and short rows are padded with "".
// Blank lines and rows with only empty cells are skipped.
func DecodeCSV(r io.Reader) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode csv header: %w", err)
	}

	var cols []csvColumn
	for i, name := range header {
		if a, ok := lookupAlias(name); ok {
			cols = append(cols, csvColumn{index: i, alias: a})
		}
	}
	slices.SortStableFunc(cols, func(x, y csvColumn) int { return x.rank - y.rank })
	if len(cols) == 0 {
		return nil, fmt.Errorf("decode csv header: no known columns in %q", strings.Join(header, ","))
	}

	var records []core.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv line %d: %w", line, err)
		}
		if isEmptyRow(row) {
			continue
		}

		var rec core.Record
		for _, c := range cols {
			if c.index >= len(row) || rec.Value(c.field) != "" {
				continue
			}
			rec.Set(c.field, strings.TrimSpace(row[c.index]))
		}
		records = append(records, rec)
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
