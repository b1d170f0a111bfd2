package web

// handlers_common.go holds request parsing and response helpers shared by
// the page and API handlers.

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/settlements/internal/core"
)

var errUnknownField = errors.New("unknown field")

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseFilters reads one constraint per column from the query string.
// Surrounding whitespace is dropped, so a blank value means no constraint.
func parseFilters(r *http.Request) core.FilterState {
	q := r.URL.Query()
	var fs core.FilterState
	for _, f := range core.Fields {
		fs = fs.With(f, strings.TrimSpace(q.Get(f.Key())))
	}
	return fs
}

// parseQuery builds the render-cycle query for a request. Out-of-range
// pages are clamped by core.Run.
func parseQuery(r *http.Request, pageSize int) core.Query {
	return core.Query{
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
		Filters:  parseFilters(r),
		Page:     parseIntParam(r, "page", 1),
		PageSize: pageSize,
	}
}

// parseFacetField resolves the optional ?field= parameter of /api/facets.
func parseFacetField(r *http.Request) (core.Field, bool, error) {
	key := r.URL.Query().Get("field")
	if key == "" {
		return 0, false, nil
	}
	f, ok := core.ParseField(key)
	if !ok || !f.IsFacet() {
		return 0, false, fmt.Errorf("%w: %q has no options", errUnknownField, key)
	}
	return f, true, nil
}

// facetsJSON re-keys facet options by field key.
func facetsJSON(opts core.FacetOptions) map[string][]string {
	out := make(map[string][]string, len(opts))
	for _, f := range core.FacetFields {
		values := opts[f]
		if values == nil {
			values = []string{}
		}
		out[f.Key()] = values
	}
	return out
}

// etag names the snapshot a response was computed from. A given URL only
// produces a different body after a reload.
func etag(ds *core.Dataset) string {
	return `W/"` + ds.ID.String() + `"`
}

// notModified sets the ETag and reports whether the client copy is current.
func notModified(w http.ResponseWriter, r *http.Request, ds *core.Dataset) bool {
	tag := etag(ds)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		if strings.TrimSpace(candidate) == tag {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

// RecordsResponse is the JSON body of GET /api/records.
type RecordsResponse struct {
	Records    []core.Record       `json:"records"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
	HasPrev    bool                `json:"hasPrev"`
	HasNext    bool                `json:"hasNext"`
	Search     string              `json:"search"`
	Filters    core.FilterState    `json:"filters"`
	Facets     map[string][]string `json:"facets"`
	Dataset    core.DatasetInfo    `json:"dataset"`
}

func toRecordsResponse(res core.Result, ds *core.Dataset) RecordsResponse {
	records := res.Records
	if records == nil {
		records = []core.Record{}
	}
	return RecordsResponse{
		Records:    records,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
		HasPrev:    res.HasPrev(),
		HasNext:    res.HasNext(),
		Search:     res.Search,
		Filters:    res.Filters,
		Facets:     facetsJSON(res.Facets),
		Dataset:    ds.Info(),
	}
}
