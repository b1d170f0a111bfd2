package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/JonMunkholm/settlements/internal/logging"
	"github.com/JonMunkholm/settlements/internal/web/templates"
)

// handleIndex renders the lookup page, or only the results fragment for
// HX-Request.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res, ds, err := s.catalog.Query(parseQuery(r, s.catalog.PageSize()))
	if err != nil {
		s.respondError(w, r, err, statusFor(err, http.StatusInternalServerError))
		return
	}

	view := templates.LookupView{Result: res, Dataset: ds.Info()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var renderErr error
	if isHTMX(r) {
		renderErr = templates.Results(view).Render(r.Context(), w)
	} else {
		renderErr = templates.LookupPage(view).Render(r.Context(), w)
	}
	if renderErr != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", renderErr)
	}
}

// handleRecords returns one render cycle as JSON.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ds := s.catalog.Dataset()
	if ds == nil {
		s.respondError(w, r, core.ErrNoDataset, http.StatusServiceUnavailable)
		return
	}
	if notModified(w, r, ds) {
		return
	}

	res, ds, err := s.catalog.Query(parseQuery(r, s.catalog.PageSize()))
	if err != nil {
		s.respondError(w, r, err, statusFor(err, http.StatusInternalServerError))
		return
	}
	writeJSON(w, toRecordsResponse(res, ds))
}

// handleFacets returns the option lists for the dropdowns. With ?field=
// only that column's options are returned.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	field, single, err := parseFacetField(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err, http.StatusBadRequest))
		return
	}

	ds := s.catalog.Dataset()
	if ds == nil {
		s.respondError(w, r, core.ErrNoDataset, http.StatusServiceUnavailable)
		return
	}
	if notModified(w, r, ds) {
		return
	}

	q := parseQuery(r, s.catalog.PageSize())
	base := core.Search(ds.Records, q.Search)

	if single {
		opts := core.Options(base, q.Filters, field)
		if opts == nil {
			opts = []string{}
		}
		writeJSON(w, map[string][]string{field.Key(): opts})
		return
	}
	writeJSON(w, facetsJSON(core.Facets(base, q.Filters)))
}

// handleExport streams every row that matches search and filters as CSV.
// The header uses field keys so the file can be loaded back as a dataset.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r, s.catalog.PageSize())
	records, ds, err := s.catalog.Matching(q.Search, q.Filters)
	if err != nil {
		s.respondError(w, r, err, statusFor(err, http.StatusInternalServerError))
		return
	}

	filename := fmt.Sprintf("settlements_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Dataset-ID", ds.ID.String())

	csvWriter := csv.NewWriter(w)

	header := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		header[i] = f.Key()
	}
	if err := csvWriter.Write(header); err != nil {
		return
	}

	const flushInterval = 1000
	for i, rec := range records {
		if err := csvWriter.Write(rec.Values()); err != nil {
			logging.FromContext(r.Context()).Warn("export aborted", "rows", i, "error", err)
			return
		}
		if (i+1)%flushInterval == 0 {
			csvWriter.Flush()
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
	csvWriter.Flush()
}

// handleDataset describes the current snapshot.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds := s.catalog.Dataset()
	if ds == nil {
		s.respondError(w, r, core.ErrNoDataset, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, ds.Info())
}

// handleReload reloads the dataset from the configured source. A failed
// reload keeps the previous snapshot.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithFields(r.Context(), "previous_dataset_id", s.catalog.Dataset().Info().ID)
	logger.Info("reload requested")

	ds, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}
	logger.Info("reload complete", "dataset_id", ds.ID, "records", len(ds.Records))
	writeJSON(w, ds.Info())
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Dataset *core.DatasetInfo `json:"dataset,omitempty"`
}

// handleHealth reports ready once a dataset is loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := s.catalog.Dataset()
	if ds == nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, HealthResponse{Status: "loading"})
		return
	}
	info := ds.Info()
	writeJSON(w, HealthResponse{Status: "ok", Dataset: &info})
}
