package core

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Search keeps the records where any field contains the query after
// normalization. An empty query returns records unchanged.
func Search(records []Record, query string) []Record {
	if query == "" {
		return records
	}

	needle := Normalize(query)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesSearch(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func matchesSearch(r Record, needle string) bool {
	for _, f := range Fields {
		if NormalizedContains(r.Value(f), needle) {
			return true
		}
	}
	return false
}

// ApplyFilters keeps the records that satisfy every active constraint.
// Locality matches by normalized containment; the other columns must equal
// the constraint exactly.
func ApplyFilters(records []Record, filters FilterState) []Record {
	if filters.IsZero() {
		return records
	}

	m := newFilterMatcher(filters)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// filterMatcher caches the normalized locality constraint across a scan.
type filterMatcher struct {
	filters  FilterState
	locality string
}

func newFilterMatcher(filters FilterState) filterMatcher {
	return filterMatcher{
		filters:  filters,
		locality: Normalize(filters.Locality),
	}
}

func (m filterMatcher) match(r Record) bool {
	if m.filters.Region != "" && r.Region != m.filters.Region {
		return false
	}
	if m.filters.Subregion != "" && r.Subregion != m.filters.Subregion {
		return false
	}
	if m.filters.Authority != "" && r.Authority != m.filters.Authority {
		return false
	}
	if m.filters.Status != "" && r.Status != m.filters.Status {
		return false
	}
	if m.filters.Locality != "" && !NormalizedContains(r.Locality, m.locality) {
		return false
	}
	return true
}

// Options derives the candidate values for target: the distinct non-empty
// values left after applying every filter except target's own, sorted in
// Turkish collation order. Locality has no options and returns nil.
func Options(base []Record, filters FilterState, target Field) []string {
	if !target.IsFacet() {
		return nil
	}

	narrowed := ApplyFilters(base, filters.Without(target))

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range narrowed {
		v := r.Value(target)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	SortTurkish(values)
	return values
}

// Facets computes Options for every facet field.
func Facets(base []Record, filters FilterState) FacetOptions {
	out := make(FacetOptions, len(FacetFields))
	for _, f := range FacetFields {
		out[f] = Options(base, filters, f)
	}
	return out
}

// SortTurkish sorts values in place using Turkish collation.
func SortTurkish(values []string) {
	// Collators keep internal buffers; one per call.
	collate.New(language.Turkish).SortStrings(values)
}

// TotalPages returns ceil(n/size), or 0 when there is nothing to show.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the records for a 1-based page. The last page may be
// short; a page outside [1, TotalPages] yields an empty slice.
func Paginate(records []Record, size, page int) []Record {
	total := TotalPages(len(records), size)
	if page < 1 || page > total {
		return []Record{}
	}

	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Run executes a full render cycle from scratch. The requested page is
// clamped into the valid range so callers always get a displayable page.
func Run(records []Record, q Query) Result {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	searched := Search(records, q.Search)
	filtered := ApplyFilters(searched, q.Filters)
	total := TotalPages(len(filtered), size)
	page := clampPage(q.Page, total)

	return Result{
		Records:    Paginate(filtered, size, page),
		Total:      len(filtered),
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		Facets:     Facets(searched, q.Filters),
		Search:     q.Search,
		Filters:    q.Filters,
	}
}

// Matching returns every record that passes search and filters, unpaged.
func Matching(records []Record, search string, filters FilterState) []Record {
	return ApplyFilters(Search(records, search), filters)
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if total >= 1 && page > total {
		return total
	}
	if total < 1 {
		return 1
	}
	return page
}
