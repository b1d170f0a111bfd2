package core

// Browser is an interactive lookup session over a fixed record slice.
// It owns the search term, the filters and the page number, and memoizes
// the derived views. A Browser is not safe for concurrent use.
//
// Invalidation rules:
//   - the search stage is recomputed only when the term changes
//   - the filtered set is recomputed when the search stage or any filter changes
//   - a facet is recomputed when the search stage or another field's filter
//     changes; its own filter is not part of its key
//
// Any search or filter change that alters the state resets the page to 1.
type Browser struct {
	records  []Record
	pageSize int

	search  string
	filters FilterState
	pager   *Pager

	// generation of the search stage; bumps whenever searched is replaced
	searchGen int
	searched  []Record
	searchOK  bool

	filtered    []Record
	filteredKey filterKey
	filteredOK  bool

	facets map[Field]facetCache

	// counters for tests and debug logging
	searchRuns int
	filterRuns int
	facetRuns  map[Field]int
}

type filterKey struct {
	searchGen int
	filters   FilterState
}

type facetCache struct {
	key    filterKey
	values []string
}

// NewBrowser creates a session. pageSize <= 0 selects DefaultPageSize.
func NewBrowser(records []Record, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{
		records:   records,
		pageSize:  pageSize,
		pager:     NewPager(),
		facets:    make(map[Field]facetCache, len(FacetFields)),
		facetRuns: make(map[Field]int, len(FacetFields)),
	}
}

// Search returns the current search term.
func (b *Browser) Search() string { return b.search }

// Filters returns the current filter state.
func (b *Browser) Filters() FilterState { return b.filters }

// Page returns the current page number.
func (b *Browser) Page() int { return b.pager.Page() }

// PageSize returns the configured page size.
func (b *Browser) PageSize() int { return b.pageSize }

// SetSearch changes the free-text term.
func (b *Browser) SetSearch(q string) {
	if q == b.search {
		return
	}
	b.search = q
	b.searchOK = false
	b.pager.Reset()
}

// SetFilter changes one column constraint.
func (b *Browser) SetFilter(f Field, v string) {
	if b.filters.Get(f) == v {
		return
	}
	b.filters = b.filters.With(f, v)
	b.pager.Reset()
}

// SetFilters replaces every constraint at once.
func (b *Browser) SetFilters(fs FilterState) {
	if b.filters == fs {
		return
	}
	b.filters = fs
	b.pager.Reset()
}

// ClearFilters removes every constraint.
func (b *Browser) ClearFilters() {
	b.SetFilters(FilterState{})
}

// Next moves to the following page.
func (b *Browser) Next() { b.pager.Next(b.TotalPages()) }

// Prev moves to the previous page.
func (b *Browser) Prev() { b.pager.Prev(b.TotalPages()) }

// Jump moves to page n.
func (b *Browser) Jump(n int) { b.pager.Jump(n, b.TotalPages()) }

// TotalPages returns the page count for the current matches.
func (b *Browser) TotalPages() int {
	return TotalPages(len(b.matches()), b.pageSize)
}

// Facet returns the options for one facet field.
func (b *Browser) Facet(f Field) []string {
	if !f.IsFacet() {
		return nil
	}
	base := b.searchStage()
	key := filterKey{searchGen: b.searchGen, filters: b.filters.Without(f)}
	if c, ok := b.facets[f]; ok && c.key == key {
		return c.values
	}
	values := Options(base, b.filters, f)
	b.facets[f] = facetCache{key: key, values: values}
	b.facetRuns[f]++
	return values
}

// View returns the render-cycle output for the current state.
func (b *Browser) View() Result {
	matches := b.matches()
	facets := make(FacetOptions, len(FacetFields))
	for _, f := range FacetFields {
		facets[f] = b.Facet(f)
	}
	return Result{
		Records:    Paginate(matches, b.pageSize, b.Page()),
		Total:      len(matches),
		Page:       b.Page(),
		PageSize:   b.pageSize,
		TotalPages: TotalPages(len(matches), b.pageSize),
		Facets:     facets,
		Search:     b.search,
		Filters:    b.filters,
	}
}

func (b *Browser) searchStage() []Record {
	if !b.searchOK {
		b.searched = Search(b.records, b.search)
		b.searchOK = true
		b.searchGen++
		b.searchRuns++
	}
	return b.searched
}

func (b *Browser) matches() []Record {
	base := b.searchStage()
	key := filterKey{searchGen: b.searchGen, filters: b.filters}
	if b.filteredOK && b.filteredKey == key {
		return b.filtered
	}
	b.filtered = ApplyFilters(base, b.filters)
	b.filteredKey = key
	b.filteredOK = true
	b.filterRuns++
	return b.filtered
}
