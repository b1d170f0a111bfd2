package core

// DefaultPageSize is the number of records shown per page.
const DefaultPageSize = 50

// Pager tracks the current page number. It starts at 1 and only moves via
// Next, Prev, Jump or Reset. Navigation is clamped to [1, totalPages] and
// ignored entirely when there is at most one page.
type Pager struct {
	page int
}

// NewPager returns a pager positioned on page 1.
func NewPager() *Pager {
	return &Pager{page: 1}
}

// Page returns the current page number.
func (p *Pager) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// Reset returns to page 1.
func (p *Pager) Reset() {
	p.page = 1
}

// Next advances one page.
func (p *Pager) Next(totalPages int) {
	p.Jump(p.Page()+1, totalPages)
}

// Prev goes back one page.
func (p *Pager) Prev(totalPages int) {
	p.Jump(p.Page()-1, totalPages)
}

// Jump moves to page n, clamped to the valid range.
func (p *Pager) Jump(n, totalPages int) {
	if totalPages <= 1 {
		return
	}
	if n < 1 {
		n = 1
	}
	if n > totalPages {
		n = totalPages
	}
	p.page = n
}
