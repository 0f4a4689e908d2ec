// Package paginate splits a list into fixed-size pages for display.
package paginate

// DefaultSize is the number of rows shown per page.
const DefaultSize = 5

// Pager holds a list and a current page. Pages are 1-based.
type Pager[T any] struct {
	items []T
	size  int
	page  int
}

// New returns a pager over items positioned on page 1. A size below 1
// falls back to DefaultSize.
func New[T any](items []T, size int) *Pager[T] {
	if size < 1 {
		size = DefaultSize
	}
	return &Pager[T]{items: items, size: size, page: 1}
}

// Len returns the number of items across all pages.
func (p *Pager[T]) Len() int { return len(p.items) }

// Total returns the number of pages. An empty list has one empty page.
func (p *Pager[T]) Total() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.size - 1) / p.size
}

// Current returns the current page number.
func (p *Pager[T]) Current() int { return p.page }

// Page returns the items on the current page.
func (p *Pager[T]) Page() []T {
	start := (p.page - 1) * p.size
	if start >= len(p.items) {
		return nil
	}
	end := min(start+p.size, len(p.items))
	return p.items[start:end]
}

// Next advances one page. It reports false on the last page.
func (p *Pager[T]) Next() bool {
	if p.page >= p.Total() {
		return false
	}
	p.page++
	return true
}

// Prev goes back one page. It reports false on the first page.
func (p *Pager[T]) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Goto jumps to page n, clamped to the valid range.
func (p *Pager[T]) Goto(n int) {
	p.page = max(1, min(n, p.Total()))
}

// Reset replaces the items and returns to page 1.
func (p *Pager[T]) Reset(items []T) {
	p.items = items
	p.page = 1
}

// Remove drops the first item for which match is true and stays on the same
// page, stepping back when that page is now past the end.
func (p *Pager[T]) Remove(match func(T) bool) bool {
	for i, it := range p.items {
		if match(it) {
			p.items = append(p.items[:i:i], p.items[i+1:]...)
			if p.page > p.Total() {
				p.page = p.Total()
			}
			return true
		}
	}
	return false
}
