package catalog

import "github.com/chimgan/sales/internal/models"

// Pager is the catalog's navigation state: filters, page size and page index.
// Changing a filter or the page size goes back to the first page.
type Pager struct {
	filter Filter
	page   int
	size   int
}

func NewPager(size int) *Pager {
	if !models.IsValidItemsPerPage(size) {
		size = models.ItemsPerPageOptions[0]
	}
	return &Pager{page: 1, size: size}
}

func (p *Pager) Filter() Filter { return p.filter }
func (p *Pager) Page() int { return p.page }
func (p *Pager) Size() int { return p.size }

// SetFilter replaces the filter; the page resets only when something changed.
func (p *Pager) SetFilter(f Filter) {
	if f != p.filter {
		p.filter = f
		p.page = 1
	}
}

// SetSize changes the page size if it is an allowed option.
func (p *Pager) SetSize(size int) bool {
	if !models.IsValidItemsPerPage(size) {
		return false
	}
	if size != p.size {
		p.size = size
		p.page = 1
	}
	return true
}

// SetPage moves to page; it is clamped on the next Render.
func (p *Pager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

// Render builds the current page and stores the clamped page index.
func (p *Pager) Render(items []models.Item) Page {
	out := Build(items, p.filter, p.page, p.size)
	p.page = out.Page
	return out
}
