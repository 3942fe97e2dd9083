// Package catalog derives the displayed page of items from the full item set.
package catalog

import (
	"strings"

	"github.com/chimgan/sales/internal/models"
)

// Any matches every category or district.
const Any = "all"

// Districts of the service region offered in the location picker.
var Districts = []string{
	"Akdeniz", "Anamur", "Aydıncık", "Bozyazı", "Çamlıyazı", "Erdemli", "Gülnar",
	"Mezitli", "Mut", "Silifke", "Tarsus", "Toroslar", "Yenişehir",
}

// IsDistrict reports whether name is one of Districts.
func IsDistrict(name string) bool {
	for _, d := range Districts {
		if d == name {
			return true
		}
	}
	return false
}

// FormatLocation renders a structured location as "<region> - <district>".
func FormatLocation(region, district string) string {
	return region + " - " + district
}

// Filter narrows the catalog. Empty fields and Any match everything.
type Filter struct {
	Search   string
	Category string
	District string
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && isAny(f.Category) && isAny(f.District)
}

func isAny(v string) bool {
	return v == "" || v == Any
}

// Match applies every filter condition to item.
func (f Filter) Match(item *models.Item) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(item.Title), q) && !strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}
	if !isAny(f.Category) && item.Category != f.Category {
		return false
	}
	if !isAny(f.District) && !strings.Contains(strings.ToLower(item.Location), strings.ToLower(f.District)) {
		return false
	}
	return true
}

// Apply returns the items matching f, keeping their order.
func Apply(items []models.Item, f Filter) []models.Item {
	out := make([]models.Item, 0, len(items))
	for i := range items {
		if f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// TotalPages is ceil(total/size), at least 1.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage lowers page to the last page when it is past the end. It never raises it
// except to 1.
func ClampPage(page, total, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total, size); page > last {
		return last
	}
	return page
}

// Paginate slices items to page (1-based) of size entries.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Page is one rendered page of the catalog.
type Page struct {
	Items      []models.Item `json:"data"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Build filters items, clamps page and slices the result.
func Build(items []models.Item, f Filter, page, size int) Page {
	filtered := Apply(items, f)
	page = ClampPage(page, len(filtered), size)
	return Page{
		Items:      Paginate(filtered, page, size),
		Page:       page,
		PerPage:    size,
		Total:      len(filtered),
		TotalPages: TotalPages(len(filtered), size),
	}
}
