package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/models"
)

func items(n int) []models.Item {
	out := make([]models.Item, n)
	for i := range out {
		out[i] = models.Item{Title: fmt.Sprintf("Item %d", i+1)}
	}
	return out
}

func TestFilter_Conjunction(t *testing.T) {
	all := []models.Item{
		{Title: "Bicycle", Description: "red", Category: "sport", Location: "Mersin - Mezitli"},
		{Title: "Sofa", Description: "comfy red sofa", Category: "home", Location: "Mersin - Tarsus"},
		{Title: "Red Lamp", Category: "home", Location: "somewhere in mezitli"},
		{Title: "Chair", Category: "home", Location: "Mersin - Mezitli"},
	}

	got := Apply(all, Filter{Search: "RED", Category: "home", District: "Mezitli"})
	require.Len(t, got, 1)
	assert.Equal(t, "Red Lamp", got[0].Title)

	assert.Len(t, Apply(all, Filter{Search: "red"}), 3)
	assert.Len(t, Apply(all, Filter{Category: Any, District: Any}), 4)
	assert.Len(t, Apply(all, Filter{District: "tarsus"}), 1)
}

func TestPaginate(t *testing.T) {
	list := items(25)
	assert.Len(t, Paginate(list, 1, 10), 10)
	assert.Len(t, Paginate(list, 3, 10), 5)
	assert.Equal(t, "Item 21", Paginate(list, 3, 10)[0].Title)
	assert.Empty(t, Paginate(list, 4, 10))
	assert.Empty(t, Paginate(list, 0, 10))
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, total, size, want int
	}{
		{page: 5, total: 25, size: 10, want: 3},
		{page: 2, total: 25, size: 10, want: 2},
		{page: 3, total: 0, size: 10, want: 1},
		{page: 1, total: 0, size: 10, want: 1},
		{page: 0, total: 50, size: 10, want: 1},
		{page: 9, total: 100, size: 100, want: 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampPage(tc.page, tc.total, tc.size), "%+v", tc)
	}

	// Never clamps upward: every page within range is left alone.
	for total := 0; total <= 60; total++ {
		for page := 1; page <= 8; page++ {
			got := ClampPage(page, total, 10)
			want := page
			if last := TotalPages(total, 10); page > last {
				want = last
			}
			assert.Equal(t, want, got)
		}
	}
}

func TestBuild(t *testing.T) {
	p := Build(items(45), Filter{}, 9, 20)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 45, p.Total)
	assert.Len(t, p.Items, 5)
}

func TestPager_ResetsOnFilterChange(t *testing.T) {
	p := NewPager(10)
	p.SetPage(3)
	p.Render(items(50))
	assert.Equal(t, 3, p.Page())

	p.SetFilter(Filter{})
	assert.Equal(t, 3, p.Page(), "unchanged filter keeps the page")

	p.SetFilter(Filter{Search: "Item 1"})
	assert.Equal(t, 1, p.Page())

	p.SetPage(4)
	page := p.Render(items(50))
	// "Item 1", "Item 10".."Item 19" match: 11 results, 2 pages.
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, p.Page())
}

func TestPager_PageSizes(t *testing.T) {
	p := NewPager(7)
	assert.Equal(t, 10, p.Size())
	assert.False(t, p.SetSize(15))
	p.SetPage(2)
	assert.True(t, p.SetSize(50))
	assert.Equal(t, 1, p.Page())
}

func TestDistricts(t *testing.T) {
	assert.True(t, IsDistrict("Mezitli"))
	assert.False(t, IsDistrict("Kadıköy"))
	assert.Equal(t, "Mersin - Tarsus", FormatLocation("Mersin", "Tarsus"))
}
