package gallery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{50, 3, 17},
		{100, 50, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.total, tt.size))
		})
	}
}

func TestPaginateThirteenEntries(t *testing.T) {
	items := seq(13)

	first := Paginate(items, 12, 0)
	assert.Equal(t, 2, first.PageCount)
	assert.Equal(t, 0, first.Page)
	assert.Equal(t, seq(12), first.Items)
	assert.Equal(t, 13, first.Total)

	second := Paginate(items, 12, 1)
	assert.Equal(t, 1, second.Page)
	assert.Equal(t, []int{12}, second.Items)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string{}, 12, 0)
	assert.Equal(t, 0, p.PageCount)
	assert.Equal(t, 0, p.Page)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.Total)
}

func TestPaginateOutOfRangeFallsBackToFirstPage(t *testing.T) {
	items := seq(10)

	tests := []struct {
		name      string
		requested int
	}{
		{name: "past the end", requested: 4},
		{name: "exactly page count", requested: 2},
		{name: "negative", requested: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, 6, tt.requested)
			assert.Equal(t, 0, p.Page)
			assert.Equal(t, seq(6), p.Items)
		})
	}
}

func TestPaginateReconstructsCatalog(t *testing.T) {
	for _, n := range []int{0, 1, 2, 11, 12, 13, 49, 50, 51, 137} {
		for _, size := range PageSizeOptions {
			items := seq(n)
			var all []int
			count := PageCount(n, size)
			for p := 0; p < count; p++ {
				page := Paginate(items, size, p)
				assert.Equal(t, p, page.Page)
				if p == count-1 {
					assert.GreaterOrEqual(t, len(page.Items), 1)
					assert.LessOrEqual(t, len(page.Items), size)
				} else {
					assert.Len(t, page.Items, size)
				}
				all = append(all, page.Items...)
			}
			if n == 0 {
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, items, all, "n=%d size=%d", n, size)
		}
	}
}

func TestPaginateItemsDoNotAliasTail(t *testing.T) {
	items := seq(4)
	p := Paginate(items, 2, 0)
	p.Items = append(p.Items, 99)
	assert.Equal(t, 2, items[2])
}
