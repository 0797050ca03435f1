// Package paginator splits ordered result sets into fixed-size pages.
//
// Page resolution is lenient: a missing or non-numeric page number means
// the first page, and any numeric value outside the valid range resolves to
// the last page. Nothing here returns an error.
package paginator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Window is the resolved position of one page inside a result set of
// TotalItems elements. Offset and Limit can be handed to a store query.
type Window struct {
	Number     int `json:"current_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
	Size       int `json:"items_per_page"`
	Offset     int `json:"-"`
	Limit      int `json:"-"`
}

func (w Window) HasNext() bool { return w.Number < w.TotalPages }
func (w Window) HasPrevious() bool { return w.Number > 1 }

// MarshalJSON adds the navigation flags to the encoded window.
func (w Window) MarshalJSON() ([]byte, error) {
	type plain Window
	return json.Marshal(struct {
		plain
		HasNext     bool `json:"has_next"`
		HasPrevious bool `json:"has_previous"`
	}{plain(w), w.HasNext(), w.HasPrevious()})
}

// Page is a single page of items together with its window metadata.
type Page[T any] struct {
	Items []T
	Window
}

// NewWindow resolves raw against a result set of total items split into pages
// of size. Size values below 1 are treated as 1.
func NewWindow(total, size int, raw string) Window {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size

	number := 1
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		number = n
		if number < 1 || number > pages {
			number = pages
		}
	}
	if number < 1 {
		number = 1
	}

	offset := (number - 1) * size
	limit := size
	if offset >= total {
		offset, limit = total, 0
	} else if offset+limit > total {
		limit = total - offset
	}

	return Window{
		Number:     number,
		TotalPages: pages,
		TotalItems: total,
		Size:       size,
		Offset:     offset,
		Limit:      limit,
	}
}

// Paginate returns the page of items selected by raw.
func Paginate[T any](items []T, size int, raw string) Page[T] {
	w := NewWindow(len(items), size, raw)
	return Page[T]{
		Items:  items[w.Offset : w.Offset+w.Limit],
		Window: w,
	}
}

// FromWindow wraps items that were already sliced by the store.
func FromWindow[T any](w Window, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Window: w}
}
