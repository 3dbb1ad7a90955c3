// Package paginator splits an ordered result set into fixed-size pages.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// Paginator describes how Count items are split into pages of PerPage items.
type Paginator struct {
	Count   int64
	PerPage int
}

// New creates a paginator. A non-positive perPage is treated as 1.
func New(count int64, perPage int) *Paginator {
	if perPage <= 0 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages returns the number of pages. An empty result still has one page.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	perPage := int64(p.PerPage)
	return int((p.Count + perPage - 1) / perPage)
}

// Number resolves a raw page parameter to a valid page number.
// Values that are not integers select the first page; integers outside
// the valid range select the last page.
func (p *Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return p.NumPages()
	}
	if err != nil {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}
	return n
}

// Window returns the offset and limit of the given page number.
func (p *Paginator) Window(number int) (offset, limit int) {
	return (number - 1) * p.PerPage, p.PerPage
}

// Page is a single page of items.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

// NewPage wraps the items fetched for the given page number.
func NewPage[T any](p *Paginator, number int, items []T) *Page[T] {
	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: p.NumPages(),
		Count:    p.Count,
		PerPage:  p.PerPage,
	}
}

// Len returns the number of items on the page.
func (pg *Page[T]) Len() int {
	return len(pg.Items)
}

func (pg *Page[T]) HasNext() bool {
	return pg.Number < pg.NumPages
}

func (pg *Page[T]) HasPrevious() bool {
	return pg.Number > 1
}

func (pg *Page[T]) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg *Page[T]) NextPageNumber() int {
	return pg.Number + 1
}

func (pg *Page[T]) PreviousPageNumber() int {
	return pg.Number - 1
}

// StartIndex returns the 1-based index of the first item on the page.
func (pg *Page[T]) StartIndex() int {
	if pg.Count == 0 {
		return 0
	}
	return (pg.Number-1)*pg.PerPage + 1
}

// PageRange returns all page numbers, for rendering page links.
func (pg *Page[T]) PageRange() []int {
	pages := make([]int, pg.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
