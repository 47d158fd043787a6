// Package paginator splits a counted result set into fixed-size pages.
package paginator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPage is returned by Paginator.Page for numbers outside
// 1..NumPages.
var ErrInvalidPage = errors.New("invalid page")

// Source is a lazily sliced result set.
type Source[T any] interface {
	Count() (int, error)
	Fetch(offset, limit int) ([]T, error)
}

// Paginator pages through a Source. The source is counted once, when the
// paginator is created.
type Paginator[T any] struct {
	source  Source[T]
	perPage int
	count   int
}

// New counts source and returns a paginator with perPage items per page.
func New[T any](source Source[T], perPage int) (*Paginator[T], error) {
	if perPage < 1 {
		return nil, fmt.Errorf("paginator: per page must be positive, got %d", perPage)
	}
	count, err := source.Count()
	if err != nil {
		return nil, fmt.Errorf("paginator: count: %w", err)
	}
	return &Paginator[T]{source: source, perPage: perPage, count: count}, nil
}

// Count is the total number of items.
func (p *Paginator[T]) Count() int { return p.count }

// PerPage is the page size.
func (p *Paginator[T]) PerPage() int { return p.perPage }

// NumPages is the number of pages. An empty source still has one (empty) page.
func (p *Paginator[T]) NumPages() int {
	if p.count == 0 {
		return 1
	}
	return (p.count + p.perPage - 1) / p.perPage
}

// Page returns page number n, 1-based.
func (p *Paginator[T]) Page(n int) (*Page[T], error) {
	if n < 1 || n > p.NumPages() {
		return nil, fmt.Errorf("page %d of %d: %w", n, p.NumPages(), ErrInvalidPage)
	}
	offset := (n - 1) * p.perPage
	items := []T{}
	if p.count > 0 {
		fetched, err := p.source.Fetch(offset, p.perPage)
		if err != nil {
			return nil, fmt.Errorf("paginator: fetch page %d: %w", n, err)
		}
		items = fetched
	}
	return &Page[T]{Items: items, Number: n, paginator: p}, nil
}

// GetPage resolves a raw page query value. Anything that is not an integer
// yields the first page, numbers out of range yield the last page.
func (p *Paginator[T]) GetPage(raw string) (*Page[T], error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = 1
	}
	if n < 1 || n > p.NumPages() {
		n = p.NumPages()
	}
	return p.Page(n)
}

// Page is one slice of the result set.
type Page[T any] struct {
	Items  []T
	Number int

	paginator *Paginator[T]
}

// Len is the number of items on the page.
func (pg *Page[T]) Len() int { return len(pg.Items) }

// NumPages is the total number of pages.
func (pg *Page[T]) NumPages() int { return pg.paginator.NumPages() }

// Count is the total number of items across all pages.
func (pg *Page[T]) Count() int { return pg.paginator.count }

func (pg *Page[T]) HasNext() bool     { return pg.Number < pg.NumPages() }
func (pg *Page[T]) HasPrevious() bool { return pg.Number > 1 }

func (pg *Page[T]) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg *Page[T]) NextPageNumber() int {
	if !pg.HasNext() {
		return pg.Number
	}
	return pg.Number + 1
}

func (pg *Page[T]) PreviousPageNumber() int {
	if !pg.HasPrevious() {
		return pg.Number
	}
	return pg.Number - 1
}

// StartIndex is the 1-based position of the first item on the page, 0 when
// the page is empty.
func (pg *Page[T]) StartIndex() int {
	if pg.paginator.count == 0 {
		return 0
	}
	return (pg.Number-1)*pg.paginator.perPage + 1
}

// EndIndex is the 1-based position of the last item on the page.
func (pg *Page[T]) EndIndex() int {
	if pg.Number == pg.NumPages() {
		return pg.paginator.count
	}
	return pg.Number * pg.paginator.perPage
}

// PageRange lists every page number, for rendering page links.
func (pg *Page[T]) PageRange() []int {
	pages := make([]int, pg.NumPages())
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// SliceSource serves a Source from an in-memory slice.
type SliceSource[T any] []T

func (s SliceSource[T]) Count() (int, error) { return len(s), nil }

func (s SliceSource[T]) Fetch(offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	return s[offset:end], nil
}
