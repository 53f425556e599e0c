// Package paginate splits a counted result set into fixed-size pages.
//
// Page lookups from user input are lenient: a missing or malformed number
// selects the first page and an out of range number selects the last one,
// so a listing never answers with an empty trailing page or an error.
package paginate

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNotAnInteger = errors.New("page number is not an integer")
	ErrEmptyPage    = errors.New("page number is out of range")
)

type Paginator struct {
	count   int64
	perPage int
}

// New panics on a non-positive perPage since that is a configuration bug.
func New(count int64, perPage int) *Paginator {
	if perPage < 1 {
		panic("paginate: perPage must be positive")
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{count: count, perPage: perPage}
}

func (p *Paginator) Count() int64 { return p.count }

func (p *Paginator) PerPage() int { return p.perPage }

// NumPages is never less than one; an empty result still has an empty first page.
func (p *Paginator) NumPages() int {
	if p.count == 0 {
		return 1
	}
	return int((p.count + int64(p.perPage) - 1) / int64(p.perPage))
}

// Page returns page number n or an error if it does not exist.
func (p *Paginator) Page(n int) (Page, error) {
	if n < 1 || n > p.NumPages() {
		return Page{}, ErrEmptyPage
	}
	return p.page(n), nil
}

// Parse validates a raw page parameter.
func (p *Paginator) Parse(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// 超出 int 范围的整数仍是整数，只是页码越界
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrEmptyPage
		}
		return 0, ErrNotAnInteger
	}
	if n < 1 || n > p.NumPages() {
		return 0, ErrEmptyPage
	}
	return n, nil
}

// GetPage never fails: non-integers give page 1, out of range gives the last page.
func (p *Paginator) GetPage(raw string) Page {
	n, err := p.Parse(raw)
	switch {
	case errors.Is(err, ErrNotAnInteger):
		n = 1
	case errors.Is(err, ErrEmptyPage):
		n = p.NumPages()
	}
	return p.page(n)
}

func (p *Paginator) page(n int) Page {
	return Page{Number: n, paginator: p}
}

type Page struct {
	Number    int
	paginator *Paginator
}

func (pg Page) NumPages() int { return pg.paginator.NumPages() }

func (pg Page) Count() int64 { return pg.paginator.count }

// Offset is the number of items before this page.
func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.paginator.perPage
}

// Len is the number of items on this page.
func (pg Page) Len() int {
	remaining := pg.paginator.count - int64(pg.Offset())
	if remaining <= 0 {
		return 0
	}
	if remaining > int64(pg.paginator.perPage) {
		return pg.paginator.perPage
	}
	return int(remaining)
}

// Limit is the page size to request from the store.
func (pg Page) Limit() int { return pg.paginator.perPage }

func (pg Page) HasNext() bool { return pg.Number < pg.NumPages() }

func (pg Page) HasPrevious() bool { return pg.Number > 1 }

func (pg Page) HasOtherPages() bool { return pg.HasNext() || pg.HasPrevious() }

func (pg Page) NextNumber() int { return pg.Number + 1 }

func (pg Page) PreviousNumber() int { return pg.Number - 1 }

// StartIndex is the 1-based index of the first item on the page, 0 if empty.
func (pg Page) StartIndex() int {
	if pg.paginator.count == 0 {
		return 0
	}
	return pg.Offset() + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (pg Page) EndIndex() int {
	return pg.Offset() + pg.Len()
}

// PageRange lists every page number, for rendering a pager.
func (pg Page) PageRange() []int {
	out := make([]int, pg.NumPages())
	for i := range out {
		out[i] = i + 1
	}
	return out
}
