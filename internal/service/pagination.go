package service

import (
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts shown on every listing page.
const DefaultPageSize = 6

// Page describes one slice of an ordered result set.
type Page struct {
	Number   int
	PerPage  int
	Total    int64
	NumPages int
}

// NewPage clamps the requested page number into [1, NumPages]. An empty
// result set still has one (empty) page.
func NewPage(requested, perPage int, total int64) Page {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{Number: number, PerPage: perPage, Total: total, NumPages: numPages}
}

// ParsePageNumber reads the "page" query value. Anything that is not a
// positive integer selects the first page.
func ParsePageNumber(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 1
	}
	return value
}

// Offset is the index of the first row on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p Page) NextPageNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p Page) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// Range lists every page number, for numbered pagination links.
func (p Page) Range() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
