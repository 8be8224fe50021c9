package paging

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100

	// MaxPage keeps (Page-1)*Limit inside an int32 offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

type Page struct {
	Page  int
	Limit int
}

// Parse reads raw page/limit query values, falling back to defaults for
// anything missing, non-numeric or out of range.
func Parse(rawPage, rawLimit string, defaultLimit int) Page {
	p := Page{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(rawPage); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(rawLimit); err == nil && n > 0 {
		p.Limit = n
	}
	return p.Normalize()
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewMeta(p Page, total int64) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
