package service

import (
	"strings"

	"voucher_market/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PageQuery is the raw paging input of a list request
type PageQuery struct {
	Limit   int
	Offset  int
	SortBy  string
	SortDir string
}

// page clamps q into a repository.Page; unknown sort columns become def
func (q PageQuery) page(allowed func(string) bool, def string) repository.Page {
	p := repository.Page{Limit: q.Limit, Offset: q.Offset, SortBy: strings.ToLower(strings.TrimSpace(q.SortBy))}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if !allowed(p.SortBy) {
		p.SortBy = def
	}
	p.Asc = strings.EqualFold(q.SortDir, "asc")
	return p
}

// Bounds returns the limit and offset a list call will actually apply
func (q PageQuery) Bounds() (limit, offset int) {
	p := q.page(func(string) bool { return true }, "")
	return p.Limit, p.Offset
}
