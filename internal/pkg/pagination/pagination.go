package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit far from int overflow
	MaxPage = 1_000_000
)

// Params carries page/limit/need_pagination query values
type Params struct {
	Page           int
	Limit          int
	NeedPagination bool
}

// Result is one page of items together with the total row count
type Result[T any] struct {
	Items      []T
	TotalItems int64
}

// FromQuery parses page, limit and need_pagination; bad values fall back to defaults
func FromQuery(q url.Values) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit, NeedPagination: true}

	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			p.Page = min(page, MaxPage)
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			p.Limit = min(limit, MaxLimit)
		}
	}
	if v := q.Get("need_pagination"); v != "" {
		if need, err := strconv.ParseBool(v); err == nil {
			p.NeedPagination = need
		}
	}
	return p
}

// Skip is the number of rows to skip
func (p Params) Skip() int {
	if !p.NeedPagination {
		return 0
	}
	page := min(max(p.Page, 1), MaxPage)
	return (page - 1) * min(max(p.Limit, 0), MaxLimit)
}

// QueryLimit is the row limit handed to the data layer; 0 means no limit
func (p Params) QueryLimit() int {
	if !p.NeedPagination {
		return 0
	}
	return p.Limit
}

// TotalPages for total rows
func (p Params) TotalPages(total int64) int {
	if !p.NeedPagination || p.Limit <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
