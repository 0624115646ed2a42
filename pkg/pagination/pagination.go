package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/fra-atlas/atlas/pkg/query"
)

// SortFields accepts either "name,-created_at" or an array of SortField
// objects when decoded from JSON.
type SortFields []query.SortField

func (s *SortFields) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = query.ParseSortFields(str)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageRequest selects one page of a list with optional search and sorting.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize clamps Page to at least 1 and PageSize into [1, cfg.MaxPageSize],
// using cfg.DefaultPageSize when unset.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// Offset is the number of rows before the requested page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads page, page_size, search, and sort. The
// offset-style skip and limit parameters are also accepted: limit sets the
// page size and skip selects the page containing that row.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{
		Page:     atoi(values.Get("page")),
		PageSize: atoi(values.Get("page_size")),
		Sort:     query.ParseSortFields(values.Get("sort")),
	}

	if s := values.Get("search"); s != "" {
		req.Search = &s
	}

	if limit := atoi(values.Get("limit")); limit > 0 && req.PageSize == 0 {
		req.PageSize = limit
	}

	req.Normalize(cfg)

	if skip := atoi(values.Get("skip")); skip > 0 && values.Get("page") == "" {
		req.Page = skip/req.PageSize + 1
	}
	return req
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// PageResult is one page of Data plus the totals needed to page further.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult reports at least one page, and an empty non-nil Data slice
// when data is nil.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	pages := 1
	if pageSize > 0 {
		pages = max((total+pageSize-1)/pageSize, 1)
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}

// Slice pages an in-memory result set that is already filtered and ordered.
func Slice[T any](items []T, page PageRequest) PageResult[T] {
	total := len(items)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)
	return NewPageResult(items[start:end], total, page.Page, page.PageSize)
}
