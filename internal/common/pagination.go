package common

import (
	"net/http"
	"strconv"
)

// maxPerPage caps client-supplied page sizes regardless of endpoint defaults.
const maxPerPage = 100

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// TotalPages derives the page count from the item total.
func (p Pagination) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.TotalItems + p.PerPage - 1) / p.PerPage
}

// ParsePagination extracts page and limit query parameters, falling back to
// page 1 and the endpoint default. Values above the global cap are clamped.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		perPage = l
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return
}
