package shared

import (
	"math"
	"net/http"
	"strconv"
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// PerPageCookie names the cookie remembering a caller's page size.
const PerPageCookie = "per_page"

// ResolvePerPage picks the page size for a listing request: an explicit
// per_page query parameter wins and is persisted in a cookie, an existing
// cookie comes next, and the configured default applies otherwise. The
// second return reports whether the cookie should be (re)set.
func ResolvePerPage(r *http.Request, fallback int) (int, bool) {
	if raw := r.URL.Query().Get(PerPageCookie); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v, true
		}
	}
	if c, err := r.Cookie(PerPageCookie); err == nil {
		if v, err := strconv.Atoi(c.Value); err == nil && v > 0 {
			return v, false
		}
	}
	if fallback <= 0 {
		fallback = 10
	}
	return fallback, false
}
