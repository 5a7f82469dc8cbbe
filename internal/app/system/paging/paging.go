// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the client does not ask for one.
const DefaultLimit = 12

// ScopedLimit is the page size used for per-account listings, where callers
// expect to see everything they own without paging.
const ScopedLimit = 100

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// Page describes one requested window of a sorted listing.
type Page struct {
	Number    int    // 1-based page number
	Limit     int    // page size
	SortBy    string // field name, already mapped to a bson path by the store
	SortOrder int    // 1 ascending, -1 descending
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	return int64((p.Number - 1) * p.Limit)
}

// Pages returns the total page count for the given total row count, at least 1
// page-width granularity (0 rows yields 0 pages).
func (p Page) Pages(total int64) int {
	if total <= 0 {
		return 0
	}
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	return pages
}

// sortFields are the client-facing sort keys accepted by listing endpoints,
// mapped to their bson paths. Unknown keys fall back to created_at.
var sortFields = map[string]string{
	"createdAt":  "created_at",
	"title":      "title",
	"urgency":    "urgency",
	"startDate":  "schedule.start_date",
	"category":   "category",
	"volunteers": "volunteers_needed",
}

// Parse extracts page, limit, sortBy, and sortOrder query parameters with the
// listing defaults: page 1, limit 12, newest first.
func Parse(r *http.Request) Page {
	return ParseWithLimit(r, DefaultLimit)
}

// ParseWithLimit is Parse with a caller-chosen default page size. An explicit
// limit parameter still wins, capped at MaxLimit.
func ParseWithLimit(r *http.Request, defaultLimit int) Page {
	p := Page{
		Number:    1,
		Limit:     defaultLimit,
		SortBy:    "created_at",
		SortOrder: -1,
	}

	if raw := query.Get(r, "page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			p.Number = n
		}
	}
	if raw := query.Get(r, "limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			if n > MaxLimit {
				n = MaxLimit
			}
			p.Limit = n
		}
	}
	if raw := query.Get(r, "sortBy"); raw != "" {
		if field, ok := sortFields[raw]; ok {
			p.SortBy = field
		}
	}
	if strings.EqualFold(query.Get(r, "sortOrder"), "asc") {
		p.SortOrder = 1
	}

	return p
}
