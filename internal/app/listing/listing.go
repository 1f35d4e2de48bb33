// Package listing implements the list view shared by every entity: search
// across a few text fields, exact-match filters, date ordering and optional
// pagination over a fully fetched collection.
package listing

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/pkg/helpers"
)

// FilterAll disables a filter
const FilterAll = "All"

// Field reads one text field of an item
type Field[T any] func(T) string

// Spec describes how a list of T is searched, filtered and ordered
type Spec[T any] struct {
	// Keep drops items before any user criteria apply
	Keep         func(T) bool
	SearchFields []Field[T]
	Filters      map[string]Field[T]
	// SortKey orders items by a date-like string; nil keeps store order
	SortKey    Field[T]
	Descending bool
}

// Query holds the user criteria of a list request
type Query struct {
	Search  string
	Filters map[string]string
	Page    int
	Size    int
}

// Result is a filtered list, paginated when a page was requested
type Result[T any] struct {
	Items      []T                `json:"items"`
	Pagination *dto.PaginationInfo `json:"pagination,omitempty"`
}

// Matches reports whether item passes the search term and the filters
func (s Spec[T]) Matches(item T, q Query) bool {
	if s.Keep != nil && !s.Keep(item) {
		return false
	}
	for key, want := range q.Filters {
		field, ok := s.Filters[key]
		if !ok || want == "" || want == FilterAll {
			continue
		}
		if !strings.EqualFold(field(item), want) {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	for _, field := range s.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

// Filter applies the spec to items and returns the ordered matches
func (s Spec[T]) Filter(items []T, q Query) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if s.Matches(item, q) {
			out = append(out, item)
		}
	}
	if s.SortKey != nil {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := s.SortKey(out[i]), s.SortKey(out[j])
			if s.Descending {
				return a > b
			}
			return a < b
		})
	}
	return out
}

// Apply filters items and paginates the matches when q.Page is set
func (s Spec[T]) Apply(items []T, q Query) Result[T] {
	filtered := s.Filter(items, q)
	if q.Page <= 0 {
		return Result[T]{Items: filtered}
	}
	start, end := helpers.CalculateSliceIndices(q.Page, q.Size, len(filtered))
	if end > len(filtered) {
		end = len(filtered)
	}
	info := helpers.NewPaginationInfo(int64(len(filtered)), q.Page, q.Size)
	return Result[T]{Items: filtered[start:end], Pagination: &info}
}

// Distinct returns the sorted non-empty values of field across items
func Distinct[T any](items []T, field Field[T]) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		v := strings.TrimSpace(field(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ParseQuery reads search, filters and pagination from the request.
// Pagination applies only when the page parameter is present.
func ParseQuery(c *gin.Context, filterKeys ...string) Query {
	q := Query{
		Search:  c.Query("search"),
		Filters: make(map[string]string, len(filterKeys)),
	}
	for _, key := range filterKeys {
		if v := c.Query(key); v != "" {
			q.Filters[key] = v
		}
	}
	if _, ok := c.GetQuery("page"); ok {
		q.Page, q.Size = helpers.ParsePaginationParams(c)
	}
	return q
}
