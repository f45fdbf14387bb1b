package biz

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/changas-app/changas-backend/internal/pkg/errors"
)

// Sortable fields. Anything else sorts last regardless of direction.
const (
	SortByCreatedAt = "createdAt"
	SortByPrice     = "price"
	SortByStartDate = "startDate"
	SortByViews     = "views"
)

// Sort orders
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// SearchFilters carries one optional predicate per field. A nil pointer
// (or empty Tags slice) means no constraint on that dimension, so zero
// values like a 0 price or an empty string remain expressible filters.
//
// The json tags double as the cache key layout: encoding/json emits
// struct fields in declaration order, so equal filter values always
// serialize to the same key.
type SearchFilters struct {
	Query             *string    `json:"query,omitempty"`
	Category          *string    `json:"category,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	MinPrice          *float64   `json:"minPrice,omitempty"`
	MaxPrice          *float64   `json:"maxPrice,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	MaxDistance       *float64   `json:"maxDistance,omitempty"`
	RemoteOk          *bool      `json:"remoteOk,omitempty"`
	Urgency           *string    `json:"urgency,omitempty"`
	ExperienceLevel   *string    `json:"experienceLevel,omitempty"`
	MaterialsProvided *bool      `json:"materialsProvided,omitempty"`
	StartDateFrom     *time.Time `json:"startDateFrom,omitempty"`
	StartDateTo       *time.Time `json:"startDateTo,omitempty"`
	SortBy            string     `json:"sortBy,omitempty"`
	SortOrder         string     `json:"sortOrder,omitempty"`
	Page              int        `json:"page"`
	Limit             int        `json:"limit"`
}

// canonical returns the filters with the tag set sorted and
// deduplicated, so equal sets serialize to equal cache keys regardless
// of argument order. The receiver is never mutated.
func (f *SearchFilters) canonical() *SearchFilters {
	if len(f.Tags) < 2 {
		return f
	}
	tags := append([]string(nil), f.Tags...)
	sort.Strings(tags)
	dedup := tags[:1]
	for _, tag := range tags[1:] {
		if tag != dedup[len(dedup)-1] {
			dedup = append(dedup, tag)
		}
	}
	cp := *f
	cp.Tags = dedup
	return &cp
}

// HasGeo reports whether all three geo fields are present. A partial geo
// filter is treated as absent.
func (f *SearchFilters) HasGeo() bool {
	return f.Latitude != nil && f.Longitude != nil && f.MaxDistance != nil
}

// Validate checks the domain constraints on pagination. Out-of-range
// values are rejected, never clamped, so callers get deterministic
// feedback.
func (f *SearchFilters) Validate(maxLimit int) error {
	if f.Page < 1 {
		return apperrors.New(apperrors.ErrSearchInvalidPage, fmt.Sprintf("got %d", f.Page))
	}
	if f.Limit < 1 || f.Limit > maxLimit {
		return apperrors.New(apperrors.ErrSearchInvalidLimit, fmt.Sprintf("got %d, must be 1..%d", f.Limit, maxLimit))
	}
	return nil
}

// SearchResult is one page of filtered jobs plus the pre-pagination total.
type SearchResult struct {
	Items []*Job `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}
