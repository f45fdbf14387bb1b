package biz

import (
	"context"
	"time"
)

// Job statuses. Only open jobs are searchable.
const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Urgency levels
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Experience levels
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceExpert       = "expert"
)

// Job represents the domain model. The search engine never mutates it.
type Job struct {
	ID                string
	Title             string
	Summary           string
	Description       string
	Category          string
	Tags              []string
	Price             float64
	Location          string
	Latitude          *float64
	Longitude         *float64
	RemoteOk          bool
	Urgency           string
	ExperienceLevel   string
	MaterialsProvided bool
	StartDate         time.Time
	Status            string
	Views             int64
	CreatedAt         time.Time
}

// HasCoordinates reports whether the job carries a full coordinate pair.
func (j *Job) HasCoordinates() bool {
	return j.Latitude != nil && j.Longitude != nil
}

// TagCount is a tag with its occurrence count across open jobs.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CategoryCount is a category with its open-job count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// JobRepo defines the interface for job data operations. Implementations
// apply the structural predicates of SearchFilters at the data source;
// location and geo filtering happen in the use case afterwards.
type JobRepo interface {
	// FindOpen returns all open jobs matching the structural predicates
	// of the given filters, unsorted and unpaginated.
	FindOpen(ctx context.Context, filters *SearchFilters) ([]*Job, error)
	// ListOpen returns all open jobs.
	ListOpen(ctx context.Context) ([]*Job, error)
	// CountByCategory returns open-job counts per category, descending
	// by count with category name as tie break.
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
}
