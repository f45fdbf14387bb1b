package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/changas-app/changas-backend/internal/pkg/cache"
	apperrors "github.com/changas-app/changas-backend/internal/pkg/errors"
	"github.com/changas-app/changas-backend/internal/pkg/geo"
)

// Config tunes the search use case. Zero values fall back to the
// defaults below.
type Config struct {
	SearchTTL     time.Duration // job search result cache
	AggregateTTL  time.Duration // tag/category/suggestion caches
	CacheCapacity int
	DefaultLimit  int // aggregate/suggestion limit when the caller passes none
	MaxLimit      int // page size ceiling
}

const (
	defaultSearchTTL    = 5 * time.Minute
	defaultAggregateTTL = 15 * time.Minute
	defaultLimit        = 10
	defaultMaxLimit     = 100
)

func (c Config) withDefaults() Config {
	if c.SearchTTL <= 0 {
		c.SearchTTL = defaultSearchTTL
	}
	if c.AggregateTTL <= 0 {
		c.AggregateTTL = defaultAggregateTTL
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = defaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = defaultMaxLimit
	}
	return c
}

// SearchUseCase contains the search, aggregation and suggestion logic
// over the open job collection. All read paths go through process-local
// TTL caches, so results can lag job mutations by at most the TTL; the
// caches are an optimization only and never a correctness dependency.
type SearchUseCase struct {
	repo        JobRepo
	cfg         Config
	results     *cache.Cache[*SearchResult]
	tags        *cache.Cache[[]TagCount]
	categories  *cache.Cache[[]CategoryCount]
	suggestions *cache.Cache[[]string]
	logger      *zap.Logger
}

// NewSearchUseCase creates the use case. The clock is injected into the
// caches so tests can control expiry; pass nil for time.Now.
func NewSearchUseCase(repo JobRepo, cfg Config, clock cache.Clock, logger *zap.Logger) *SearchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	return &SearchUseCase{
		repo:        repo,
		cfg:         cfg,
		results:     cache.New[*SearchResult](cfg.CacheCapacity, clock),
		tags:        cache.New[[]TagCount](cfg.CacheCapacity, clock),
		categories:  cache.New[[]CategoryCount](cfg.CacheCapacity, clock),
		suggestions: cache.New[[]string](cfg.CacheCapacity, clock),
		logger:      logger,
	}
}

// DefaultLimit exposes the configured default page size to the boundary layer.
func (uc *SearchUseCase) DefaultLimit() int {
	return uc.cfg.DefaultLimit
}

// SearchJobs runs a filtered, sorted, paginated search over open jobs.
// Structural predicates are pushed to the repo; location and geo
// predicates are applied here as post-filters because they need per-job
// text normalization and haversine math.
func (uc *SearchUseCase) SearchJobs(ctx context.Context, filters *SearchFilters) (*SearchResult, error) {
	if err := filters.Validate(uc.cfg.MaxLimit); err != nil {
		return nil, err
	}
	filters = filters.canonical()

	key := cacheKey("jobs", filters)
	if res, ok := uc.results.Get(key); ok {
		uc.logger.Debug("job search cache hit", zap.String("key", key))
		return res, nil
	}

	jobs, err := uc.repo.FindOpen(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to fetch jobs", zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrSearchDataSource)
	}

	jobs = filterByLocation(jobs, filters)
	jobs = filterByDistance(jobs, filters)

	total := len(jobs)
	sortJobs(jobs, filters.SortBy, filters.SortOrder)

	res := &SearchResult{
		Items: pageSlice(jobs, filters.Page, filters.Limit),
		Total: total,
		Page:  filters.Page,
		Limit: filters.Limit,
		Pages: (total + filters.Limit - 1) / filters.Limit,
	}

	uc.results.Set(key, res, uc.cfg.SearchTTL)
	return res, nil
}

// filterByLocation keeps jobs whose normalized location contains the
// normalized filter location. No-op when the filter is absent.
func filterByLocation(jobs []*Job, f *SearchFilters) []*Job {
	if f.Location == nil {
		return jobs
	}
	needle := NormalizeLocation(*f.Location)

	matched := make([]*Job, 0, len(jobs))
	for _, j := range jobs {
		if strings.Contains(NormalizeLocation(j.Location), needle) {
			matched = append(matched, j)
		}
	}
	return matched
}

// filterByDistance keeps jobs within MaxDistance km of the filter
// coordinates. Jobs without coordinates are excluded while a geo filter
// is active; the boundary itself is inclusive.
func filterByDistance(jobs []*Job, f *SearchFilters) []*Job {
	if !f.HasGeo() {
		return jobs
	}

	matched := make([]*Job, 0, len(jobs))
	for _, j := range jobs {
		if !j.HasCoordinates() {
			continue
		}
		if geo.DistanceKm(*f.Latitude, *f.Longitude, *j.Latitude, *j.Longitude) <= *f.MaxDistance {
			matched = append(matched, j)
		}
	}
	return matched
}

// sortJobs orders jobs by the given field and direction. Jobs without a
// value for the sort field go last regardless of direction; an unknown
// sort field leaves the repo order untouched (stable sort, no values).
func sortJobs(jobs []*Job, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	desc := sortOrder != SortOrderAsc

	sort.SliceStable(jobs, func(i, j int) bool {
		a, aOK := sortValue(jobs[i], sortBy)
		b, bOK := sortValue(jobs[j], sortBy)
		if aOK != bOK {
			return aOK
		}
		if !aOK {
			return false
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

func sortValue(j *Job, sortBy string) (float64, bool) {
	switch sortBy {
	case SortByCreatedAt:
		return float64(j.CreatedAt.UnixNano()), true
	case SortByPrice:
		return j.Price, true
	case SortByStartDate:
		if j.StartDate.IsZero() {
			return 0, false
		}
		return float64(j.StartDate.UnixNano()), true
	case SortByViews:
		return float64(j.Views), true
	}
	return 0, false
}

func pageSlice(jobs []*Job, page, limit int) []*Job {
	start := (page - 1) * limit
	if start >= len(jobs) {
		return []*Job{}
	}
	end := start + limit
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[start:end]
}

// cacheKey hashes the full request so semantically identical requests
// map to the same entry.
func cacheKey(prefix string, v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return prefix
	}
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
