package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/changas-app/changas-backend/internal/pkg/response"
	"github.com/changas-app/changas-backend/internal/search/biz"
)

type SearchService struct {
	uc     *biz.SearchUseCase
	logger *zap.Logger
}

func NewSearchService(uc *biz.SearchUseCase, logger *zap.Logger) *SearchService {
	return &SearchService{
		uc:     uc,
		logger: logger,
	}
}

// JobResponse mirrors the domain job on the wire.
type JobResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Tags              []string `json:"tags"`
	Price             float64  `json:"price"`
	Location          string   `json:"location"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	RemoteOk          bool     `json:"remote_ok"`
	Urgency           string   `json:"urgency"`
	ExperienceLevel   string   `json:"experience_level"`
	MaterialsProvided bool     `json:"materials_provided"`
	StartDate         string   `json:"start_date"`
	Views             int64    `json:"views"`
	CreatedAt         string   `json:"created_at"`
}

// SearchJobs handles GET /search/jobs. All numeric, boolean and date
// parameters are parsed here; the use case only ever sees typed filters.
func (s *SearchService) SearchJobs(c *gin.Context) {
	filters, err := s.parseFilters(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := s.uc.SearchJobs(c.Request.Context(), filters)
	if err != nil {
		s.logger.Error("job search failed", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	items := make([]*JobResponse, len(result.Items))
	for i, job := range result.Items {
		items[i] = toJobResponse(job)
	}

	response.Paginated(c, items, response.Pagination{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
		Pages: result.Pages,
	})
}

// PopularTags handles GET /search/tags
func (s *SearchService) PopularTags(c *gin.Context) {
	limit, err := queryInt(c, "limit", s.uc.DefaultLimit())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	counts, err := s.uc.PopularTags(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("popular tags failed", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, counts)
}

// Categories handles GET /search/categories
func (s *SearchService) Categories(c *gin.Context) {
	counts, err := s.uc.Categories(c.Request.Context())
	if err != nil {
		s.logger.Error("category counts failed", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, counts)
}

// Suggestions handles GET /search/suggestions. An absent query returns
// an empty list immediately without touching the cache or data source.
func (s *SearchService) Suggestions(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Success(c, []string{})
		return
	}

	limit, err := queryInt(c, "limit", s.uc.DefaultLimit())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	matches, err := s.uc.Suggestions(c.Request.Context(), query, limit)
	if err != nil {
		s.logger.Error("suggestions failed", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, matches)
}

func (s *SearchService) parseFilters(c *gin.Context) (*biz.SearchFilters, error) {
	f := &biz.SearchFilters{
		SortBy: c.Query("sortBy"),
		// Direction is case-insensitive on the wire.
		SortOrder: strings.ToLower(c.Query("sortOrder")),
	}

	f.Query = queryString(c, "query")
	f.Category = queryString(c, "category")
	f.Location = queryString(c, "location")
	f.Urgency = queryString(c, "urgency")
	f.ExperienceLevel = queryString(c, "experienceLevel")
	f.Tags = queryTags(c)

	var err error
	if f.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return nil, err
	}
	if f.Latitude, err = queryFloat(c, "latitude"); err != nil {
		return nil, err
	}
	if f.Longitude, err = queryFloat(c, "longitude"); err != nil {
		return nil, err
	}
	if f.MaxDistance, err = queryFloat(c, "maxDistance"); err != nil {
		return nil, err
	}
	if f.RemoteOk, err = queryBool(c, "remoteOk"); err != nil {
		return nil, err
	}
	if f.MaterialsProvided, err = queryBool(c, "materialsProvided"); err != nil {
		return nil, err
	}
	if f.StartDateFrom, err = queryTime(c, "startDateFrom"); err != nil {
		return nil, err
	}
	if f.StartDateTo, err = queryTime(c, "startDateTo"); err != nil {
		return nil, err
	}
	if f.Page, err = queryInt(c, "page", 1); err != nil {
		return nil, err
	}
	if f.Limit, err = queryInt(c, "limit", s.uc.DefaultLimit()); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *SearchService) RegisterRoutes(r *gin.RouterGroup) {
	search := r.Group("/search")
	{
		search.GET("/jobs", s.SearchJobs)
		search.GET("/tags", s.PopularTags)
		search.GET("/categories", s.Categories)
		search.GET("/suggestions", s.Suggestions)
	}
}

func toJobResponse(job *biz.Job) *JobResponse {
	return &JobResponse{
		ID:                job.ID,
		Title:             job.Title,
		Summary:           job.Summary,
		Description:       job.Description,
		Category:          job.Category,
		Tags:              job.Tags,
		Price:             job.Price,
		Location:          job.Location,
		Latitude:          job.Latitude,
		Longitude:         job.Longitude,
		RemoteOk:          job.RemoteOk,
		Urgency:           job.Urgency,
		ExperienceLevel:   job.ExperienceLevel,
		MaterialsProvided: job.MaterialsProvided,
		StartDate:         job.StartDate.Format(time.RFC3339),
		Views:             job.Views,
		CreatedAt:         job.CreatedAt.Format(time.RFC3339),
	}
}

func queryString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

// queryTags accepts a repeated tags param, comma-separated values, or both.
func queryTags(c *gin.Context) []string {
	var tags []string
	for _, raw := range c.QueryArray("tags") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &parsed, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &parsed, nil
}

func queryTime(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// Date-only form is accepted as midnight UTC.
		parsed, err = time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", name, v)
		}
	}
	return &parsed, nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return parsed, nil
}
