package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/changas-app/changas-backend/internal/search/biz"
)

// TagsJSON stores the tag set as a JSONB column.
type TagsJSON []string

func (t *TagsJSON) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("tags column is not a byte slice")
	}
	return json.Unmarshal(bytes, t)
}

func (t TagsJSON) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// JobPO represents the database model
type JobPO struct {
	ID                string   `gorm:"type:uuid;primarykey"`
	Title             string   `gorm:"size:200;not null"`
	Summary           string   `gorm:"size:500"`
	Description       string   `gorm:"type:text"`
	Category          string   `gorm:"size:100;not null;index"`
	Tags              TagsJSON `gorm:"type:jsonb"`
	Price             float64  `gorm:"not null"`
	Location          string   `gorm:"size:255"`
	Latitude          *float64
	Longitude         *float64
	RemoteOk          bool   `gorm:"not null;default:false"`
	Urgency           string `gorm:"size:20;not null;default:'medium'"`
	ExperienceLevel   string `gorm:"size:20"`
	MaterialsProvided bool   `gorm:"not null;default:false"`
	StartDate         time.Time
	Status            string `gorm:"size:20;not null;default:'open';index"`
	Views             int64  `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (JobPO) TableName() string {
	return "jobs"
}

// JobRepo implements biz.JobRepo
type JobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) biz.JobRepo {
	return &JobRepo{db: db}
}

// FindOpen applies the structural predicates of the filters as SQL. The
// location and geo fields are deliberately ignored here: they need
// per-row text normalization and haversine math, which the use case
// applies after the fetch.
func (r *JobRepo) FindOpen(ctx context.Context, f *biz.SearchFilters) ([]*biz.Job, error) {
	q := r.db.WithContext(ctx).Model(&JobPO{}).Where("status = ?", biz.StatusOpen)

	if f.Query != nil {
		pattern := "%" + escapeLike(*f.Query) + "%"
		q = q.Where("title ILIKE ? ESCAPE '\\' OR summary ILIKE ? ESCAPE '\\' OR description ILIKE ? ESCAPE '\\'",
			pattern, pattern, pattern)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if len(f.Tags) > 0 {
		// Overlap: a job matches if it carries at least one requested tag.
		tagQ := r.db.Where("tags @> ?", tagJSON(f.Tags[0]))
		for _, tag := range f.Tags[1:] {
			tagQ = tagQ.Or("tags @> ?", tagJSON(tag))
		}
		q = q.Where(tagQ)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.RemoteOk != nil {
		q = q.Where("remote_ok = ?", *f.RemoteOk)
	}
	if f.Urgency != nil {
		q = q.Where("urgency = ?", *f.Urgency)
	}
	if f.ExperienceLevel != nil {
		q = q.Where("experience_level = ?", *f.ExperienceLevel)
	}
	if f.MaterialsProvided != nil {
		q = q.Where("materials_provided = ?", *f.MaterialsProvided)
	}
	if f.StartDateFrom != nil {
		q = q.Where("start_date >= ?", *f.StartDateFrom)
	}
	if f.StartDateTo != nil {
		q = q.Where("start_date <= ?", *f.StartDateTo)
	}

	var pos []JobPO
	if err := q.Find(&pos).Error; err != nil {
		return nil, err
	}
	return toJobs(pos), nil
}

func (r *JobRepo) ListOpen(ctx context.Context) ([]*biz.Job, error) {
	var pos []JobPO
	if err := r.db.WithContext(ctx).Where("status = ?", biz.StatusOpen).Find(&pos).Error; err != nil {
		return nil, err
	}
	return toJobs(pos), nil
}

func (r *JobRepo) CountByCategory(ctx context.Context) ([]biz.CategoryCount, error) {
	var counts []biz.CategoryCount
	err := r.db.WithContext(ctx).Model(&JobPO{}).
		Select("category, count(*) as count").
		Where("status = ?", biz.StatusOpen).
		Group("category").
		Order("count DESC, category ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// likeEscaper neutralizes the LIKE metacharacters so a search query
// matches as a literal substring instead of a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// tagJSON renders a single tag as a JSON array for the @> containment check.
func tagJSON(tag string) string {
	b, _ := json.Marshal([]string{tag})
	return string(b)
}

func toJobs(pos []JobPO) []*biz.Job {
	jobs := make([]*biz.Job, len(pos))
	for i := range pos {
		jobs[i] = toJob(&pos[i])
	}
	return jobs
}

func toJob(po *JobPO) *biz.Job {
	return &biz.Job{
		ID:                po.ID,
		Title:             po.Title,
		Summary:           po.Summary,
		Description:       po.Description,
		Category:          po.Category,
		Tags:              po.Tags,
		Price:             po.Price,
		Location:          po.Location,
		Latitude:          po.Latitude,
		Longitude:         po.Longitude,
		RemoteOk:          po.RemoteOk,
		Urgency:           po.Urgency,
		ExperienceLevel:   po.ExperienceLevel,
		MaterialsProvided: po.MaterialsProvided,
		StartDate:         po.StartDate,
		Status:            po.Status,
		Views:             po.Views,
		CreatedAt:         po.CreatedAt,
	}
}
