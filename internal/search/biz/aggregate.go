package biz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/changas-app/changas-backend/internal/pkg/errors"
)

// minSuggestionQueryLen is the shortest query that produces suggestions.
// Shorter queries return an empty slice without touching cache or repo.
const minSuggestionQueryLen = 2

// PopularTags returns the most used tags across open jobs, descending by
// count with tag name ascending as tie break.
func (uc *SearchUseCase) PopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	if limit <= 0 {
		limit = uc.cfg.DefaultLimit
	}

	key := fmt.Sprintf("tags:%d", limit)
	if counts, ok := uc.tags.Get(key); ok {
		uc.logger.Debug("popular tags cache hit", zap.String("key", key))
		return counts, nil
	}

	jobs, err := uc.repo.ListOpen(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch jobs for tag counts", zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrSearchDataSource)
	}

	byTag := make(map[string]int)
	for _, j := range jobs {
		for _, tag := range j.Tags {
			byTag[tag]++
		}
	}

	counts := make([]TagCount, 0, len(byTag))
	for tag, count := range byTag {
		counts = append(counts, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}

	uc.tags.Set(key, counts, uc.cfg.AggregateTTL)
	return counts, nil
}

// Categories returns open-job counts per category, descending, untruncated.
func (uc *SearchUseCase) Categories(ctx context.Context) ([]CategoryCount, error) {
	const key = "categories"
	if counts, ok := uc.categories.Get(key); ok {
		uc.logger.Debug("categories cache hit")
		return counts, nil
	}

	counts, err := uc.repo.CountByCategory(ctx)
	if err != nil {
		uc.logger.Error("failed to count categories", zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrSearchDataSource)
	}

	uc.categories.Set(key, counts, uc.cfg.AggregateTTL)
	return counts, nil
}

// Suggestions returns up to limit distinct titles, categories and tags of
// open jobs containing the query, case-insensitively, in insertion order.
func (uc *SearchUseCase) Suggestions(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = uc.cfg.DefaultLimit
	}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSuggestionQueryLen {
		return []string{}, nil
	}

	needle := strings.ToLower(query)
	key := fmt.Sprintf("suggestions:%s:%d", needle, limit)
	if matches, ok := uc.suggestions.Get(key); ok {
		uc.logger.Debug("suggestions cache hit", zap.String("key", key))
		return matches, nil
	}

	jobs, err := uc.repo.ListOpen(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch jobs for suggestions", zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrSearchDataSource)
	}

	seen := make(map[string]struct{})
	matches := make([]string, 0, limit)
	add := func(candidate string) {
		if len(matches) >= limit {
			return
		}
		lower := strings.ToLower(candidate)
		if !strings.Contains(lower, needle) {
			return
		}
		if _, dup := seen[lower]; dup {
			return
		}
		seen[lower] = struct{}{}
		matches = append(matches, candidate)
	}

	for _, j := range jobs {
		if len(matches) >= limit {
			break
		}
		add(j.Title)
		add(j.Category)
		for _, tag := range j.Tags {
			add(tag)
		}
	}

	uc.suggestions.Set(key, matches, uc.cfg.AggregateTTL)
	return matches, nil
}
