package service

import (
	"context"
	"fmt"
	"strings"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
)

// StatsService provides aggregate statistics. Every call reads the store;
// nothing is cached.
type StatsService interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}

type statsService struct {
	abstractRepo port.AbstractRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(abstractRepo port.AbstractRepository) StatsService {
	return &statsService{abstractRepo: abstractRepo}
}

func (s *statsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	abstracts, err := s.abstractRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("statsService.GetStats: %w", err)
	}
	return ComputeStats(abstracts), nil
}

// ComputeStats tallies abstracts by status, overall and per category. All four
// categories are always present in ByCategory.
func ComputeStats(abstracts []domain.Abstract) *domain.Stats {
	stats := &domain.Stats{ByCategory: make(map[domain.Category]domain.StatusCounts, len(domain.Categories))}
	for _, c := range domain.Categories {
		stats.ByCategory[c] = domain.StatusCounts{}
	}

	for i := range abstracts {
		a := &abstracts[i]
		tally(&stats.StatusCounts, a.Status)

		cat := ClassifyCategory(string(a.Category))
		counts := stats.ByCategory[cat]
		tally(&counts, a.Status)
		stats.ByCategory[cat] = counts
	}
	return stats
}

func tally(c *domain.StatusCounts, s domain.AbstractStatus) {
	c.Total++
	switch s {
	case domain.StatusPending:
		c.Pending++
	case domain.StatusApproved:
		c.Approved++
	case domain.StatusRejected:
		c.Rejected++
	case domain.StatusFinalSubmitted:
		c.FinalSubmitted++
	}
}

// ClassifyCategory buckets a stored category. Exact vocabulary values map to
// themselves; anything else falls back to a case-insensitive keyword match,
// defaulting to Free Paper.
func ClassifyCategory(raw string) domain.Category {
	trimmed := strings.TrimSpace(raw)
	for _, c := range domain.Categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c
		}
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "award"):
		return domain.CategoryAwardPaper
	case strings.Contains(lower, "e-poster"), strings.Contains(lower, "eposter"):
		return domain.CategoryEPoster
	case strings.Contains(lower, "poster"):
		return domain.CategoryPoster
	default:
		return domain.CategoryFreePaper
	}
}
