package service

import (
	"context"
	"strings"
	"time"

	"building_scheduler/internal/models"
	"building_scheduler/internal/repository"
)

type JournalService struct {
	repo repository.Journal
}

func NewJournalService(repo repository.Journal) *JournalService {
	return &JournalService{repo: repo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeChangeType trims spaces and uppercases the change type filter.
func normalizeChangeType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f models.ChangeFilter) (models.ChangeFilter, error) {
	out := models.ChangeFilter{
		From:     normalizeToUTC(f.From),
		To:       normalizeToUTC(f.To),
		Type:     normalizeChangeType(f.Type),
		Schedule: strings.TrimSpace(f.Schedule),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return models.ChangeFilter{}, models.Invalid(models.ReasonInvalidTimeRange, "from must not be after to")
	}
	return out, nil
}

func (s *JournalService) ListChanges(ctx context.Context, f models.ChangeFilter) ([]models.ChangeEntry, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, nf)
}
