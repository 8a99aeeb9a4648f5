package service

import (
	"context"

	"building_scheduler/internal/logger"
	"building_scheduler/internal/metrics"
	"building_scheduler/internal/models"
	"building_scheduler/internal/repository"
)

// changeRecorder counts every mutation attempt and journals the committed ones.
// A journal failure is logged and never undoes the mutation.
type changeRecorder struct {
	journal repository.Journal
	log     *logger.Logger
}

func newChangeRecorder(journal repository.Journal, log *logger.Logger) *changeRecorder {
	return &changeRecorder{journal: journal, log: logger.OrNop(log)}
}

func (r *changeRecorder) record(ctx context.Context, typ, schedule, description string, meta map[string]string, err error) {
	metrics.IncMutation(typ, err)
	if err != nil || r == nil || r.journal == nil {
		return
	}
	entry := models.ChangeEntry{Type: typ, Schedule: schedule, Description: description}
	if len(meta) > 0 {
		entry.Metadata = meta
	}
	if jerr := r.journal.Append(ctx, entry); jerr != nil {
		r.log.Warnw("journal_append_failed", "type", typ, "schedule", schedule, "err", jerr)
	}
}

// reportIssues logs every skipped record and counts them under operation.
func reportIssues(log *logger.Logger, operation string, issues []models.RecordIssue) {
	for _, is := range issues {
		log.Warnw("record_skipped",
			"operation", operation,
			"schedule", is.Schedule,
			"zone", is.Zone,
			"event", is.Event,
			"reason", is.Reason,
		)
	}
	metrics.AddSkipped(operation, len(issues))
}
