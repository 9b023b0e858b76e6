package services

import (
	"context"

	"github.com/voltprep/revision-service/internal/bank"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/utils"
)

// ProgressReport is the response for the report endpoint: the raw records
// plus the running-average series the chart draws.
type ProgressReport struct {
	Level   models.Level           `json:"level"`
	Topic   string                 `json:"topic,omitempty"`
	Records []models.AttemptRecord `json:"records"`
	Series  []progress.ReportPoint `json:"series"`
}

// ProgressService owns report building and the multi-key reset policy. The
// store resets one key at a time; clearing a whole level (history plus every
// topic's seen set and tallies) is this service's policy, not the store's.
type ProgressService struct {
	banks  *bank.Bank
	store  *progress.Store
	logger utils.Logger
}

func NewProgressService(banks *bank.Bank, store *progress.Store, logger utils.Logger) *ProgressService {
	return &ProgressService{banks: banks, store: store, logger: logger}
}

// Report returns the level's attempt history with its running-average series,
// optionally filtered to one topic.
func (s *ProgressService) Report(ctx context.Context, level models.Level, topic string) (*ProgressReport, error) {
	if !level.Valid() {
		return nil, ErrInvalidLevel
	}
	if topic != "" {
		if _, ok := s.banks.Topic(level, topic); !ok {
			return nil, ErrTopicNotFound
		}
	}

	records := s.store.History(ctx, level)
	if records == nil {
		records = []models.AttemptRecord{}
	}
	return &ProgressReport{
		Level:   level,
		Topic:   topic,
		Records: records,
		Series:  progress.BuildSeries(records, topic),
	}, nil
}

// Reset clears the level's attempt history and every topic's seen set and
// tallies. Irreversible; other levels are untouched.
func (s *ProgressService) Reset(ctx context.Context, level models.Level) error {
	if !level.Valid() {
		return ErrInvalidLevel
	}

	s.store.ResetHistory(ctx, level)
	for _, info := range s.banks.Topics(level) {
		s.store.ResetTopic(ctx, level, info.Slug)
	}

	s.logger.InfoContext(ctx, "Progress reset", "level", level)
	return nil
}
