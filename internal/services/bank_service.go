package services

import (
	"context"

	"github.com/voltprep/revision-service/internal/bank"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/utils"
)

// TopicOverview is a bank listing entry enriched with the caller's progress:
// how many questions remain unseen and how many are in the problem pool.
type TopicOverview struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	UnseenCount   int    `json:"unseen_count"`
	ProblemCount  int    `json:"problem_count"`
}

// BankService serves question bank listings.
type BankService struct {
	banks  *bank.Bank
	store  *progress.Store
	logger utils.Logger
}

func NewBankService(banks *bank.Bank, store *progress.Store, logger utils.Logger) *BankService {
	return &BankService{banks: banks, store: store, logger: logger}
}

// Topics lists a level's banks with per-topic progress counts.
func (s *BankService) Topics(ctx context.Context, level models.Level) ([]TopicOverview, error) {
	if !level.Valid() {
		return nil, ErrInvalidLevel
	}

	infos := s.banks.Topics(level)
	overviews := make([]TopicOverview, 0, len(infos))
	for _, info := range infos {
		questions, _ := s.banks.Questions(level, info.Slug)
		snapshot := s.store.Progress(ctx, level, info.Slug)

		unseen, problems := 0, 0
		for i := range questions {
			if !snapshot.Seen(&questions[i]) {
				unseen++
			}
			if snapshot.StatFor(&questions[i]).Wrong > 0 {
				problems++
			}
		}

		overviews = append(overviews, TopicOverview{
			Slug:          info.Slug,
			Title:         info.Title,
			QuestionCount: info.QuestionCount,
			UnseenCount:   unseen,
			ProblemCount:  problems,
		})
	}
	return overviews, nil
}

// Topic returns a single bank's overview.
func (s *BankService) Topic(ctx context.Context, level models.Level, topic string) (*TopicOverview, error) {
	if !level.Valid() {
		return nil, ErrInvalidLevel
	}
	if _, ok := s.banks.Topic(level, topic); !ok {
		return nil, ErrTopicNotFound
	}

	overviews, err := s.Topics(ctx, level)
	if err != nil {
		return nil, err
	}
	for i := range overviews {
		if overviews[i].Slug == topic {
			return &overviews[i], nil
		}
	}
	return nil, ErrTopicNotFound
}

// Questions exposes a topic's full bank for export.
func (s *BankService) Questions(level models.Level, topic string) ([]models.Question, error) {
	if !level.Valid() {
		return nil, ErrInvalidLevel
	}
	questions, ok := s.banks.Questions(level, topic)
	if !ok {
		return nil, ErrTopicNotFound
	}
	return questions, nil
}
