package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltprep/revision-service/internal/bank"
	"github.com/voltprep/revision-service/internal/kv"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/utils"
)

func newBankFixture(t *testing.T) (*BankService, *progress.Store) {
	t.Helper()
	logger := utils.NewNopLogger()
	banks, err := bank.Load(logger)
	require.NoError(t, err)
	store := progress.NewStore(kv.NewMemoryStore(), logger)
	return NewBankService(banks, store, logger), store
}

func TestTopics_FreshProgress(t *testing.T) {
	service, _ := newBankFixture(t)

	overviews, err := service.Topics(context.Background(), models.Level2)
	require.NoError(t, err)
	require.NotEmpty(t, overviews)

	for _, o := range overviews {
		assert.Equal(t, o.QuestionCount, o.UnseenCount, "nothing seen yet for %s", o.Slug)
		assert.Zero(t, o.ProblemCount)
	}
}

func TestTopics_CountsReflectProgress(t *testing.T) {
	service, store := newBankFixture(t)
	ctx := context.Background()

	store.MarkSeen(ctx, models.Level2, "health-safety", []string{"l2-hs-001", "l2-hs-002"})
	store.RecordAnswer(ctx, models.Level2, "health-safety", "l2-hs-003", false)

	overview, err := service.Topic(ctx, models.Level2, "health-safety")
	require.NoError(t, err)

	assert.Equal(t, overview.QuestionCount-2, overview.UnseenCount)
	assert.Equal(t, 1, overview.ProblemCount)
}

func TestTopic_Unknown(t *testing.T) {
	service, _ := newBankFixture(t)

	_, err := service.Topic(context.Background(), models.Level2, "no-such-topic")
	assert.ErrorIs(t, err, ErrTopicNotFound)

	_, err = service.Topics(context.Background(), models.Level("0"))
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestQuestions_ForExport(t *testing.T) {
	service, _ := newBankFixture(t)

	questions, err := service.Questions(models.Level3, "inspection-testing")
	require.NoError(t, err)
	assert.NotEmpty(t, questions)

	_, err = service.Questions(models.Level3, "no-such-topic")
	assert.ErrorIs(t, err, ErrTopicNotFound)
}
