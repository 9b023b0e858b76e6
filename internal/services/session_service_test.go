package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltprep/revision-service/internal/bank"
	"github.com/voltprep/revision-service/internal/events"
	"github.com/voltprep/revision-service/internal/kv"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/quiz"
	"github.com/voltprep/revision-service/internal/utils"
)

// brokenKV simulates unavailable storage; every operation fails.
type brokenKV struct{}

func (brokenKV) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("storage unavailable")
}
func (brokenKV) Set(ctx context.Context, key, value string) error {
	return errors.New("storage unavailable")
}
func (brokenKV) Delete(ctx context.Context, key string) error {
	return errors.New("storage unavailable")
}
func (brokenKV) Close() error { return nil }

type fixture struct {
	service   *SessionService
	store     *progress.Store
	publisher *events.MockEventPublisher
	banks     *bank.Bank
}

func newFixture(t *testing.T, kvStore kv.Store, seed int64) *fixture {
	t.Helper()

	logger := utils.NewNopLogger()
	banks, err := bank.Load(logger)
	require.NoError(t, err)

	store := progress.NewStore(kvStore, logger)
	publisher := events.NewMockEventPublisher(nil)
	engine := quiz.NewEngineWithRand(rand.New(rand.NewSource(seed)))

	return &fixture{
		service:   NewSessionService(banks, store, engine, publisher, logger, utils.NewValidator()),
		store:     store,
		publisher: publisher,
		banks:     banks,
	}
}

func startRequest(size int) *StartSessionRequest {
	return &StartSessionRequest{
		Level: "2",
		Topic: "health-safety",
		Size:  size,
	}
}

// playThrough answers every question, getting the requested number correct,
// and advances to the finished state.
func playThrough(t *testing.T, f *fixture, sessionID string, correctWanted int) *SessionView {
	t.Helper()
	ctx := context.Background()

	view, err := f.service.Get(ctx, sessionID)
	require.NoError(t, err)

	for i := 0; i < view.QuestionCount; i++ {
		current, err := f.service.Get(ctx, sessionID)
		require.NoError(t, err)
		q := current.Questions[current.CurrentIndex]

		option := q.CorrectIndex
		if i >= correctWanted {
			option = (q.CorrectIndex + 1) % models.OptionCount
		}
		_, err = f.service.Answer(ctx, sessionID, &SubmitAnswerRequest{Option: option})
		require.NoError(t, err)

		view, err = f.service.Advance(ctx, sessionID)
		require.NoError(t, err)
	}
	return view
}

func TestStart_DrawsRequestedSize(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 1)

	view, err := f.service.Start(context.Background(), startRequest(4))
	require.NoError(t, err)

	assert.Equal(t, 4, view.QuestionCount)
	assert.Equal(t, models.SessionInProgress, view.Status)
	assert.False(t, view.Empty)

	seen := map[string]bool{}
	for _, q := range view.Questions {
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
	}
}

func TestStart_UnknownTopic(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 1)

	_, err := f.service.Start(context.Background(), &StartSessionRequest{
		Level: "2", Topic: "no-such-topic", Size: 4,
	})
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestStart_InvalidLevel(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 1)

	_, err := f.service.Start(context.Background(), &StartSessionRequest{
		Level: "4", Topic: "health-safety", Size: 4,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestFullSession_RecordsAttemptAndMarksSeen(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 2)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(4))
	require.NoError(t, err)

	final := playThrough(t, f, view.ID, 3)
	assert.Equal(t, models.SessionFinished, final.Status)
	assert.Equal(t, 3, final.Score)
	assert.Equal(t, 75, final.Percent)

	// One attempt record with the session's result.
	history := f.store.History(ctx, models.Level2)
	require.Len(t, history, 1)
	assert.Equal(t, 75, history[0].Score)
	assert.Equal(t, 3, history[0].Correct)
	assert.Equal(t, 4, history[0].Total)
	assert.Equal(t, models.AttemptTypePractice, history[0].Type)
	assert.Equal(t, "health-safety", history[0].Topic)
	assert.Equal(t, "Health and Safety", history[0].Label)

	// Every served question id is now seen.
	seen := f.store.SeenIDs(ctx, models.Level2, "health-safety")
	assert.Len(t, seen, 4)
	for _, q := range view.Questions {
		assert.Contains(t, seen, q.ID)
	}

	// Exactly one attempt event.
	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, events.EventTypeAttemptCompleted, f.publisher.Events[0].Type)
	assert.Equal(t, 75, f.publisher.Events[0].Score)
}

func TestFinish_Idempotent(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 3)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(2))
	require.NoError(t, err)
	playThrough(t, f, view.ID, 2)

	// Advance already finished the session; explicit repeat finishes are no-ops.
	_, err = f.service.Finish(ctx, view.ID)
	require.NoError(t, err)
	_, err = f.service.Finish(ctx, view.ID)
	require.NoError(t, err)

	assert.Len(t, f.store.History(ctx, models.Level2), 1)
	assert.Len(t, f.publisher.Events, 1)
}

func TestAnswer_RepeatSubmissionRejected(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 4)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(3))
	require.NoError(t, err)
	q := view.Questions[0]

	_, err = f.service.Answer(ctx, view.ID, &SubmitAnswerRequest{Option: q.CorrectIndex})
	require.NoError(t, err)

	_, err = f.service.Answer(ctx, view.ID, &SubmitAnswerRequest{Option: q.CorrectIndex})
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	// The tally saw exactly one answer.
	stats := f.store.Stats(ctx, models.Level2, "health-safety")
	assert.Equal(t, models.ProblemStat{Wrong: 0, Total: 1}, stats[q.ID])
}

func TestAnswer_UpdatesProblemStats(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 5)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(1))
	require.NoError(t, err)
	q := view.Questions[0]
	wrong := (q.CorrectIndex + 1) % models.OptionCount

	_, err = f.service.Answer(ctx, view.ID, &SubmitAnswerRequest{Option: wrong})
	require.NoError(t, err)

	stats := f.store.Stats(ctx, models.Level2, "health-safety")
	assert.Equal(t, models.ProblemStat{Wrong: 1, Total: 1}, stats[q.ID])
}

func TestStart_UnseenOnlyFallsBackWhenExhausted(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 6)
	ctx := context.Background()

	// Mark the whole bank as seen.
	questions, ok := f.banks.Questions(models.Level2, "health-safety")
	require.True(t, ok)
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	f.store.MarkSeen(ctx, models.Level2, "health-safety", ids)

	req := startRequest(5)
	req.UnseenOnly = true
	view, err := f.service.Start(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 5, view.QuestionCount, "exhausted unseen mode must fall back to the full bank")
	assert.False(t, view.Empty)
}

func TestStart_ProblemsOnlyWithNoMissesIsEmpty(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 7)

	req := startRequest(5)
	req.ProblemsOnly = true
	view, err := f.service.Start(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, view.Empty)
	assert.Zero(t, view.QuestionCount)
	assert.Equal(t, models.SessionInProgress, view.Status)
}

func TestFinish_EmptySessionRecordsNothing(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 13)
	ctx := context.Background()

	req := startRequest(5)
	req.ProblemsOnly = true
	view, err := f.service.Start(ctx, req)
	require.NoError(t, err)
	require.True(t, view.Empty)

	finished, err := f.service.Finish(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionFinished, finished.Status)
	assert.Zero(t, finished.Percent)

	// Nothing was played, so nothing is recorded: no zero-score attempt
	// dragging the running average down, no seen ids, no event.
	assert.Empty(t, f.store.History(ctx, models.Level2))
	assert.Empty(t, f.store.SeenIDs(ctx, models.Level2, "health-safety"))
	assert.Empty(t, f.publisher.Events)
}

func TestAdvance_EmptySessionRecordsNothing(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 14)
	ctx := context.Background()

	req := startRequest(5)
	req.ProblemsOnly = true
	view, err := f.service.Start(ctx, req)
	require.NoError(t, err)
	require.True(t, view.Empty)

	advanced, err := f.service.Advance(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionFinished, advanced.Status)

	assert.Empty(t, f.store.History(ctx, models.Level2))
	assert.Empty(t, f.publisher.Events)
}

func TestStart_ProblemsOnlyServesMissedQuestions(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 8)
	ctx := context.Background()

	f.store.RecordAnswer(ctx, models.Level2, "health-safety", "l2-hs-002", false)
	f.store.RecordAnswer(ctx, models.Level2, "health-safety", "l2-hs-004", false)

	req := startRequest(10)
	req.ProblemsOnly = true
	view, err := f.service.Start(ctx, req)
	require.NoError(t, err)

	require.Equal(t, 2, view.QuestionCount)
	ids := []string{view.Questions[0].ID, view.Questions[1].ID}
	assert.ElementsMatch(t, []string{"l2-hs-002", "l2-hs-004"}, ids)
}

func TestRestart_ProducesSecondAttemptRecord(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 9)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(2))
	require.NoError(t, err)
	playThrough(t, f, view.ID, 2)

	restarted, err := f.service.Restart(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, restarted.Status)
	assert.Zero(t, restarted.Score)

	playThrough(t, f, view.ID, 1)

	history := f.store.History(ctx, models.Level2)
	require.Len(t, history, 2)
	assert.Equal(t, 100, history[0].Score)
	assert.Equal(t, 50, history[1].Score)
}

func TestSession_PlayableWithBrokenStorage(t *testing.T) {
	f := newFixture(t, brokenKV{}, 10)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(3))
	require.NoError(t, err)
	require.Equal(t, 3, view.QuestionCount)

	final := playThrough(t, f, view.ID, 2)
	assert.Equal(t, models.SessionFinished, final.Status)
	assert.Equal(t, 2, final.Score)

	// Progress did not persist, but the event still went out.
	assert.Len(t, f.publisher.Events, 1)
}

func TestFinishAndRestart_Concurrent(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 15)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(2))
	require.NoError(t, err)
	playThrough(t, f, view.ID, 2)

	// Finish snapshots the session while Restart rewrites it; interleaving
	// them on one session id must stay safe under the race detector.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.service.Finish(ctx, view.ID)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.service.Restart(ctx, view.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err = f.service.Get(ctx, view.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, f.store.History(ctx, models.Level2))
}

func TestGet_UnknownSession(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 11)

	_, err := f.service.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepIdle(t *testing.T) {
	f := newFixture(t, kv.NewMemoryStore(), 12)
	ctx := context.Background()

	view, err := f.service.Start(ctx, startRequest(2))
	require.NoError(t, err)

	assert.Zero(t, f.service.SweepIdle(), "fresh session must survive the sweep")

	f.service.mu.Lock()
	f.service.sessions[view.ID].LastTouched = f.service.sessions[view.ID].LastTouched.Add(-3 * sessionIdleTTL)
	f.service.mu.Unlock()

	assert.Equal(t, 1, f.service.SweepIdle())
	_, err = f.service.Get(ctx, view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
