package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voltprep/revision-service/internal/bank"
	"github.com/voltprep/revision-service/internal/events"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/quiz"
	"github.com/voltprep/revision-service/internal/utils"
)

// sessionIdleTTL bounds how long an untouched session is kept. Sessions are
// deliberately not persisted: abandoning one loses it, the same way closing
// the page did in the original product.
const sessionIdleTTL = 2 * time.Hour

// StartSessionRequest chooses the bank and mode for a new session.
type StartSessionRequest struct {
	Level        string `json:"level" validate:"required,level"`
	Topic        string `json:"topic" validate:"required"`
	Size         int    `json:"size" validate:"required,min=1,max=50"`
	UnseenOnly   bool   `json:"unseen_only"`
	ProblemsOnly bool   `json:"problems_only"`
}

// SubmitAnswerRequest locks an option for the session's current question.
type SubmitAnswerRequest struct {
	Option int `json:"option" validate:"option_index"`
}

// SessionView is the client-facing session state. Question payloads carry no
// correct index or explanation; those are revealed per question by the answer
// response.
type SessionView struct {
	ID            string                   `json:"id"`
	Level         models.Level             `json:"level"`
	Topic         string                   `json:"topic"`
	Status        models.SessionStatus     `json:"status"`
	Empty         bool                     `json:"empty"`
	QuestionCount int                      `json:"question_count"`
	CurrentIndex  int                      `json:"current_index"`
	Answered      []bool                   `json:"answered"`
	Score         int                      `json:"score"`
	Percent       int                      `json:"percent"`
	Questions     []models.SessionQuestion `json:"questions"`
}

// SessionService owns the in-memory session registry and orchestrates the
// quiz engine against the progress store and event stream.
type SessionService struct {
	banks     *bank.Bank
	store     *progress.Store
	engine    *quiz.Engine
	publisher events.EventPublisher
	logger    utils.Logger
	validator *utils.Validator

	mu       sync.Mutex
	sessions map[string]*models.QuizSession
}

func NewSessionService(
	banks *bank.Bank,
	store *progress.Store,
	engine *quiz.Engine,
	publisher events.EventPublisher,
	logger utils.Logger,
	validator *utils.Validator,
) *SessionService {
	return &SessionService{
		banks:     banks,
		store:     store,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		sessions:  make(map[string]*models.QuizSession),
	}
}

// Start builds a new session from the requested topic bank and mode flags.
// A problems-only request with nothing missed yields a zero-question session;
// that is a first-class state, not an error.
func (s *SessionService) Start(ctx context.Context, req *StartSessionRequest) (*SessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	level := models.Level(req.Level)
	questions, ok := s.banks.Questions(level, req.Topic)
	if !ok {
		return nil, ErrTopicNotFound
	}

	snapshot := s.store.Progress(ctx, level, req.Topic)
	pool := quiz.SelectPool(questions, snapshot, quiz.PoolOptions{
		UnseenOnly:   req.UnseenOnly,
		ProblemsOnly: req.ProblemsOnly,
	})

	session := s.engine.NewSession(uuid.NewString(), level, req.Topic, pool, req.Size)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Quiz session started",
		"session_id", session.ID,
		"level", level,
		"topic", req.Topic,
		"question_count", len(session.Questions),
		"unseen_only", req.UnseenOnly,
		"problems_only", req.ProblemsOnly)

	return s.view(session), nil
}

// Get returns the current view of a session.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Answer locks the given option for the session's current question, records
// the per-question tally and returns correctness with the explanation.
// Re-submitting an answered question is rejected and changes nothing.
func (s *SessionService) Answer(ctx context.Context, sessionID string, req *SubmitAnswerRequest) (*quiz.AnswerResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	result, err := quiz.Answer(session, req.Option)
	s.mu.Unlock()
	if err != nil {
		return nil, mapEngineError(err)
	}

	// Tallies update on every answer, not at session end, so a partially
	// played session still feeds the problem pool.
	s.store.RecordAnswer(ctx, session.Level, session.Topic, result.QuestionID, result.Correct)

	return result, nil
}

// Advance moves to the next question; at the last question it finishes the
// session and records the attempt.
func (s *SessionService) Advance(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	err = quiz.Advance(session)
	s.mu.Unlock()
	if err != nil {
		return nil, mapEngineError(err)
	}

	if session.Status == models.SessionFinished {
		s.finalize(ctx, session)
	}
	return s.view(session), nil
}

// Finish forces the terminal state and records the attempt. Idempotent: a
// repeat call returns the finished view without further side effects.
func (s *SessionService) Finish(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	quiz.Finish(session)
	s.mu.Unlock()

	s.finalize(ctx, session)
	return s.view(session), nil
}

// Restart rebuilds the session from its own question set: same questions,
// fresh shuffle, reset score and timer. The restarted run records its own
// attempt when finished.
func (s *SessionService) Restart(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.engine.Restart(session)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Quiz session restarted", "session_id", sessionID)
	return s.view(session), nil
}

// SweepIdle drops sessions untouched for longer than the idle TTL and
// returns how many were evicted.
func (s *SessionService) SweepIdle() int {
	cutoff := time.Now().Add(-sessionIdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, session := range s.sessions {
		if session.LastTouched.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("Evicted idle quiz sessions", "count", evicted)
	}
	return evicted
}

// finalize runs the one-shot completion side effects: append the attempt
// record, mark every served question as seen, publish the attempt event.
// Guarded by the session's saved flag. A zero-question session has nothing
// to record: finishing one leaves history, seen sets and the event stream
// untouched.
func (s *SessionService) finalize(ctx context.Context, session *models.QuizSession) {
	s.mu.Lock()
	if session.Saved || len(session.Questions) == 0 {
		s.mu.Unlock()
		return
	}
	session.Saved = true

	// Snapshot while still holding the lock; Restart mutates these fields.
	now := time.Now()
	sessionID := session.ID
	level := session.Level
	topic := session.Topic
	correct := session.Score
	total := len(session.Questions)
	percent := session.Percent()
	seconds := quiz.SecondsTaken(session, now)
	ids := make([]string, len(session.Questions))
	for i, q := range session.Questions {
		ids[i] = q.ID
	}
	s.mu.Unlock()

	label := topic
	if info, ok := s.banks.Topic(level, topic); ok {
		label = info.Title
	}

	record := models.AttemptRecord{
		Label:        label,
		Score:        percent,
		Type:         models.AttemptTypePractice,
		Date:         now.Format(time.RFC3339),
		Topic:        topic,
		Correct:      correct,
		Total:        total,
		SecondsTaken: seconds,
	}
	s.store.AppendAttempt(ctx, level, record)
	s.store.MarkSeen(ctx, level, topic, ids)

	event := &events.AttemptCompletedEvent{
		ID:           uuid.NewString(),
		Type:         events.EventTypeAttemptCompleted,
		SessionID:    sessionID,
		Level:        level,
		Topic:        topic,
		Score:        percent,
		Correct:      correct,
		Total:        total,
		SecondsTaken: seconds,
		FinishedAt:   now,
		Source:       "revision-service",
		Version:      "1.0",
	}
	// Event delivery is best-effort; a broker outage must not fail the quiz.
	if err := s.publisher.PublishAttemptCompleted(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish attempt event",
			"session_id", sessionID)
	}

	s.logger.InfoContext(ctx, "Quiz session finished",
		"session_id", sessionID,
		"score", percent,
		"correct", correct,
		"total", total,
		"seconds_taken", seconds)
}

func (s *SessionService) lookup(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) view(session *models.QuizSession) *SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := make([]bool, len(session.Answers))
	for i := range session.Answers {
		answered[i] = session.Answers[i] != nil
	}
	questions := make([]models.SessionQuestion, len(session.Questions))
	copy(questions, session.Questions)

	return &SessionView{
		ID:            session.ID,
		Level:         session.Level,
		Topic:         session.Topic,
		Status:        session.Status,
		Empty:         len(session.Questions) == 0,
		QuestionCount: len(session.Questions),
		CurrentIndex:  session.CurrentIndex,
		Answered:      answered,
		Score:         session.Score,
		Percent:       session.Percent(),
		Questions:     questions,
	}
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, quiz.ErrSessionFinished):
		return ErrSessionFinished
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		return ErrAlreadyAnswered
	case errors.Is(err, quiz.ErrNotAnswered):
		return ErrNotAnswered
	case errors.Is(err, quiz.ErrInvalidOption):
		return ErrInvalidOption
	case errors.Is(err, quiz.ErrNoQuestions):
		return ErrEmptySession
	default:
		return err
	}
}
