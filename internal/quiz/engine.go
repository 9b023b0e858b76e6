// Package quiz implements the session engine: candidate pool selection,
// question and option shuffling, answer locking and the session state machine.
package quiz

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/voltprep/revision-service/internal/models"
)

var (
	ErrSessionFinished = errors.New("session is already finished")
	ErrInvalidOption   = errors.New("selected option index out of range")
	ErrNotAnswered     = errors.New("current question has not been answered")
	ErrNoQuestions     = errors.New("session has no questions")
	ErrAlreadyAnswered = errors.New("question already has a locked answer")
)

// Engine draws sessions from candidate pools. The RNG is injectable so tests
// can fix the shuffle.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEngine() *Engine {
	return NewEngineWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewEngineWithRand(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// NewSession draws min(size, len(pool)) distinct questions from the pool and
// shuffles each drawn question's options independently, remapping the correct
// index to the option's new position. The shuffle is presentation-only: the
// correct option's text is preserved exactly.
func (e *Engine) NewSession(id string, level models.Level, topic string, pool []models.Question, size int) *models.QuizSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := size
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}

	drawn := make([]models.Question, len(pool))
	copy(drawn, pool)
	fisherYates(e.rng, len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	drawn = drawn[:n]

	questions := make([]models.SessionQuestion, n)
	for i := range drawn {
		questions[i] = e.shuffleOptions(&drawn[i])
	}

	now := time.Now()
	return &models.QuizSession{
		ID:           id,
		Level:        level,
		Topic:        topic,
		Questions:    questions,
		CurrentIndex: 0,
		Answers:      make([]*int, n),
		Score:        0,
		Status:       models.SessionInProgress,
		StartedAt:    now,
		LastTouched:  now,
	}
}

// Restart rebuilds the session in place from its own question set: same
// questions, fresh order, freshly shuffled options, reset answers and timer.
func (e *Engine) Restart(s *models.QuizSession) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fisherYates(e.rng, len(s.Questions), func(i, j int) {
		s.Questions[i], s.Questions[j] = s.Questions[j], s.Questions[i]
	})
	for i := range s.Questions {
		q := models.Question{
			ID:           s.Questions[i].ID,
			Prompt:       s.Questions[i].Prompt,
			Options:      s.Questions[i].Options,
			CorrectIndex: s.Questions[i].CorrectIndex,
			Explanation:  s.Questions[i].Explanation,
		}
		s.Questions[i] = e.shuffleOptions(&q)
	}

	s.CurrentIndex = 0
	s.Answers = make([]*int, len(s.Questions))
	s.Score = 0
	s.Status = models.SessionInProgress
	s.StartedAt = time.Now()
	s.LastTouched = s.StartedAt
	s.Saved = false
}

// shuffleOptions permutes the four options and records where the originally
// correct option landed. Caller holds e.mu.
func (e *Engine) shuffleOptions(q *models.Question) models.SessionQuestion {
	perm := [models.OptionCount]int{0, 1, 2, 3}
	fisherYates(e.rng, models.OptionCount, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	var options [models.OptionCount]string
	correct := 0
	for pos, src := range perm {
		options[pos] = q.Options[src]
		if src == q.CorrectIndex {
			correct = pos
		}
	}

	return models.SessionQuestion{
		ID:           q.ID,
		Prompt:       q.Prompt,
		Options:      options,
		CorrectIndex: correct,
		Explanation:  q.Explanation,
	}
}

// fisherYates runs the classic in-place shuffle over n elements.
func fisherYates(rng *rand.Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		swap(i, j)
	}
}

// AnswerResult reports the outcome of a locked answer so the client can show
// correctness and the explanation immediately.
type AnswerResult struct {
	QuestionID   string `json:"question_id"`
	Selected     int    `json:"selected"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

// Answer locks the given option for the current question. The first answer is
// final: a repeat submission returns ErrAlreadyAnswered and changes nothing.
// Score is incremented exactly once, here, iff the selection matches the
// question's shuffled correct index.
func Answer(s *models.QuizSession, option int) (*AnswerResult, error) {
	if s.Status == models.SessionFinished {
		return nil, ErrSessionFinished
	}
	if len(s.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if option < 0 || option >= models.OptionCount {
		return nil, ErrInvalidOption
	}
	if s.Answered(s.CurrentIndex) {
		return nil, ErrAlreadyAnswered
	}

	q := s.Questions[s.CurrentIndex]
	sel := option
	s.Answers[s.CurrentIndex] = &sel

	correct := option == q.CorrectIndex
	if correct {
		s.Score++
	}
	s.LastTouched = time.Now()

	return &AnswerResult{
		QuestionID:   q.ID,
		Selected:     option,
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}, nil
}

// Advance moves to the next question once the current one is answered. At the
// last question it transitions the session to Finished instead.
func Advance(s *models.QuizSession) error {
	if s.Status == models.SessionFinished {
		return ErrSessionFinished
	}
	if len(s.Questions) == 0 {
		s.Status = models.SessionFinished
		return nil
	}
	if !s.Answered(s.CurrentIndex) {
		return ErrNotAnswered
	}

	if s.CurrentIndex == len(s.Questions)-1 {
		s.Status = models.SessionFinished
	} else {
		s.CurrentIndex++
	}
	s.LastTouched = time.Now()
	return nil
}

// Finish forces the terminal state. It is safe to call repeatedly; the Saved
// flag (managed by the caller recording side effects) keeps completion side
// effects one-shot.
func Finish(s *models.QuizSession) {
	s.Status = models.SessionFinished
	s.LastTouched = time.Now()
}

// SecondsTaken is the elapsed whole seconds since the session (re)started.
func SecondsTaken(s *models.QuizSession, now time.Time) int {
	secs := int(now.Sub(s.StartedAt).Seconds())
	if secs < 0 {
		secs = 0
	}
	return secs
}
