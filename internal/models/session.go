package models

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "InProgress"
	SessionFinished   SessionStatus = "Finished"
)

// SessionQuestion is a question as served inside one session: its options have
// been shuffled and CorrectIndex remapped to the shuffled position. The option
// texts are exactly the source question's, reordered.
type SessionQuestion struct {
	ID           string              `json:"id"`
	Prompt       string              `json:"prompt"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"-"`
	Explanation  string              `json:"-"`
}

// QuizSession is the ephemeral state of one quiz run. It is never persisted;
// abandoning a session loses it, matching the product's single-page-visit
// lifetime.
type QuizSession struct {
	ID    string `json:"id"`
	Level Level  `json:"level"`
	Topic string `json:"topic"`

	Questions    []SessionQuestion `json:"questions"`
	CurrentIndex int               `json:"current_index"`
	// Answers holds the locked selection per question, nil while unanswered.
	// A slot is written at most once: the first answer is final.
	Answers   []*int        `json:"answers"`
	Score     int           `json:"score"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`

	// Saved guards Finish side effects (history append, seen-marking, event
	// publish) so re-entering the finished state never duplicates them.
	Saved bool `json:"-"`

	LastTouched time.Time `json:"-"`
}

// Answered reports whether question i has a locked selection.
func (s *QuizSession) Answered(i int) bool {
	return i >= 0 && i < len(s.Answers) && s.Answers[i] != nil
}

// Percent is the session score scaled to 0-100, rounded half away from zero.
// A zero-question session scores zero.
func (s *QuizSession) Percent() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return int(float64(s.Score)*100/float64(len(s.Questions)) + 0.5)
}
