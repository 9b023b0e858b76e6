package events

import (
	"time"

	"github.com/voltprep/revision-service/internal/models"
)

// EventTypeAttemptCompleted is emitted once per finished quiz session.
const EventTypeAttemptCompleted = "attempt.completed"

// AttemptCompletedEvent is published to the analytics stream when a session
// reaches its terminal state. Emitted at most once per session.
type AttemptCompletedEvent struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	SessionID    string       `json:"session_id"`
	Level        models.Level `json:"level"`
	Topic        string       `json:"topic"`
	Score        int          `json:"score"`
	Correct      int          `json:"correct"`
	Total        int          `json:"total"`
	SecondsTaken int          `json:"seconds_taken"`
	FinishedAt   time.Time    `json:"finished_at"`
	Source       string       `json:"source"`
	Version      string       `json:"version"`
}
