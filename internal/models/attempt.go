package models

// AttemptTypePractice is the only attempt type the service records today; the
// stored shape keeps the field so mock-exam attempts can share the history key
// later without a migration.
const AttemptTypePractice = "practice"

// HistoryCap bounds the attempt history per level; the oldest-inserted record
// is evicted first when the cap is exceeded.
const HistoryCap = 50

// AttemptRecord is one completed quiz run as persisted in the attempt history.
// Records are append-only: written once at session finish, never mutated,
// removed only by an explicit progress reset.
type AttemptRecord struct {
	Label string `json:"label"`
	// Score is the percentage result, 0-100.
	Score int    `json:"score"`
	Type  string `json:"type"`
	// Date is the finish time in RFC 3339 / ISO-8601.
	Date         string `json:"date"`
	Topic        string `json:"topic"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	SecondsTaken int    `json:"secondsTaken"`
}
