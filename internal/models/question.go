package models

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

type Level string

const (
	Level2 Level = "2"
	Level3 Level = "3"
)

func (l Level) Valid() bool {
	return l == Level2 || l == Level3
}

// Question is an immutable record sourced from the static banks.
type Question struct {
	ID string `json:"id" validate:"required"`
	// LegacyIDs carries historical identifiers so per-question statistics
	// recorded under an old id still resolve to this question.
	LegacyIDs    []string            `json:"legacy_ids,omitempty"`
	Prompt       string              `json:"prompt" validate:"required"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"correct_index" validate:"min=0,max=3"`
	Explanation  string              `json:"explanation"`
}

// AllIDs returns the question's current id followed by any legacy ids.
func (q *Question) AllIDs() []string {
	ids := make([]string, 0, 1+len(q.LegacyIDs))
	ids = append(ids, q.ID)
	ids = append(ids, q.LegacyIDs...)
	return ids
}

// Valid reports whether the record is well-formed: non-empty prompt, four
// non-empty options and a correct index that points into them. Malformed
// records are filtered out at bank load, never served.
func (q *Question) Valid() bool {
	if q.ID == "" || q.Prompt == "" {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	return q.CorrectIndex >= 0 && q.CorrectIndex < OptionCount
}
