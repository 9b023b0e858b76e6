package models

// ProblemStat accumulates per-question answer tallies for one (level, topic).
// Counts only ever grow; Wrong never exceeds Total.
type ProblemStat struct {
	Wrong int `json:"wrong"`
	Total int `json:"total"`
}

// TopicProgress is a read-only snapshot of a topic's stored progress, handed
// to the quiz engine for candidate pool selection. A missing question id means
// "never answered" (zero stats, not seen).
type TopicProgress struct {
	SeenIDs map[string]struct{}
	Stats   map[string]ProblemStat
}

// EmptyTopicProgress is the snapshot used when the store is unavailable or
// holds nothing for the topic.
func EmptyTopicProgress() TopicProgress {
	return TopicProgress{
		SeenIDs: map[string]struct{}{},
		Stats:   map[string]ProblemStat{},
	}
}

// Seen reports whether any of the question's ids (current or legacy) has been
// served in a completed session.
func (p TopicProgress) Seen(q *Question) bool {
	for _, id := range q.AllIDs() {
		if _, ok := p.SeenIDs[id]; ok {
			return true
		}
	}
	return false
}

// StatFor merges the stats recorded under the question's current and legacy
// ids into one tally.
func (p TopicProgress) StatFor(q *Question) ProblemStat {
	var merged ProblemStat
	for _, id := range q.AllIDs() {
		if st, ok := p.Stats[id]; ok {
			merged.Wrong += st.Wrong
			merged.Total += st.Total
		}
	}
	return merged
}
