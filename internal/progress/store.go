// Package progress persists revision progress (seen questions, per-question
// tallies, attempt history) into a key-value store, and computes the progress
// report series.
//
// Storage is treated as unreliable and optional throughout: every read
// degrades to an empty or default value on any error, every write is
// fire-and-forget. A quiz session must play start to finish with the store
// entirely unavailable; only persistence is lost.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/voltprep/revision-service/internal/kv"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/utils"
)

const keyPrefix = "revision:v1"

func seenKey(level models.Level, topic string) string {
	return fmt.Sprintf("%s:%s:%s:seen", keyPrefix, level, topic)
}

func statsKey(level models.Level, topic string) string {
	return fmt.Sprintf("%s:%s:%s:stats", keyPrefix, level, topic)
}

func historyKey(level models.Level) string {
	return fmt.Sprintf("%s:%s:history", keyPrefix, level)
}

// Store wraps a kv.Store with the progress record codecs and the defensive
// read/write contract.
type Store struct {
	kv     kv.Store
	logger utils.Logger
}

func NewStore(kvStore kv.Store, logger utils.Logger) *Store {
	return &Store{kv: kvStore, logger: logger}
}

// readJSON decodes the value at key into dest. Missing keys, read failures
// and corrupt values all leave dest untouched and report false.
func (s *Store) readJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.WarnContext(ctx, "progress read failed, using default",
				"key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.WarnContext(ctx, "corrupt progress value, using default",
			"key", key, "error", err)
		return false
	}
	return true
}

// writeJSON encodes value and stores it at key, best-effort.
func (s *Store) writeJSON(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "progress encode failed, write skipped",
			"key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		s.logger.WarnContext(ctx, "progress write failed",
			"key", key, "error", err)
	}
}

// SeenIDs returns the set of question ids served in completed sessions for
// (level, topic). Never fails; worst case is an empty set.
func (s *Store) SeenIDs(ctx context.Context, level models.Level, topic string) map[string]struct{} {
	var ids []string
	s.readJSON(ctx, seenKey(level, topic), &ids)
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// MarkSeen adds the given question ids to the topic's seen set.
func (s *Store) MarkSeen(ctx context.Context, level models.Level, topic string, ids []string) {
	if len(ids) == 0 {
		return
	}
	set := s.SeenIDs(ctx, level, topic)
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	s.writeJSON(ctx, seenKey(level, topic), out)
}

// Stats returns the per-question tallies for (level, topic). A question with
// no entry has the zero stat.
func (s *Store) Stats(ctx context.Context, level models.Level, topic string) map[string]models.ProblemStat {
	stats := map[string]models.ProblemStat{}
	s.readJSON(ctx, statsKey(level, topic), &stats)
	if stats == nil {
		stats = map[string]models.ProblemStat{}
	}
	return stats
}

// RecordAnswer updates a question's tally: total always grows by one, wrong
// only when the answer was incorrect. Called on every locked answer, not at
// session end, so partial sessions still feed the problem pool.
func (s *Store) RecordAnswer(ctx context.Context, level models.Level, topic, questionID string, correct bool) {
	stats := s.Stats(ctx, level, topic)
	st := stats[questionID]
	st.Total++
	if !correct {
		st.Wrong++
	}
	stats[questionID] = st
	s.writeJSON(ctx, statsKey(level, topic), stats)
}

// Progress returns the combined snapshot the quiz engine selects pools from.
func (s *Store) Progress(ctx context.Context, level models.Level, topic string) models.TopicProgress {
	return models.TopicProgress{
		SeenIDs: s.SeenIDs(ctx, level, topic),
		Stats:   s.Stats(ctx, level, topic),
	}
}

// History returns the level's attempt records in insertion order. A corrupt
// or missing value reads as an empty history.
func (s *Store) History(ctx context.Context, level models.Level) []models.AttemptRecord {
	var records []models.AttemptRecord
	s.readJSON(ctx, historyKey(level), &records)
	return records
}

// AppendAttempt appends a completed attempt, truncating to the most recent
// HistoryCap records by insertion order (oldest evicted first).
func (s *Store) AppendAttempt(ctx context.Context, level models.Level, record models.AttemptRecord) {
	records := s.History(ctx, level)
	records = append(records, record)
	if len(records) > models.HistoryCap {
		records = records[len(records)-models.HistoryCap:]
	}
	s.writeJSON(ctx, historyKey(level), records)
}

// ResetHistory deletes the level's attempt history. Seen sets and tallies are
// separate keys; multi-key reset policy belongs to the caller.
func (s *Store) ResetHistory(ctx context.Context, level models.Level) {
	if err := s.kv.Delete(ctx, historyKey(level)); err != nil {
		s.logger.WarnContext(ctx, "history reset failed",
			"level", level, "error", err)
	}
}

// ResetTopic deletes one topic's seen set and tallies.
func (s *Store) ResetTopic(ctx context.Context, level models.Level, topic string) {
	for _, key := range []string{seenKey(level, topic), statsKey(level, topic)} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "topic reset failed",
				"key", key, "error", err)
		}
	}
}
