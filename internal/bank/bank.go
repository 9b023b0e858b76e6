package bank

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/utils"
)

//go:embed data
var dataFS embed.FS

// TopicInfo describes one question bank for listings.
type TopicInfo struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

type topicFile struct {
	Topic     string            `json:"topic"`
	Title     string            `json:"title"`
	Questions []models.Question `json:"questions"`
}

// Bank holds the static question banks, keyed by level then topic slug.
// Banks are loaded once at startup and never mutated afterwards.
type Bank struct {
	topics map[models.Level]map[string]topicFile
	logger utils.Logger
}

// Load parses every embedded bank file under data/level<level>/. Records that
// fail validation are dropped with a warning rather than failing the load: a
// bad row in a content file must never take the service down.
func Load(logger utils.Logger) (*Bank, error) {
	b := &Bank{
		topics: map[models.Level]map[string]topicFile{
			models.Level2: {},
			models.Level3: {},
		},
		logger: logger,
	}

	for _, level := range []models.Level{models.Level2, models.Level3} {
		dir := "data/level" + string(level)
		entries, err := fs.ReadDir(dataFS, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read bank directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
				continue
			}
			raw, err := dataFS.ReadFile(path.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to read bank file %s: %w", entry.Name(), err)
			}
			var tf topicFile
			if err := json.Unmarshal(raw, &tf); err != nil {
				return nil, fmt.Errorf("failed to parse bank file %s: %w", entry.Name(), err)
			}
			tf.Questions = normalize(tf.Questions, logger, string(level), tf.Topic)
			b.topics[level][tf.Topic] = tf
		}
	}

	return b, nil
}

// normalize filters out malformed records and duplicate ids.
func normalize(qs []models.Question, logger utils.Logger, level, topic string) []models.Question {
	out := make([]models.Question, 0, len(qs))
	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if !q.Valid() {
			logger.Warn("dropping malformed question record",
				"level", level, "topic", topic, "question_id", q.ID)
			continue
		}
		if _, dup := seen[q.ID]; dup {
			logger.Warn("dropping duplicate question id",
				"level", level, "topic", topic, "question_id", q.ID)
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}

// Topics lists the banks available for a level, sorted by slug.
func (b *Bank) Topics(level models.Level) []TopicInfo {
	files := b.topics[level]
	infos := make([]TopicInfo, 0, len(files))
	for _, tf := range files {
		infos = append(infos, TopicInfo{
			Slug:          tf.Topic,
			Title:         tf.Title,
			QuestionCount: len(tf.Questions),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Slug < infos[j].Slug })
	return infos
}

// Topic returns listing info for a single bank.
func (b *Bank) Topic(level models.Level, topic string) (TopicInfo, bool) {
	tf, ok := b.topics[level][topic]
	if !ok {
		return TopicInfo{}, false
	}
	return TopicInfo{Slug: tf.Topic, Title: tf.Title, QuestionCount: len(tf.Questions)}, true
}

// Questions returns a copy of the bank for (level, topic). Callers own the
// returned slice and may reorder it freely.
func (b *Bank) Questions(level models.Level, topic string) ([]models.Question, bool) {
	tf, ok := b.topics[level][topic]
	if !ok {
		return nil, false
	}
	out := make([]models.Question, len(tf.Questions))
	copy(out, tf.Questions)
	return out, true
}
