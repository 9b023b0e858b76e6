package quiz

import (
	"sort"

	"github.com/voltprep/revision-service/internal/models"
)

// PoolOptions selects the candidate pool a session draws from.
type PoolOptions struct {
	// UnseenOnly restricts the pool to questions never served in a completed
	// session. When every question has been seen the pool falls back to the
	// full bank: the learner is never starved of an unseen-mode quiz.
	UnseenOnly bool
	// ProblemsOnly restricts the pool to questions answered wrongly at least
	// once, most-missed first. An empty result stays empty; discovering
	// "no more problem questions" is a real state the client presents.
	ProblemsOnly bool
}

// SelectPool applies the candidate pool policy, in priority order
// ProblemsOnly > UnseenOnly > full bank.
func SelectPool(bank []models.Question, progress models.TopicProgress, opts PoolOptions) []models.Question {
	switch {
	case opts.ProblemsOnly:
		pool := make([]models.Question, 0)
		for _, q := range bank {
			if progress.StatFor(&q).Wrong > 0 {
				pool = append(pool, q)
			}
		}
		sort.SliceStable(pool, func(i, j int) bool {
			return progress.StatFor(&pool[i]).Wrong > progress.StatFor(&pool[j]).Wrong
		})
		return pool

	case opts.UnseenOnly:
		pool := make([]models.Question, 0, len(bank))
		for _, q := range bank {
			if !progress.Seen(&q) {
				pool = append(pool, q)
			}
		}
		if len(pool) == 0 {
			pool = append(pool, bank...)
		}
		return pool

	default:
		pool := make([]models.Question, len(bank))
		copy(pool, bank)
		return pool
	}
}
