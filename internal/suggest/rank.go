package suggest

import (
	"runtime"
	"sort"
	"sync"

	"github.com/rybkr/cmdsense/internal/similarity"
)

// Match is one scored candidate.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// fanOutMin is the candidate count above which scoring spreads across a
// worker pool. A typical PATH yields a few thousand names, well past this.
const fanOutMin = 64

// Rank scores every candidate against query with the configured metric,
// keeps those at or above the threshold, sorts by descending score, and
// truncates to MaxResults.
//
// The sort is stable and candidates are scored in input order, so equal
// scores preserve the candidates' original relative order; given a
// deterministic candidate source the output is reproducible. Candidates are
// independent of one another, which is why the fan-out lives here rather
// than inside the metrics: each worker owns a disjoint index range of a
// pre-sized results slice, and the pool drains before anything is read, so
// the concurrent and sequential paths produce identical output.
func Rank(query string, candidates []string, cfg Config) []Match {
	metric := similarity.New(cfg.Algorithm, cfg.Cost)

	scores := make([]float64, len(candidates))
	if len(candidates) >= fanOutMin {
		scoreConcurrent(metric, query, candidates, scores)
	} else {
		for i, c := range candidates {
			scores[i] = metric.Score(query, c)
		}
	}

	matches := make([]Match, 0, len(candidates))
	for i, c := range candidates {
		if scores[i] >= cfg.Threshold {
			matches = append(matches, Match{Name: c, Score: scores[i]})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > cfg.MaxResults {
		matches = matches[:cfg.MaxResults]
	}
	return matches
}

// scoreConcurrent fills scores[i] for every candidate using a pool bounded
// by the machine's parallelism.
func scoreConcurrent(metric similarity.Metric, query string, candidates []string, scores []float64) {
	workers := min(runtime.GOMAXPROCS(0), len(candidates))
	chunk := (len(candidates) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(candidates); start += chunk {
		end := min(start+chunk, len(candidates))
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				scores[i] = metric.Score(query, candidates[i])
			}
		}(start, end)
	}
	wg.Wait()
}
