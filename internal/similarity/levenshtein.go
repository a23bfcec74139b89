package similarity

import (
	"runtime"
	"sync"
)

// wavefrontMinRunes is the input length above which the edit-distance table
// is filled by the concurrent wavefront schedule. Below it the two-row
// sequential fill wins on overhead.
const wavefrontMinRunes = 10

// Levenshtein scores strings by normalized edit distance. SubCost is the
// weight of a single character substitution; insertions and deletions always
// cost 1. SubCost must be non-negative; the configuration boundary enforces
// that before a Levenshtein is ever constructed.
type Levenshtein struct {
	SubCost float64
}

// Score returns 1 − distance/max(len(a), len(b)), computed over lower-cased
// runes. Two empty strings score 1.0. The result is clamped at 0: a SubCost
// above 1 can push the distance past the longer length, and the score
// contract is [0, 1] for every input.
func (m *Levenshtein) Score(a, b string) float64 {
	ra, rb := foldRunes(a), foldRunes(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}

	var dist float64
	if len(ra) > wavefrontMinRunes && len(rb) > wavefrontMinRunes {
		dist = m.distanceWavefront(ra, rb)
	} else {
		dist = m.distanceRows(ra, rb)
	}

	score := 1.0 - dist/float64(max(len(ra), len(rb)))
	if score < 0 {
		return 0
	}
	return score
}

// distanceRows is the sequential fill. Only two rows of the DP table are
// live at any point.
func (m *Levenshtein) distanceRows(ra, rb []rune) float64 {
	if len(ra) == 0 {
		return float64(len(rb))
	}
	if len(rb) == 0 {
		return float64(len(ra))
	}

	prev := make([]float64, len(rb)+1)
	curr := make([]float64, len(rb)+1)
	for j := range prev {
		prev[j] = float64(j)
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = float64(i)
		for j := 1; j <= len(rb); j++ {
			cost := m.SubCost
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			// min of deletion, insertion, substitution
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// diagSpan is one unit of wavefront work: cells (i, d−i) for i in [lo, hi].
type diagSpan struct {
	d, lo, hi int
}

// distanceWavefront fills the full table one anti-diagonal at a time,
// splitting each diagonal across a bounded worker pool. Every cell on
// diagonal d reads only cells on diagonals d−1 and d−2, and the pool drains
// completely between diagonals, so no worker ever sees a half-written
// predecessor. Cell values are computed by the exact expression the
// sequential fill uses, which keeps the two paths bit-identical.
func (m *Levenshtein) distanceWavefront(ra, rb []rune) float64 {
	la, lb := len(ra), len(rb)
	stride := lb + 1
	table := make([]float64, (la+1)*stride)
	for i := 0; i <= la; i++ {
		table[i*stride] = float64(i)
	}
	for j := 0; j <= lb; j++ {
		table[j] = float64(j)
	}

	workers := min(runtime.GOMAXPROCS(0), la)
	tasks := make(chan diagSpan)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		go func() {
			for sp := range tasks {
				for i := sp.lo; i <= sp.hi; i++ {
					j := sp.d - i
					cost := m.SubCost
					if ra[i-1] == rb[j-1] {
						cost = 0
					}
					del := table[(i-1)*stride+j] + 1
					ins := table[i*stride+j-1] + 1
					sub := table[(i-1)*stride+j-1] + cost
					table[i*stride+j] = min(del, ins, sub)
				}
				wg.Done()
			}
		}()
	}

	for d := 2; d <= la+lb; d++ {
		lo := max(1, d-lb)
		hi := min(la, d-1)
		chunk := max((hi-lo+workers)/workers, 1)
		for start := lo; start <= hi; start += chunk {
			wg.Add(1)
			tasks <- diagSpan{d: d, lo: start, hi: min(start+chunk-1, hi)}
		}
		wg.Wait() // diagonal d fully settled before d+1 begins
	}
	close(tasks)

	return table[la*stride+lb]
}
