package similarity

const (
	// prefixCap bounds the shared-prefix bonus at 4 runes, per the
	// canonical Jaro-Winkler definition.
	prefixCap = 4
	// prefixScale weights the shared-prefix bonus.
	prefixScale = 0.1
)

// JaroWinkler scores strings with Jaro similarity plus a bonus for a shared
// leading prefix of up to prefixCap runes.
//
// Match discovery is deliberately sequential: each source index claims the
// first unclaimed target index inside its window, and that greedy claim
// order is part of the metric's definition. Splitting the index range across
// goroutines lets two sources race for the same target, which changes scores
// for large inputs, so the ranker parallelizes across candidates instead.
type JaroWinkler struct{}

// Score returns the Jaro-Winkler similarity of a and b. Two empty strings
// score 1.0; exactly one empty scores 0.0.
func (JaroWinkler) Score(a, b string) float64 {
	ra, rb := foldRunes(a), foldRunes(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	j := jaro(ra, rb)
	if j == 0 {
		return 0.0
	}

	prefix := min(commonPrefix(ra, rb), prefixCap)
	return j + float64(prefix)*prefixScale*(1-j)
}

// jaro computes the base Jaro similarity of two non-empty rune slices.
func jaro(ra, rb []rune) float64 {
	window := max(max(len(ra), len(rb))/2-1, 0)

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))
	matches := 0

	// Greedy discovery: the first unclaimed rb index inside the window wins.
	for i := range ra {
		lo := max(0, i-window)
		hi := min(len(rb)-1, i+window)
		for j := lo; j <= hi; j++ {
			if bMatched[j] || rb[j] != ra[i] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Walk the matched characters of both strings in original order; each
	// position where they disagree is half a transposition.
	diffs := 0
	k := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ra[i] != rb[k] {
			diffs++
		}
		k++
	}
	transpositions := float64(diffs) / 2

	m := float64(matches)
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-transpositions)/m) / 3
}

// commonPrefix returns the length of the shared leading run of ra and rb.
func commonPrefix(ra, rb []rune) int {
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}

// CommonPrefix returns the length in runes of the shared case-folded leading
// run of a and b. The renderer uses it to decide where difference
// highlighting starts.
func CommonPrefix(a, b string) int {
	return commonPrefix(foldRunes(a), foldRunes(b))
}
