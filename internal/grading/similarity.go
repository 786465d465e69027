package grading

// Character-level similarity with the same semantics as Python's
// difflib.SequenceMatcher.ratio(): 2*M/T, where M is the total size of the
// longest matching blocks and T the combined length of both strings. Short
// answers are graded against thresholds tuned for this ratio, so the block
// matching (including the popular-element heuristic for long sequences) is
// reproduced faithfully rather than approximated with edit distance.

type matchBlock struct {
	a, b, size int
}

// Ratio returns the similarity of a and b in [0, 1]. Two empty strings are
// identical, hence 1.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := 0
	for _, m := range matchingBlocks(ra, rb) {
		matched += m.size
	}
	return 2.0 * float64(matched) / float64(total)
}

// indexB maps each rune of b to its positions, dropping "popular" runes for
// long sequences (more than 1% of a 200+ element sequence), mirroring
// SequenceMatcher's autojunk behavior.
func indexB(b []rune) map[rune][]int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	n := len(b)
	if n >= 200 {
		threshold := n/100 + 1
		for r, idxs := range b2j {
			if len(idxs) > threshold {
				delete(b2j, r)
			}
		}
	}
	return b2j
}

func findLongestMatch(a, b []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) matchBlock {
	besti, bestj, bestsize := alo, blo, 0
	j2len := map[int]int{}

	for i := alo; i < ahi; i++ {
		newj2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	// Extend the match past popular runes dropped from the index.
	for besti > alo && bestj > blo && a[besti-1] == b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && a[besti+bestsize] == b[bestj+bestsize] {
		bestsize++
	}

	return matchBlock{a: besti, b: bestj, size: bestsize}
}

func matchingBlocks(a, b []rune) []matchBlock {
	b2j := indexB(b)

	type region struct{ alo, ahi, blo, bhi int }
	queue := []region{{0, len(a), 0, len(b)}}
	var blocks []matchBlock

	for len(queue) > 0 {
		reg := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := findLongestMatch(a, b, b2j, reg.alo, reg.ahi, reg.blo, reg.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if reg.alo < m.a && reg.blo < m.b {
			queue = append(queue, region{reg.alo, m.a, reg.blo, m.b})
		}
		if m.a+m.size < reg.ahi && m.b+m.size < reg.bhi {
			queue = append(queue, region{m.a + m.size, reg.ahi, m.b + m.size, reg.bhi})
		}
	}

	return blocks
}
