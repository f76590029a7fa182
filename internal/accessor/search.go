package accessor

import (
	"fmt"
	"math/bits"
)

// searchBound returns the number of steps a binary search over n
// candidates needs: floor(log2(n)) + 1.
func searchBound(n int) int {
	return bits.Len(uint(n))
}

// tokenIndex returns the index of the token containing pos.
// The caller must have checked pos against the buffer length.
func tokenIndex(tokens []Token, pos int) (int, error) {
	lower, upper := 0, len(tokens) // [lower, upper)
	for steps := searchBound(len(tokens)); steps > 0 && lower < upper; steps-- {
		idx := lower + (upper-lower)/2
		tok := tokens[idx]
		switch {
		case pos < tok.Start:
			upper = idx
		case pos > tok.End:
			lower = idx + 1
		default:
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%w: token lookup for position %d over %d tokens", ErrSearchInvariant, pos, len(tokens))
}

// lineIndex returns the greatest line such that starts[line] <= pos.
// starts must be ascending and begin with 0.
func lineIndex(starts []int, pos int) (int, error) {
	lower, upper := 0, len(starts) // [lower, upper)
	for steps := searchBound(len(starts)); steps > 0 && lower < upper; steps-- {
		line := lower + (upper-lower)/2
		switch {
		case pos < starts[line]:
			upper = line
		case line+1 == upper || starts[line+1] > pos:
			return line, nil
		default:
			lower = line + 1
		}
	}
	return 0, fmt.Errorf("%w: line lookup for position %d over %d lines", ErrSearchInvariant, pos, len(starts))
}

// lineStarts returns the start position of every line in text.
// "\n", "\r\n" and a lone "\r" all end a line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return starts
}
