package editor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// parseIndices parses a space-separated list of 1-based indices into
// 0-based ones, in input order, with duplicates collapsed. Any token that is
// not a number in [1, count] rejects the whole input.
func parseIndices(input string, count int) ([]int, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no index given")
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		if n < 1 || n > count {
			return nil, fmt.Errorf("index %d out of range [1, %d]", n, count)
		}
		if !slices.Contains(out, n-1) {
			out = append(out, n-1)
		}
	}
	return out, nil
}

func allIndices(count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = i
	}
	return out
}
