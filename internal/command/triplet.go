package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTriplet parses three unsigned integers separated by one delimiter,
// chosen as the first of ':', '-' or '/' found in s. Both separators must be
// that delimiter and nothing may follow the third number.
func ParseTriplet(s string) (a, b, c int, err error) {
	i := strings.IndexAny(s, ":-/")
	if i < 0 {
		return 0, 0, 0, fmt.Errorf("%q: no separator: %w", s, ErrParse)
	}
	parts := strings.Split(s, s[i:i+1])
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%q: want three fields: %w", s, ErrParse)
	}

	var v [3]int
	for j, p := range parts {
		n, err := parseUint(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%q: field %d: %w", s, j+1, err)
		}
		v[j] = n
	}
	return v[0], v[1], v[2], nil
}

func parseUint(p string) (int, error) {
	if p == "" {
		return 0, fmt.Errorf("empty: %w", ErrParse)
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a number: %w", p, ErrParse)
		}
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", p, ErrParse)
	}
	return n, nil
}
