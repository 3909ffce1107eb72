package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitCSV splits a comma separated query value, trimming blanks.
func SplitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseYears parses a comma separated list of years. Empty input means no
// year filter and returns nil.
func ParseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := SplitCSV(raw)
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
