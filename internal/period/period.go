package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FormatMonth returns a month key like "2024-01".
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthOf returns the month key for t.
func MonthOf(t time.Time) string {
	return FormatMonth(t.Year(), int(t.Month()))
}

// ParseMonth parses "2024-01" into year and month.
func ParseMonth(key string) (year, month int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month key format: %q", key)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month key %q: %w", key, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in month key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in month key %q", key)
	}

	return year, month, nil
}

// SortedKeys returns the keys of m in ascending order.
// Zero-padded month keys sort chronologically as strings.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
