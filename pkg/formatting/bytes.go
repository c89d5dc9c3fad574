// Package formatting parses human-readable values such as byte sizes.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

// binary multipliers; "KB" means 1024 bytes.
var multipliers = map[string]float64{
	"":   1,
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseBytes parses a size such as "64KB", "1.5 MB" or "512" into bytes.
// Units are case-insensitive and base-1024; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	mult, ok := multipliers[strings.ToUpper(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", unit)
	}

	return int64(value * mult), nil
}
