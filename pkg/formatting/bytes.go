// Package formatting converts byte sizes between counts and the strings used
// in configuration and error messages ("50MB", "1.5 GB").
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const base = 1024

// units are ordered by power of base.
var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	if n < base && n > -base {
		return strconv.FormatInt(n, 10) + " B"
	}

	value := math.Abs(float64(n))
	exp := 0
	for value >= base && exp < len(units)-1 {
		value /= base
		exp++
	}
	if n < 0 {
		value = -value
	}

	return strconv.FormatFloat(value, 'f', precision, 64) + " " + units[exp]
}

// ParseBytes reads a size such as "512", "64KB" or "1.5 mb". A bare number
// is a byte count and unit names are case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})

	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	exp, err := unitExponent(unit)
	if err != nil {
		return 0, err
	}

	return int64(value * math.Pow(base, float64(exp))), nil
}

func unitExponent(unit string) (int, error) {
	if unit == "" {
		return 0, nil
	}

	unit = strings.ToUpper(unit)
	for i, u := range units {
		if u == unit {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit %q", unit)
}
