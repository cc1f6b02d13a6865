// Package formatting converts between human-readable and machine values:
// byte sizes in configuration and JSON carried in language model replies.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

var multipliers = map[string]int64{
	"":   1,
	"B":  1,
	"KB": kib,
	"K":  kib,
	"MB": mib,
	"M":  mib,
	"GB": gib,
	"G":  gib,
}

// ParseBytes reads sizes such as "512", "64KB", "1.5 MB" or "2g".
// Units are base-1024 and case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
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

	n, err := strconv.ParseFloat(number, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	mult, ok := multipliers[unit]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", unit)
	}
	return int64(n * float64(mult)), nil
}

// FormatBytes renders n with one decimal in the largest fitting unit.
func FormatBytes(n int64) string {
	switch {
	case n >= gib:
		return fmt.Sprintf("%.1f GB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.1f MB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.1f KB", float64(n)/kib)
	}
	return fmt.Sprintf("%d B", n)
}
