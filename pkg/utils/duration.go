package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned for durations not of the form <n>{s,m,h,d}.
var ErrInvalidDuration = errors.New("invalid duration")

var durationUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// ParseShortDuration parses durations such as "30s", "15m", "1.5h" or "7d".
func ParseShortDuration(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if len(input) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}

	unit, ok := durationUnits[input[len(input)-1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q has no unit", ErrInvalidDuration, input)
	}

	n, err := strconv.ParseFloat(input[:len(input)-1], 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}

	total := n * float64(unit)
	if total >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, input)
	}

	return time.Duration(total).Truncate(time.Second), nil
}
