package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatID renders a snowflake the way it is stored in a row.
func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// parseID reads a snowflake column. Blank columns read as zero.
func parseID(field string) (uint64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}

	id, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", ErrMalformedRow, field)
	}
	return id, nil
}

// formatUnix renders a timestamp as epoch seconds.
func formatUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// parseUnix reads an epoch seconds column.
func parseUnix(field string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedRow, field)
	}
	return time.Unix(secs, 0), nil
}

// formatSeconds renders a duration as whole seconds.
func formatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}

// parseSeconds reads a whole seconds column, clamped to [0, limit].
// Clamping happens before the conversion so huge values cannot overflow.
func parseSeconds(field string, limit time.Duration) (time.Duration, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid seconds %q", ErrMalformedRow, field)
	}
	secs = min(max(secs, 0), int64(limit/time.Second))
	return time.Duration(secs) * time.Second, nil
}

// formatFlag renders a boolean as 0 or 1.
func formatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parseFlag reads a 0/1 column. Any non-zero integer is true.
func parseFlag(field string) (bool, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: invalid flag %q", ErrMalformedRow, field)
	}
	return v != 0, nil
}

// requireFields checks a row has at least n columns.
func requireFields(fields []string, n int) error {
	if len(fields) < n {
		return fmt.Errorf("%w: expected at least %d fields, got %d", ErrMalformedRow, n, len(fields))
	}
	return nil
}
