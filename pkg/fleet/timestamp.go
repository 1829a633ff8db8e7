package fleet

import (
	"fmt"
	"strings"
	"time"

	"liyu1981.xyz/vigilant/pkg/models"
)

// TimestampLayout is fixed width and always UTC, so stored timestamps sort
// lexicographically in chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// accepted input layouts, offset-less ones are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO 8601 date-time", ErrInvalidTimestamp, s)
}

// resolveTimestamp returns the canonical timestamp of a report, assigning now
// when the report carries none.
func resolveTimestamp(report models.Report, now time.Time) (string, error) {
	raw, found := report[models.ReportKeyTimestamp]
	if !found || raw == nil {
		return FormatTimestamp(now), nil
	}

	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: timestamp must be a string", ErrInvalidTimestamp)
	}

	t, err := ParseTimestamp(s)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(t), nil
}
