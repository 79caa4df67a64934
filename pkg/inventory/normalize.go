package inventory

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day = 24 * time.Hour

	// Extracted expiry strings with no usable date default to a near-term
	// expiry instead of dropping the record.
	fallbackWindow = 3 * day

	// Parsed dates older than this are assumed to carry a stale year from
	// the extraction model.
	staleWindow = 180 * day
)

var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// NormalizeExpiry turns a free-text expiry string into an absolute timestamp.
// Unparsable input falls back to now+3 days. A parsed date more than 180 days
// in the past is treated as a stale-year artifact: if the text contains a
// 4-digit year below the current one, the date is re-stamped with the current
// year, keeping month, day and time of day.
func NormalizeExpiry(text string, now time.Time) time.Time {
	parsed, ok := parseExpiry(strings.TrimSpace(text))
	if !ok {
		return now.Add(fallbackWindow)
	}

	if now.Sub(parsed) > staleWindow {
		token := yearPattern.FindString(text)
		if token != "" {
			year, err := strconv.Atoi(token)
			if err == nil && year < now.Year() {
				return time.Date(
					now.Year(), parsed.Month(), parsed.Day(),
					parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
					parsed.Location(),
				)
			}
		}
	}

	return parsed
}

func parseExpiry(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// NormalizeName canonicalizes an item name for equality comparison: trimmed,
// case-folded, internal whitespace runs collapsed to a single space. The
// original display name is kept elsewhere.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ExpiryKey is the calendar-day component of a grouping key.
func ExpiryKey(expiryAt time.Time) string {
	return expiryAt.UTC().Format("2006-01-02")
}
