package inventory

import (
	"time"
)

type Status string

const (
	StatusExpired Status = "expired"
	StatusUseSoon Status = "use_soon"
	StatusFresh   Status = "fresh"
)

const useSoonWindow = 3 * day

// Classify maps an expiry timestamp to a freshness tier relative to now.
func Classify(expiryAt, now time.Time) Status {
	diff := expiryAt.Sub(now)
	if diff < 0 {
		return StatusExpired
	}
	if diff <= useSoonWindow {
		return StatusUseSoon
	}
	return StatusFresh
}

// Urgency orders tiers for display, most urgent first.
func (s Status) Urgency() int {
	switch s {
	case StatusExpired:
		return 0
	case StatusUseSoon:
		return 1
	default:
		return 2
	}
}
