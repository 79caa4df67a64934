package inventory

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		expiryAt time.Time
		want     Status
	}{
		{"just past", now.Add(-time.Second), StatusExpired},
		{"tomorrow", now.Add(24 * time.Hour), StatusUseSoon},
		{"exactly three days", now.Add(3 * 24 * time.Hour), StatusUseSoon},
		{"ten days out", now.Add(10 * 24 * time.Hour), StatusFresh},
		{"exactly now", now, StatusUseSoon},
	}
	for _, tc := range cases {
		if got := Classify(tc.expiryAt, now); got != tc.want {
			t.Errorf("%s: Classify = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStatusUrgency(t *testing.T) {
	if !(StatusExpired.Urgency() < StatusUseSoon.Urgency() &&
		StatusUseSoon.Urgency() < StatusFresh.Urgency()) {
		t.Error("urgency ordering should be expired < use_soon < fresh")
	}
}
