package clock

import (
	"testing"
	"time"
)

func TestFromSimulationDate(t *testing.T) {
	c := FromSimulationDate("2025-03-15")
	fixed, ok := c.(Fixed)
	if !ok {
		t.Fatalf("FromSimulationDate returned %T, want Fixed", c)
	}
	want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !fixed.Instant.Equal(want) {
		t.Errorf("Instant = %v, want %v", fixed.Instant, want)
	}
}

func TestFromSimulationDateFallsBackToRealClock(t *testing.T) {
	for _, raw := range []string{"", "not-a-date", "15/03/2025"} {
		if _, ok := FromSimulationDate(raw).(Real); !ok {
			t.Errorf("FromSimulationDate(%q) did not fall back to Real", raw)
		}
	}
}

func TestFixedToday(t *testing.T) {
	f := Fixed{Instant: time.Date(2025, time.March, 15, 18, 42, 7, 0, time.UTC)}
	want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := f.Today(); !got.Equal(want) {
		t.Errorf("Today = %v, want %v", got, want)
	}
	if !f.Now().Equal(f.Instant) {
		t.Errorf("Now = %v, want %v", f.Now(), f.Instant)
	}
}
