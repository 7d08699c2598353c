package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("returns fixed time", func(t *testing.T) {
		clock := NewFakeClock(fixedTime)
		first := clock.Now()
		second := clock.Now()
		if !first.Equal(fixedTime) || !second.Equal(fixedTime) {
			t.Errorf("FakeClock.Now() = %v, %v, want %v", first, second, fixedTime)
		}
	})

	t.Run("set and advance", func(t *testing.T) {
		clock := NewFakeClock(fixedTime)
		clock.Advance(2 * time.Hour)
		if want := fixedTime.Add(2 * time.Hour); !clock.Now().Equal(want) {
			t.Errorf("after Advance: got %v, want %v", clock.Now(), want)
		}

		newTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		clock.Set(newTime)
		if !clock.Now().Equal(newTime) {
			t.Errorf("after Set: got %v, want %v", clock.Now(), newTime)
		}
	})

	t.Run("stepping clock advances on every read", func(t *testing.T) {
		clock := NewSteppingFakeClock(fixedTime, 1500*time.Millisecond)
		start := clock.Now()
		if got := Elapsed(clock, start); got != 1500*time.Millisecond {
			t.Errorf("Elapsed = %v, want 1.5s", got)
		}
	})
}
