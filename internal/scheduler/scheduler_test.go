package scheduler

import (
	"math"
	"testing"
)

func TestUpdateFloor(t *testing.T) {
	// S6 — interval floor: a brand-new problem (interval=5.0) scored 1
	// yields interval' = max(5, 5*0.25*j) = 5.0 exactly, for all j in
	// [0.75, 1.25).
	for _, j := range []float64{0.0, 0.25, 0.5, 0.75, 0.9999} {
		newInterval, next := Update(FixedRand(j), 5.0, 1, 1000.0)
		if newInterval != MinInterval {
			t.Errorf("j=%v: got interval %v, want %v", j, newInterval, MinInterval)
		}
		if next != 1000.0+MinInterval {
			t.Errorf("j=%v: got next %v, want %v", j, next, 1000.0+MinInterval)
		}
	}
}

func TestUpdateMonotone(t *testing.T) {
	// A score of 4 must grow the interval even at the bottom of the
	// jitter range; a score of 1 must shrink it even at the top.
	grown, _ := Update(FixedRand(0.0), 100.0, 4, 0)
	if grown <= 100.0 {
		t.Errorf("score 4 should grow interval, got %v from 100", grown)
	}

	shrunk, _ := Update(FixedRand(0.9999), 100.0, 1, 0)
	if shrunk >= 100.0 {
		t.Errorf("score 1 should shrink interval, got %v from 100", shrunk)
	}
}

func TestUpdateNeverBelowFloor(t *testing.T) {
	for score := 1; score <= 4; score++ {
		for _, j := range []float64{0, 0.3, 0.6, 0.99} {
			interval, _ := Update(FixedRand(j), 0.001, score, 0)
			if interval < MinInterval {
				t.Errorf("score=%d j=%v: interval %v below floor", score, j, interval)
			}
		}
	}
}

func TestUpdatePanicsOnBadScore(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range score")
		}
	}()
	Update(FixedRand(0.5), 10.0, 5, 0)
}

func TestBucketOfTotal(t *testing.T) {
	cases := []struct {
		interval float64
		want     Bucket
	}{
		{0, BucketSec},
		{60, BucketSec},
		{60.01, BucketMin},
		{3600, BucketMin},
		{3600.01, BucketHr},
		{86400, BucketHr},
		{86400.01, BucketDay},
		{86400 * 30, BucketDay},
		{86400*30 + 1, BucketMon},
		{1e20, BucketMon},
	}

	for _, c := range cases {
		got := BucketOf(c.interval)
		if got != c.want {
			t.Errorf("BucketOf(%v) = %v, want %v", c.interval, got, c.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{30, "30.0 sec"},
		{90, "1.5 min"},
		{3600, "1.0 hr"},
	}

	for _, c := range cases {
		got := Humanize(c.seconds)
		if got != c.want {
			t.Errorf("Humanize(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestHumanizeMonotoneUnit(t *testing.T) {
	// Sanity: humanizing a larger duration never regresses to a smaller
	// unit than humanizing a smaller one when both cross the same
	// boundary.
	small := Humanize(30)
	large := Humanize(3600 * 24 * 40)
	if small == large {
		t.Errorf("expected different unit scales, got %q and %q", small, large)
	}
	if math.IsNaN(float64(len(large))) {
		t.Error("unreachable sanity check tripped")
	}
}
