// Package scheduler implements the spacing-interval update rule and the
// histogram bucketing used to classify a problem's current interval. Every
// function here is pure: given the same inputs (including the same random
// draw) the outputs are identical, which is what makes the store's use of
// this package transactionally safe to retry.
package scheduler

import (
	"fmt"
	"math/rand"
)

// MinInterval is the floor every interval is clamped to. It keeps newly
// failed items asking promptly without busy-looping.
const MinInterval = 5.0

// jitterLow and jitterHigh bound the uniform multiplier applied to the
// scored interval so that items sharing a factor don't all come due at
// the same instant.
const (
	jitterLow  = 0.75
	jitterHigh = 0.5 // range width; draw is jitterLow + rand*jitterHigh
)

// factors maps a 1..=4 score to the interval multiplier from §4.2.
var factors = map[int]float64{
	1: 0.25,
	2: 0.90,
	3: 1.20,
	4: 2.20,
}

// Rand is the RNG boundary: tests inject a seeded or fixed source so that
// Continue(s) outcomes are reproducible.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// SystemRand draws from its own math/rand source, seeded at construction.
type SystemRand struct{ r *rand.Rand }

// NewSystemRand returns a Rand seeded from seed (use a fixed seed in tests
// for reproducibility, a time-derived seed in production).
func NewSystemRand(seed int64) SystemRand {
	return SystemRand{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a value in [0, 1).
func (s SystemRand) Float64() float64 { return s.r.Float64() }

// FixedRand always returns the same draw — useful for pinning a specific
// jitter value in a test (e.g. the S6 interval-floor scenario checks the
// rule holds for any j in [0.75, 1.25)).
type FixedRand float64

// Float64 returns the fixed draw.
func (f FixedRand) Float64() float64 { return float64(f) }

// Update computes the new (interval, next) pair for a problem scored s
// against its current interval, at wall-clock time now. It is a
// programmer error to call Update with a score outside 1..=4; that case
// is reported by the caller via errs.Usage before Update is ever reached,
// so Update itself panics rather than silently misbehaving.
func Update(r Rand, currentInterval float64, score int, now float64) (newInterval, next float64) {
	factor, ok := factors[score]
	if !ok {
		panic(fmt.Sprintf("scheduler: score %d out of range 1..=4", score))
	}

	j := jitterLow + r.Float64()*jitterHigh
	newInterval = currentInterval * factor * j
	if newInterval < MinInterval {
		newInterval = MinInterval
	}
	next = now + newInterval
	return newInterval, next
}

// Bucket labels a problem by the order of magnitude of its interval.
type Bucket string

const (
	BucketSec Bucket = "sec"
	BucketMin Bucket = "min"
	BucketHr  Bucket = "hr"
	BucketDay Bucket = "day"
	BucketMon Bucket = "mon"
)

// bucketOrder lists the cumulative per-step limits: ≤60s, ≤1h, ≤1d, ≤30d,
// else the catch-all "mon" bucket.
var bucketOrder = []struct {
	bucket Bucket
	limit  float64
}{
	{BucketSec, 60},
	{BucketMin, 60 * 60},
	{BucketHr, 60 * 60 * 24},
	{BucketDay, 60 * 60 * 24 * 30},
	{BucketMon, 1e30},
}

// BucketOf returns the first bucket whose upper bound the interval does
// not exceed. Every interval ≥ 0 falls in exactly one of the five
// buckets — BucketOf is a total function.
func BucketOf(interval float64) Bucket {
	for _, b := range bucketOrder {
		if interval <= b.limit {
			return b.bucket
		}
	}
	return BucketMon
}

// humanizeSteps walks seconds→minutes→hours→days→months→years, the same
// chain spec.md §4.2 describes, stopping at the largest unit whose divisor
// has not yet been exceeded.
var humanizeSteps = []struct {
	unit    string
	divisor float64
}{
	{"sec", 1},
	{"min", 60},
	{"hr", 60},
	{"day", 24},
	{"mon", 365},
	{"yr", 12},
}

// Humanize formats a raw seconds value as "<v.v> <unit>" using the largest
// unit whose divisor has not yet been exceeded. This is read-only display
// plumbing: it never feeds back into scheduling decisions.
func Humanize(seconds float64) string {
	value := seconds
	unit := humanizeSteps[0].unit

	for i := 1; i < len(humanizeSteps); i++ {
		if value < humanizeSteps[i].divisor {
			break
		}
		value /= humanizeSteps[i].divisor
		unit = humanizeSteps[i].unit
	}

	return fmt.Sprintf("%.1f %s", value, unit)
}
