package calculation

import "time"

// Clock and seed sources, replaceable for deterministic tests. Passing nil
// to a setter restores the default.
var (
	nowFunc  = time.Now
	seedFunc = defaultSeed
)

func defaultSeed() int64 { return time.Now().UnixNano() }

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) {
	if f == nil {
		f = time.Now
	}
	nowFunc = f
}

// SetSeedFunc overrides the Monte Carlo seed provider (use only in tests).
func SetSeedFunc(f func() int64) {
	if f == nil {
		f = defaultSeed
	}
	seedFunc = f
}

// Now returns the current time of the configured clock.
func Now() time.Time { return nowFunc() }
