package timeseries

import "github.com/icodeforyou/spotboard-go/types/maybe"

// MovingAverage is the mean of the latest size values. It has no value until
// size values have been added, nor while any of them is missing.
type MovingAverage struct {
	window  []maybe.Maybe[float64]
	size    int
	sum     float64
	missing int
	index   int
	full    bool
}

func NewMovingAverage(size int) *MovingAverage {
	if size <= 0 {
		panic("moving average size must be positive")
	}
	return &MovingAverage{
		window: make([]maybe.Maybe[float64], size),
		size:   size,
	}
}

func (ma *MovingAverage) Add(value maybe.Maybe[float64]) {
	if ma.full {
		ma.drop(ma.window[ma.index])
	}

	ma.window[ma.index] = value
	if value.IsValid() {
		ma.sum += value.Value()
	} else {
		ma.missing++
	}
	ma.index = (ma.index + 1) % ma.size

	if ma.index == 0 {
		ma.full = true
	}
}

func (ma *MovingAverage) drop(value maybe.Maybe[float64]) {
	if value.IsValid() {
		ma.sum -= value.Value()
	} else {
		ma.missing--
	}
}

func (ma *MovingAverage) Avg() maybe.Maybe[float64] {
	if !ma.full || ma.missing > 0 {
		return maybe.None[float64]()
	}
	return maybe.Some(ma.sum / float64(ma.size))
}

func (ma *MovingAverage) Reset() {
	ma.sum = 0
	ma.missing = 0
	ma.index = 0
	ma.full = false
	for i := range ma.window {
		ma.window[i] = maybe.None[float64]()
	}
}

// RollingMean returns the trailing mean over window values for every position.
// The first window-1 positions have no value.
func RollingMean(values []maybe.Maybe[float64], window int) []maybe.Maybe[float64] {
	out := make([]maybe.Maybe[float64], len(values))
	if window <= 0 {
		return out
	}
	ma := NewMovingAverage(window)
	for i, v := range values {
		ma.Add(v)
		out[i] = ma.Avg()
	}
	return out
}
