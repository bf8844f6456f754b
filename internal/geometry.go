package darkgraph

import (
	"math"
)

// Dimensions is the fixed drawing area of one chart. Units are whatever the
// target draws in: terminal cells for the dashboard, pixels for HTML.
type Dimensions struct {
	Width  int
	Height int
	Gap    int
}

// Bar is the geometry of one bucket. The outbound segment sits directly on
// top of the inbound one, so it starts at HeightIn.
type Bar struct {
	X         int
	Width     int
	HeightIn  int
	HeightOut int
}

// BottomOut returns the offset of the outbound segment from the baseline.
func (b Bar) BottomOut() int {
	return b.HeightIn
}

// MaxTotal returns the largest combined in+out count over the buckets.
func MaxTotal(buckets []Bucket) uint64 {
	var m uint64
	for _, b := range buckets {
		if t := b.Total(); t > m {
			m = t
		}
	}
	return m
}

// Layout computes one Bar per bucket, scaled against the series' own maximum.
//
// Bar edges are rounded cumulatively: every right edge is
// round((ideal+gap)*(i+1)) and each bar spans from the previous edge, so the
// widths plus gaps always add up to dims.Width within one unit no matter how
// many bars there are.
func Layout(buckets []Bucket, dims Dimensions) []Bar {
	n := len(buckets)
	if n == 0 {
		return nil
	}

	totalMax := MaxTotal(buckets)
	ideal := float64(dims.Width-dims.Gap*(n-1)) / float64(n)

	bars := make([]Bar, n)
	left := 0
	for i, b := range buckets {
		right := int(math.Round((ideal + float64(dims.Gap)) * float64(i+1)))
		bars[i] = Bar{
			X:         left,
			Width:     right - left - dims.Gap,
			HeightIn:  scale(b.In, totalMax, dims.Height),
			HeightOut: scale(b.Out, totalMax, dims.Height),
		}
		left = right
	}
	return bars
}

// scale maps v onto [0, height] relative to max. An all-zero series has
// max == 0 and draws nothing.
func scale(v, max uint64, height int) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(float64(v) * float64(height) / float64(max)))
}
