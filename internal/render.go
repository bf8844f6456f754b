package darkgraph

import (
	"fmt"

	"go.uber.org/multierr"
)

// BarView is one bucket ready to draw: its geometry plus the tooltip text.
type BarView struct {
	Bar
	Bucket  Bucket
	Tooltip string
}

// LegendRow is one line of a chart legend.
type LegendRow struct {
	Direction string // "in" or "out"
	Min       string
	Avg       string
	Max       string
}

// SeriesView is everything needed to draw one chart. It is rebuilt from
// scratch for every poll and never patched.
type SeriesView struct {
	Series    Series
	Dims      Dimensions
	Aggregate Aggregate
	Bars      []BarView
	Legend    [2]LegendRow
}

// Renderer turns a poll response into chart views for the configured series.
type Renderer struct {
	series []Series
	dims   Dimensions
}

func NewRenderer(series []Series, dims Dimensions) *Renderer {
	return &Renderer{series: series, dims: dims}
}

// Series returns the configured series in display order.
func (r *Renderer) Series() []Series {
	return r.series
}

// Render builds the views of every series, in configured order. If any
// series cannot be built no views are returned, so callers either replace
// all charts or keep all the old ones.
func (r *Renderer) Render(snap *Snapshot) ([]SeriesView, error) {
	var errs error
	views := make([]SeriesView, 0, len(r.series))
	for _, s := range r.series {
		buckets, err := snap.Buckets(s.Name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		views = append(views, BuildView(s, buckets, r.dims))
	}
	if errs != nil {
		return nil, fmt.Errorf("render aborted: %w", errs)
	}
	return views, nil
}

// BuildView lays out and summarizes one series.
func BuildView(s Series, buckets []Bucket, dims Dimensions) SeriesView {
	agg := Summarize(buckets)
	bars := Layout(buckets, dims)
	secs := float64(s.BucketSeconds)

	view := SeriesView{
		Series:    s,
		Dims:      dims,
		Aggregate: agg,
		Bars:      make([]BarView, len(bars)),
	}
	for i, bar := range bars {
		view.Bars[i] = BarView{
			Bar:     bar,
			Bucket:  buckets[i],
			Tooltip: Tooltip(buckets[i], secs),
		}
	}
	view.Legend = [2]LegendRow{
		legendRow("in", float64(agg.MinIn), agg.AvgIn, float64(agg.MaxIn), secs),
		legendRow("out", float64(agg.MinOut), agg.AvgOut, float64(agg.MaxOut), secs),
	}
	return view
}

// Tooltip describes a bucket: its position, byte counts and per-second rates.
func Tooltip(b Bucket, bucketSeconds float64) string {
	return fmt.Sprintf("%s: %s bytes in, %s bytes out | %s KB/s in, %s KB/s out",
		b.Position,
		Thousands(b.In),
		Thousands(b.Out),
		RateCompact(float64(b.In)/bucketSeconds),
		RateCompact(float64(b.Out)/bucketSeconds),
	)
}

func legendRow(dir string, min, avg, max, secs float64) LegendRow {
	return LegendRow{
		Direction: dir,
		Min:       RateFraction(min/secs) + " KB/s",
		Avg:       RateFraction(avg/secs) + " KB/s",
		Max:       RateFraction(max/secs) + " KB/s",
	}
}

// HeaderView is the collector-wide counter line, formatted for display.
type HeaderView struct {
	TotalBytes   string
	TotalPackets string
	Captured     string
	Dropped      string
	RunningFor   string
}

// FormatHeader formats the counters with thousands separators.
func FormatHeader(h Header) HeaderView {
	return HeaderView{
		TotalBytes:   Thousands(h.TotalBytes),
		TotalPackets: Thousands(h.TotalPackets),
		Captured:     Thousands(h.Captured),
		Dropped:      Thousands(h.Dropped),
		RunningFor:   h.RunningFor,
	}
}
