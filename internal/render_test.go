package darkgraph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var secondsSeries = Series{ID: "g0", Name: "seconds", Title: "last 60 seconds", BucketSeconds: 1}

func TestBuildView(t *testing.T) {
	buckets := []Bucket{
		{Position: "0", In: 100, Out: 50},
		{Position: "1", In: 0, Out: 0},
		{Position: "2", In: 300, Out: 10},
	}
	view := BuildView(secondsSeries, buckets, Dimensions{Width: 320, Height: 100, Gap: 1})

	require.Len(t, view.Bars, 3)
	var heightsIn, heightsOut []int
	for _, b := range view.Bars {
		heightsIn = append(heightsIn, b.HeightIn)
		heightsOut = append(heightsOut, b.HeightOut)
	}
	assert.Equal(t, []int{32, 0, 97}, heightsIn)
	assert.Equal(t, []int{16, 0, 3}, heightsOut)

	assert.Equal(t, "0: 100 bytes in, 50 bytes out | 0.098 KB/s in, 0.049 KB/s out", view.Bars[0].Tooltip)
	assert.Equal(t, "1: 0 bytes in, 0 bytes out | 0.0 KB/s in, 0.0 KB/s out", view.Bars[1].Tooltip)

	want := [2]LegendRow{
		{Direction: "in", Min: "0.1 KB/s", Avg: "0.1 KB/s", Max: "0.3 KB/s"},
		{Direction: "out", Min: "0.0 KB/s", Avg: "0.0 KB/s", Max: "0.0 KB/s"},
	}
	if diff := cmp.Diff(want, view.Legend); diff != "" {
		t.Errorf("legend diff (-want +got):\n%s", diff)
	}
}

func TestBuildViewScalesRatesByBucketLength(t *testing.T) {
	minutes := Series{Name: "minutes", Title: "last 60 minutes", BucketSeconds: 60}
	buckets := []Bucket{{Position: "7", In: 6144000, Out: 1234567}}

	view := BuildView(minutes, buckets, Dimensions{Width: 60, Height: 10})
	assert.Equal(t, "7: 6,144,000 bytes in, 1,234,567 bytes out | 100.0 KB/s in, 20.1 KB/s out", view.Bars[0].Tooltip)
	assert.Equal(t, "100.0 KB/s", view.Legend[0].Max)
	assert.Equal(t, "20.1 KB/s", view.Legend[1].Avg)
}

func TestRendererKeepsConfiguredOrder(t *testing.T) {
	snap := mustParse(t, sampleGraphs)
	r := NewRenderer(DefaultSeries(), Dimensions{Width: 60, Height: 10})

	views, err := r.Render(snap)
	require.NoError(t, err)

	var names []string
	for _, v := range views {
		names = append(names, v.Series.Name)
	}
	assert.Equal(t, []string{"seconds", "minutes", "hours", "days"}, names)
	assert.Empty(t, views[2].Bars)
}

func TestRendererAbortsOnMissingSeries(t *testing.T) {
	snap := mustParse(t, `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e p="0" i="1" o="1"/></seconds></graphs>`)
	r := NewRenderer(DefaultSeries(), Dimensions{Width: 60, Height: 10})

	views, err := r.Render(snap)
	assert.Nil(t, views)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
	assert.Len(t, multierr.Errors(unwrapRender(err)), 3)
}

func TestFormatHeader(t *testing.T) {
	got := FormatHeader(Header{TotalBytes: 9876543, TotalPackets: 1200, Captured: 1300, Dropped: 4, RunningFor: "1 min"})
	assert.Equal(t, HeaderView{
		TotalBytes:   "9,876,543",
		TotalPackets: "1,200",
		Captured:     "1,300",
		Dropped:      "4",
		RunningFor:   "1 min",
	}, got)
}

func mustParse(t *testing.T, doc string) *Snapshot {
	t.Helper()
	snap, err := ParseGraphs(strings.NewReader(doc))
	require.NoError(t, err)
	return snap
}

// unwrapRender strips the abort prefix so the combined series errors can be counted.
func unwrapRender(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return err
}
