package darkgraph

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGraphs = `<?xml version="1.0" encoding="UTF-8"?>
<graphs tp="1200" tb="9876543" pc="1300" pd="4" rf="3 hours, 12 mins">
<seconds>
<e p="0" i="100" o="50"/>
<e p="1" i="0" o="0"/>
<e p="2" i="300" o="10"/>
</seconds>
<minutes>
<e p="0" i="6000" o="3000"/>
</minutes>
<hours></hours>
<days>
<e p="0" i="1" o="2"/>
</days>
</graphs>`

func TestParseGraphs(t *testing.T) {
	snap, err := ParseGraphs(strings.NewReader(sampleGraphs))
	require.NoError(t, err)

	assert.Equal(t, Header{
		TotalBytes:   9876543,
		TotalPackets: 1200,
		Captured:     1300,
		Dropped:      4,
		RunningFor:   "3 hours, 12 mins",
	}, snap.Header)
	assert.Equal(t, []string{"seconds", "minutes", "hours", "days"}, snap.SeriesNames())

	seconds, err := snap.Buckets("seconds")
	require.NoError(t, err)
	want := []Bucket{
		{Position: "0", In: 100, Out: 50},
		{Position: "1", In: 0, Out: 0},
		{Position: "2", In: 300, Out: 10},
	}
	if diff := cmp.Diff(want, seconds); diff != "" {
		t.Errorf("seconds diff (-want +got):\n%s", diff)
	}

	hours, err := snap.Buckets("hours")
	require.NoError(t, err)
	assert.Empty(t, hours)
}

func TestParseGraphsMissingSeries(t *testing.T) {
	snap, err := ParseGraphs(strings.NewReader(sampleGraphs))
	require.NoError(t, err)

	_, err = snap.Buckets("weeks")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
	assert.True(t, isMalformed(err))
}

func TestParseGraphsFirstElementWins(t *testing.T) {
	doc := `<graphs tp="0" tb="0" pc="0" pd="0" rf="">
<seconds><e p="0" i="1" o="1"/></seconds>
<seconds><e p="0" i="9" o="9"/><e p="1" i="9" o="9"/></seconds>
</graphs>`
	snap, err := ParseGraphs(strings.NewReader(doc))
	require.NoError(t, err)

	seconds, err := snap.Buckets("seconds")
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Position: "0", In: 1, Out: 1}}, seconds)
	assert.Equal(t, []string{"seconds"}, snap.SeriesNames())
}

func TestParseGraphsRejectsMalformed(t *testing.T) {
	for _, test := range []struct {
		description string
		doc         string
		sentinel    error
	}{{
		description: "non numeric inbound count",
		doc:         `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e p="0" i="lots" o="1"/></seconds></graphs>`,
		sentinel:    ErrMalformedBucket,
	}, {
		description: "negative outbound count",
		doc:         `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e p="0" i="1" o="-1"/></seconds></graphs>`,
		sentinel:    ErrMalformedBucket,
	}, {
		description: "missing outbound count",
		doc:         `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e p="0" i="1"/></seconds></graphs>`,
		sentinel:    ErrMalformedBucket,
	}, {
		description: "missing position",
		doc:         `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e i="1" o="1"/></seconds></graphs>`,
		sentinel:    ErrMalformedBucket,
	}, {
		description: "bucket total overflows",
		doc:         `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e p="0" i="18446744073709551615" o="1"/><e p="1" i="10" o="0"/></seconds></graphs>`,
		sentinel:    ErrMalformedBucket,
	}, {
		description: "missing total bytes",
		doc:         `<graphs tp="0" pc="0" pd="0" rf=""><seconds/></graphs>`,
		sentinel:    ErrMalformedHeader,
	}, {
		description: "non numeric drop count",
		doc:         `<graphs tp="0" tb="0" pc="0" pd="x" rf=""><seconds/></graphs>`,
		sentinel:    ErrMalformedHeader,
	}} {
		t.Run(test.description, func(t *testing.T) {
			snap, err := ParseGraphs(strings.NewReader(test.doc))
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, test.sentinel)
			assert.True(t, isMalformed(err))
		})
	}
}

func TestParseGraphsLargestTotal(t *testing.T) {
	doc := `<graphs tp="0" tb="0" pc="0" pd="0" rf=""><seconds><e p="0" i="18446744073709551614" o="1"/><e p="1" i="10" o="0"/></seconds></graphs>`
	snap := mustParse(t, doc)

	seconds, err := snap.Buckets("seconds")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), MaxTotal(seconds))

	bars := Layout(seconds, Dimensions{Width: 10, Height: 100})
	require.Len(t, bars, 2)
	assert.Equal(t, 100, bars[0].HeightIn)
	assert.Equal(t, 0, bars[0].HeightOut)
	assert.Equal(t, 0, bars[1].HeightIn)
}

func TestParseGraphsInvalidDocument(t *testing.T) {
	for _, doc := range []string{
		"",
		"<graphs",
		"<graphs></seconds>",
		"not xml at all",
	} {
		_, err := ParseGraphs(strings.NewReader(doc))
		require.Error(t, err, "document %q", doc)
		assert.True(t, isMalformed(err), "document %q: %v", doc, err)
	}
}
