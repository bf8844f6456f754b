package darkgraph

import (
	"time"
)

const (
	// RELOAD_INTERVAL is the time between auto-reload fetches in milliseconds
	RELOAD_INTERVAL = 1000

	// GRAPH_WIDTH and GRAPH_HEIGHT are the terminal chart dimensions in cells
	GRAPH_WIDTH  = 60
	GRAPH_HEIGHT = 10
	BAR_GAP      = 0

	// HTML_GRAPH_WIDTH and HTML_GRAPH_HEIGHT are the snapshot page dimensions in pixels
	HTML_GRAPH_WIDTH  = 320
	HTML_GRAPH_HEIGHT = 200
	HTML_BAR_GAP      = 1

	// DEFAULT_URL is where darkstat serves its graph data out of the box
	DEFAULT_URL = "http://localhost:667/graphs.xml"

	// STALE_DATE is sent as If-Modified-Since so no cache ever answers the poll
	STALE_DATE = "Sat, 1 Jan 2000 00:00:00 GMT"
)

// ReloadDuration returns the auto-reload interval as a time.Duration
func ReloadDuration() time.Duration {
	return time.Duration(RELOAD_INTERVAL) * time.Millisecond
}

// DefaultSeries returns the four graphs darkstat keeps: seconds, minutes, hours and days
func DefaultSeries() []Series {
	return []Series{
		{ID: "g0", Name: "seconds", Title: "last 60 seconds", BucketSeconds: 1},
		{ID: "g1", Name: "minutes", Title: "last 60 minutes", BucketSeconds: 60},
		{ID: "g2", Name: "hours", Title: "last 24 hours", BucketSeconds: 3600},
		{ID: "g3", Name: "days", Title: "last 31 days", BucketSeconds: 86400},
	}
}
