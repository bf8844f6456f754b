package darkgraph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

var (
	// ErrMalformedBucket is returned when a bucket element lacks a position or
	// carries a byte count that is not an unsigned integer.
	ErrMalformedBucket = errors.New("malformed bucket")
	// ErrMalformedHeader is returned when a root counter is missing or not numeric.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrSeriesNotFound is returned when a configured series has no element in the response.
	ErrSeriesNotFound = errors.New("series not found")
)

// Bucket is one fixed-duration interval of a series.
type Bucket struct {
	Position string
	In       uint64
	Out      uint64
}

// Total returns the combined byte count of both directions.
func (b Bucket) Total() uint64 {
	return b.In + b.Out
}

// Header carries the collector-wide counters sent with every poll response.
type Header struct {
	TotalBytes   uint64 // tb
	TotalPackets uint64 // tp
	Captured     uint64 // pc
	Dropped      uint64 // pd
	RunningFor   string // rf
}

// Snapshot is one parsed poll response.
type Snapshot struct {
	Seq       uint64
	FetchedAt time.Time
	Header    Header

	order  []string
	series map[string][]Bucket
}

// Buckets returns the records of the named series in document order.
func (s *Snapshot) Buckets(name string) ([]Bucket, error) {
	b, ok := s.series[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, name)
	}
	return b, nil
}

// SeriesNames returns the series element names in document order.
func (s *Snapshot) SeriesNames() []string {
	return s.order
}

type graphsDoc struct {
	XMLName xml.Name
	TB      *string         `xml:"tb,attr"`
	TP      *string         `xml:"tp,attr"`
	PC      *string         `xml:"pc,attr"`
	PD      *string         `xml:"pd,attr"`
	RF      string          `xml:"rf,attr"`
	Series  []seriesElement `xml:",any"`
}

type seriesElement struct {
	XMLName xml.Name
	Buckets []bucketElement `xml:"e"`
}

type bucketElement struct {
	P *string `xml:"p,attr"`
	I *string `xml:"i,attr"`
	O *string `xml:"o,attr"`
}

// ParseGraphs decodes a graphs document. Any bucket or counter that cannot
// be read rejects the whole response; nothing is coerced to zero.
func ParseGraphs(r io.Reader) (*Snapshot, error) {
	var doc graphsDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graphs: %w", err)
	}

	header, err := doc.header()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Header: header,
		series: make(map[string][]Bucket, len(doc.Series)),
	}
	for _, se := range doc.Series {
		name := se.XMLName.Local
		if _, dup := snap.series[name]; dup {
			// first element of a name wins, like a lookup by tag name would
			continue
		}
		buckets := make([]Bucket, 0, len(se.Buckets))
		for i, be := range se.Buckets {
			b, err := be.bucket()
			if err != nil {
				return nil, fmt.Errorf("series %q bucket %d: %w", name, i, err)
			}
			buckets = append(buckets, b)
		}
		snap.order = append(snap.order, name)
		snap.series[name] = buckets
	}
	return snap, nil
}

func (d graphsDoc) header() (Header, error) {
	h := Header{RunningFor: d.RF}
	for _, c := range []struct {
		name string
		raw  *string
		dst  *uint64
	}{
		{"tb", d.TB, &h.TotalBytes},
		{"tp", d.TP, &h.TotalPackets},
		{"pc", d.PC, &h.Captured},
		{"pd", d.PD, &h.Dropped},
	} {
		v, err := parseCount(c.raw)
		if err != nil {
			return Header{}, fmt.Errorf("%w: %s: %v", ErrMalformedHeader, c.name, err)
		}
		*c.dst = v
	}
	return h, nil
}

func (e bucketElement) bucket() (Bucket, error) {
	if e.P == nil {
		return Bucket{}, fmt.Errorf("%w: missing position", ErrMalformedBucket)
	}
	in, err := parseCount(e.I)
	if err != nil {
		return Bucket{}, fmt.Errorf("%w: i: %v", ErrMalformedBucket, err)
	}
	out, err := parseCount(e.O)
	if err != nil {
		return Bucket{}, fmt.Errorf("%w: o: %v", ErrMalformedBucket, err)
	}
	if in > math.MaxUint64-out {
		return Bucket{}, fmt.Errorf("%w: i+o overflows", ErrMalformedBucket)
	}
	return Bucket{Position: *e.P, In: in, Out: out}, nil
}

func parseCount(raw *string) (uint64, error) {
	if raw == nil {
		return 0, errors.New("missing")
	}
	return strconv.ParseUint(*raw, 10, 64)
}

// isMalformed reports whether err came from the content of a response rather
// than from getting it.
func isMalformed(err error) bool {
	var syntax *xml.SyntaxError
	var unmarshal xml.UnmarshalError
	return errors.Is(err, ErrMalformedBucket) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrSeriesNotFound) ||
		errors.Is(err, io.EOF) ||
		errors.As(err, &syntax) ||
		errors.As(err, &unmarshal)
}
