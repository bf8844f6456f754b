package darkgraph

// Aggregate holds the legend statistics of one series for one render pass.
type Aggregate struct {
	TotalMax uint64

	MinIn, MaxIn uint64
	AvgIn        float64

	MinOut, MaxOut uint64
	AvgOut         float64
}

// direction tracks min/max/sum of one traffic direction. The sum is kept as
// a float so long series of large counters cannot wrap.
type direction struct {
	min, max uint64
	sum      float64
}

// observe folds v into the running values. The minimum only moves for
// non-zero samples, so a quiet bucket never hides the smallest real one,
// while a direction that never sees traffic keeps min = 0.
func (d *direction) observe(v uint64) {
	if v > 0 && (d.min == 0 || v < d.min) {
		d.min = v
	}
	if v > d.max {
		d.max = v
	}
	d.sum += float64(v)
}

func (d direction) avg(n int) float64 {
	if n == 0 {
		return 0
	}
	return d.sum / float64(n)
}

// Summarize reduces a bucket list to its per-direction statistics.
func Summarize(buckets []Bucket) Aggregate {
	var in, out direction
	for _, b := range buckets {
		in.observe(b.In)
		out.observe(b.Out)
	}

	return Aggregate{
		TotalMax: MaxTotal(buckets),
		MinIn:    in.min,
		MaxIn:    in.max,
		AvgIn:    in.avg(len(buckets)),
		MinOut:   out.min,
		MaxOut:   out.max,
		AvgOut:   out.avg(len(buckets)),
	}
}
