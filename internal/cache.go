package darkgraph

// Cache holds the most recently applied poll response and hands out the
// sequence numbers that tag each fetch.
//
// By default the last response to arrive wins, even when an older request
// completes after a newer one. With strict ordering, responses older than
// the one already applied are dropped.
type Cache struct {
	strict  bool
	nextSeq uint64
	applied uint64
	latest  *Snapshot
}

func NewCache(strict bool) *Cache {
	return &Cache{strict: strict}
}

// NextSeq returns the sequence number for a fetch about to be issued.
func (c *Cache) NextSeq() uint64 {
	c.nextSeq++
	return c.nextSeq
}

// Newest reports whether seq belongs to the most recently issued fetch.
func (c *Cache) Newest(seq uint64) bool {
	return seq == c.nextSeq
}

// Stale reports whether a response tagged seq must be dropped.
func (c *Cache) Stale(seq uint64) bool {
	return c.strict && seq < c.applied
}

// Apply stores snap unless strict ordering rejects it as stale.
func (c *Cache) Apply(snap *Snapshot) bool {
	if c.Stale(snap.Seq) {
		return false
	}
	c.applied = snap.Seq
	c.latest = snap
	return true
}

// Latest returns the applied snapshot, nil before the first one.
func (c *Cache) Latest() *Snapshot {
	return c.latest
}
