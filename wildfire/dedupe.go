package wildfire

import "github.com/cespare/xxhash/v2"

// Deduper remembers feature content hashes. The merged USGS export carries
// the same fire polygon more than once across tiers; hashing the raw bytes
// is enough to drop exact repeats without keeping the features around.
type Deduper struct {
	seen map[uint64]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[uint64]struct{})}
}

// Seen reports whether raw was passed in before, and records it.
func (d *Deduper) Seen(raw []byte) bool {
	sum := xxhash.Sum64(raw)
	if _, ok := d.seen[sum]; ok {
		return true
	}
	d.seen[sum] = struct{}{}
	return false
}

// Count returns how many distinct features have been recorded.
func (d *Deduper) Count() int {
	return len(d.seen)
}
