package region

import (
	"math/bits"

	"ownck/internal/cfg"
)

// Region is a set of CFG program points: the span over which a reference is
// considered live. Regions form a containment lattice; A outlives B when
// B is contained in A.
type Region struct {
	words []uint64
}

// New returns an empty region sized for total points.
func New(total int) Region {
	return Region{words: make([]uint64, (total+63)/64)}
}

// Add inserts a point.
func (r Region) Add(p cfg.PointID) {
	r.words[p/64] |= 1 << (p % 64)
}

// Has reports membership.
func (r Region) Has(p cfg.PointID) bool {
	w := int(p / 64)
	if w >= len(r.words) {
		return false
	}
	return r.words[w]&(1<<(p%64)) != 0
}

// Len counts the points in the region.
func (r Region) Len() int {
	n := 0
	for _, w := range r.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether the region contains no points.
func (r Region) Empty() bool {
	for _, w := range r.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (r Region) Clone() Region {
	out := Region{words: make([]uint64, len(r.words))}
	copy(out.words, r.words)
	return out
}

// Union returns the points in either region.
func (r Region) Union(o Region) Region {
	out := r.Clone()
	for i := range o.words {
		if i < len(out.words) {
			out.words[i] |= o.words[i]
		}
	}
	return out
}

// Intersect returns the points in both regions. This is the tie-break for a
// reference with several candidate sources: it is only as long-lived as its
// most restrictive input.
func (r Region) Intersect(o Region) Region {
	out := New(len(r.words) * 64)
	for i := range r.words {
		if i < len(o.words) {
			out.words[i] = r.words[i] & o.words[i]
		}
	}
	return out
}

// ContainedIn reports whether every point of r lies in o, i.e. o outlives r.
func (r Region) ContainedIn(o Region) bool {
	for i, w := range r.words {
		var ow uint64
		if i < len(o.words) {
			ow = o.words[i]
		}
		if w&^ow != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether the regions hold the same points.
func (r Region) Equal(o Region) bool {
	n := len(r.words)
	if len(o.words) > n {
		n = len(o.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(r.words) {
			a = r.words[i]
		}
		if i < len(o.words) {
			b = o.words[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// Points lists the members in ascending order.
func (r Region) Points() []cfg.PointID {
	var out []cfg.PointID
	for i, w := range r.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, cfg.PointID(i*64+bit))
			w &^= 1 << bit
		}
	}
	return out
}

// Max returns the largest point in the region; ok is false when empty.
func (r Region) Max() (cfg.PointID, bool) {
	for i := len(r.words) - 1; i >= 0; i-- {
		if r.words[i] != 0 {
			bit := 63 - bits.LeadingZeros64(r.words[i])
			return cfg.PointID(i*64 + bit), true
		}
	}
	return 0, false
}
