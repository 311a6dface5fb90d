package ownership

import (
	"ownck/internal/cfg"
)

// movedPath records one moved sub-path of a local. Cond marks a move that
// happened on only some of the incoming paths: the merged state behaves
// like Moved for unconditional uses but turns Owned again once every path
// reassigns first.
type movedPath struct {
	Place cfg.Place
	At    cfg.PointID
	Cond  bool
}

// state maps each local to its moved sub-paths. Absence means the local is
// fully owned (or not yet initialized, which the front end's definite
// initialization pass rules out); an entry with the empty projection path
// means the whole local is gone. The map is the join lattice: empty is top,
// entries only accumulate, and the number of distinct projection paths per
// binding bounds the height, so the fixed point terminates.
type state map[cfg.LocalID]map[string]movedPath

func (s state) clone() state {
	out := make(state, len(s))
	for l, paths := range s {
		cp := make(map[string]movedPath, len(paths))
		for k, v := range paths {
			cp[k] = v
		}
		out[l] = cp
	}
	return out
}

// markMoved records that place was moved at pt.
func (s state) markMoved(place cfg.Place, pt cfg.PointID) {
	paths := s[place.Local]
	if paths == nil {
		paths = make(map[string]movedPath, 1)
		s[place.Local] = paths
	}
	key := place.PathKey()
	if prev, ok := paths[key]; ok && prev.At <= pt {
		return
	}
	paths[key] = movedPath{Place: place, At: pt, Cond: false}
}

// reinit clears moved entries covered by a write to place: the written path
// itself and everything below it. A whole-local write erases all entries.
func (s state) reinit(place cfg.Place) {
	if len(place.Proj) == 0 {
		delete(s, place.Local)
		return
	}
	paths := s[place.Local]
	for key, mp := range paths {
		if place.IsPrefixOf(mp.Place) {
			delete(paths, key)
		}
	}
	if len(paths) == 0 {
		delete(s, place.Local)
	}
}

// lookup finds the moved entry that invalidates a use of place: any moved
// path that is a prefix of the use (the parent is gone) or that the use is
// a prefix of (a sub-path is gone, so the whole is only partially owned).
func (s state) lookup(place cfg.Place) (movedPath, bool) {
	paths := s[place.Local]
	if len(paths) == 0 {
		return movedPath{}, false
	}
	best := movedPath{}
	found := false
	for _, mp := range paths {
		if !mp.Place.IsPrefixOf(place) && !place.IsPrefixOf(mp.Place) {
			continue
		}
		if !found || mp.At < best.At {
			best = mp
			found = true
		}
	}
	return best, found
}

// blockedPrefix finds a moved strict prefix of place: a projected write
// through a moved parent is still a use of that parent.
func (s state) blockedPrefix(place cfg.Place) (movedPath, bool) {
	paths := s[place.Local]
	for _, mp := range paths {
		if len(mp.Place.Proj) < len(place.Proj) && mp.Place.IsPrefixOf(place) {
			return mp, true
		}
	}
	return movedPath{}, false
}

// join merges two predecessor states. A path moved on both sides stays
// moved (earliest point wins, conditional if either side was); a path
// moved on one side only becomes conditionally moved.
func join(a, b state) state {
	out := make(state, len(a)+len(b))
	for l, ap := range a {
		merged := make(map[string]movedPath, len(ap))
		bp := b[l]
		for k, av := range ap {
			if bv, ok := bp[k]; ok {
				v := av
				if bv.At < v.At {
					v.At = bv.At
				}
				v.Cond = av.Cond || bv.Cond
				merged[k] = v
			} else {
				av.Cond = true
				merged[k] = av
			}
		}
		for k, bv := range bp {
			if _, ok := ap[k]; !ok {
				bv.Cond = true
				merged[k] = bv
			}
		}
		out[l] = merged
	}
	for l, bp := range b {
		if _, ok := a[l]; ok {
			continue
		}
		merged := make(map[string]movedPath, len(bp))
		for k, bv := range bp {
			bv.Cond = true
			merged[k] = bv
		}
		out[l] = merged
	}
	return out
}

func stateEqual(a, b state) bool {
	if len(a) != len(b) {
		return false
	}
	for l, ap := range a {
		bp, ok := b[l]
		if !ok || len(ap) != len(bp) {
			return false
		}
		for k, av := range ap {
			bv, ok := bp[k]
			if !ok || av.At != bv.At || av.Cond != bv.Cond {
				return false
			}
		}
	}
	return true
}
