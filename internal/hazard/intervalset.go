package hazard

// intervalSet maintains a sorted list of disjoint half-open byte intervals.
// It backs the tracker's invalidation state; sizes stay small in practice
// (one entry per outstanding invalidated region).
type intervalSet struct {
	spans []span
}

type span struct {
	lo, hi int
}

// add inserts [lo, hi), coalescing with any touching or overlapping spans.
func (s *intervalSet) add(lo, hi int) {
	if hi <= lo {
		return
	}
	out := make([]span, 0, len(s.spans)+1)
	i := 0
	for ; i < len(s.spans) && s.spans[i].hi < lo; i++ {
		out = append(out, s.spans[i])
	}
	for ; i < len(s.spans) && s.spans[i].lo <= hi; i++ {
		lo = min(lo, s.spans[i].lo)
		hi = max(hi, s.spans[i].hi)
	}
	out = append(out, span{lo, hi})
	s.spans = append(out, s.spans[i:]...)
}

// remove deletes [lo, hi) from the set, splitting spans that straddle it.
func (s *intervalSet) remove(lo, hi int) {
	if hi <= lo {
		return
	}
	out := make([]span, 0, len(s.spans)+1)
	for _, sp := range s.spans {
		if sp.hi <= lo || hi <= sp.lo {
			out = append(out, sp)
			continue
		}
		if sp.lo < lo {
			out = append(out, span{sp.lo, lo})
		}
		if hi < sp.hi {
			out = append(out, span{hi, sp.hi})
		}
	}
	s.spans = out
}

// intersect returns the first stored span overlapping [lo, hi), if any.
func (s *intervalSet) intersect(lo, hi int) (badLo, badHi int, ok bool) {
	for _, sp := range s.spans {
		if sp.lo >= hi {
			break
		}
		if sp.hi > lo {
			return sp.lo, sp.hi, true
		}
	}
	return 0, 0, false
}
