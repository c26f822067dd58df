// Package hazard implements the per-storage memory hazard tracker for the
// Strata library.
//
// Each storage region owns one Tracker: a monotonically increasing logical
// clock (the "tick"), a log of mutating accesses, and the set of byte ranges
// whose content is currently invalidated. Operations declare their access
// kind per tensor argument; the tracker detects reads of invalidated data and
// answers "has this byte range changed since tick T?" for memoization logic.
//
// The tracker is deliberately unsynchronized: the tick is a strict sequence
// number only under a single controlling thread, and serializing access to a
// given storage's tracker across threads is the caller's responsibility.
package hazard

import "fmt"

// UseKind declares how an operation accesses a tensor's byte range.
type UseKind int

// Access kinds, mirroring the contract an operation declares per argument.
// The Invalidate kinds are for ops that skip work in the expectation that the
// data will not be relied upon afterward.
const (
	Read UseKind = iota
	Write
	ReadWrite
	ReadInvalidate
	Invalidate
)

// String returns a human-readable name for the use kind.
func (k UseKind) String() string {
	switch k {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case ReadWrite:
		return "ReadWrite"
	case ReadInvalidate:
		return "ReadInvalidate"
	case Invalidate:
		return "Invalidate"
	default:
		return "Unknown"
	}
}

// Reads reports whether the kind asserts the range currently holds meaningful
// data.
func (k UseKind) Reads() bool {
	return k == Read || k == ReadWrite || k == ReadInvalidate
}

// Mutates reports whether the kind advances the tick: anything that writes or
// invalidates makes prior observations of the range stale.
func (k UseKind) Mutates() bool {
	return k != Read
}

// Invalidates reports whether the kind marks the range as holding unspecified
// content going forward.
func (k UseKind) Invalidates() bool {
	return k == Invalidate || k == ReadInvalidate
}

// Violation describes a detected hazard: a read-bearing access against a byte
// range that is currently invalidated with no intervening write.
type Violation struct {
	Kind   UseKind // the offending access kind
	Lo, Hi int     // the accessed byte range [Lo, Hi)
	BadLo  int     // the intersecting invalidated range [BadLo, BadHi)
	BadHi  int
	Tick   int64 // tracker tick at detection time
}

// Error implements the error interface with a full diagnostic.
func (v *Violation) Error() string {
	return fmt.Sprintf("hazard: %s of bytes [%d, %d) touches invalidated range [%d, %d) at tick %d",
		v.Kind, v.Lo, v.Hi, v.BadLo, v.BadHi, v.Tick)
}

// mutation is one logged tick-advancing access.
type mutation struct {
	lo, hi int
	tick   int64
	kind   UseKind
}

// Tracker is the per-storage logical clock and access log.
// The zero value is not usable; create with NewTracker.
type Tracker struct {
	tick    int64
	log     []mutation
	invalid intervalSet
}

// NewTracker creates a tracker with the tick at 0, meaning the storage
// content is considered well-defined from creation.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Tick returns the current logical clock value. Callers capture it before
// deferring a computation and later pass it to CheckUnchangedSince.
func (t *Tracker) Tick() int64 {
	return t.tick
}

// RecordUse logs an access of the given kind against the byte range [lo, hi).
// Read-bearing kinds are checked against the invalidation set and return a
// *Violation on intersection (without applying the access). Mutating kinds
// advance the tick; writes clear the range from the invalidation set and
// invalidating kinds add it.
func (t *Tracker) RecordUse(lo, hi int, kind UseKind) *Violation {
	if hi <= lo {
		return nil
	}
	if kind.Reads() {
		if badLo, badHi, ok := t.invalid.intersect(lo, hi); ok {
			return &Violation{Kind: kind, Lo: lo, Hi: hi, BadLo: badLo, BadHi: badHi, Tick: t.tick}
		}
	}
	if kind.Mutates() {
		t.tick++
		t.log = append(t.log, mutation{lo: lo, hi: hi, tick: t.tick, kind: kind})
		if kind.Invalidates() {
			t.invalid.add(lo, hi)
		} else {
			t.invalid.remove(lo, hi)
		}
	}
	return nil
}

// RegisterChange advances the tick and marks [lo, hi) as freshly written.
// Escape hatch for code paths that mutate storage outside the RecordUse
// convention.
func (t *Tracker) RegisterChange(lo, hi int) {
	if hi <= lo {
		return
	}
	t.tick++
	t.log = append(t.log, mutation{lo: lo, hi: hi, tick: t.tick, kind: Write})
	t.invalid.remove(lo, hi)
}

// CheckUnchangedSince reports whether no mutating access has touched the byte
// range [lo, hi) since the given tick was captured.
func (t *Tracker) CheckUnchangedSince(tick int64, lo, hi int) bool {
	if hi <= lo {
		return true
	}
	// Log is tick-ordered; mutations after the captured tick sit at the tail.
	for i := len(t.log) - 1; i >= 0; i-- {
		m := t.log[i]
		if m.tick <= tick {
			break
		}
		if m.lo < hi && lo < m.hi {
			return false
		}
	}
	return true
}
