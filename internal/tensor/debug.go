package tensor

import (
	"sync/atomic"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/strata-ml/strata/internal/hazard"
)

// UseKind declares how an operation accesses a tensor argument's memory.
type UseKind = hazard.UseKind

// Access kinds for RecordUse and DebugNormalOp. The Invalidate kinds are for
// ops that skip work in the expectation that the data won't be used
// afterward.
const (
	Read           = hazard.Read
	Write          = hazard.Write
	ReadWrite      = hazard.ReadWrite
	ReadInvalidate = hazard.ReadInvalidate
	Invalidate     = hazard.Invalidate
)

// debugMode is the single process-wide toggle gating all instrumentation.
var debugMode atomic.Bool

// SetDebugMode enables or disables debug instrumentation globally. Normally
// set once at startup; flipping it mid-run leaves trackers with partial
// history.
func SetDebugMode(on bool) {
	debugMode.Store(on)
}

// DebugMode reports whether debug instrumentation is enabled. When false,
// every function in this file returns immediately with no observable side
// effect.
func DebugMode() bool {
	return debugMode.Load()
}

// RecordUse logs an access of the given kind against the byte range t
// addresses on its storage. A read of invalidated data aborts with a
// HazardViolation diagnostic. No-op unless debug mode is on.
func RecordUse(t Tensor, use UseKind) {
	if !DebugMode() {
		return
	}
	recordUse(t, use)
}

func recordUse(t Tensor, use UseKind) {
	lo, hi := t.impl.byteRange()
	checker := t.impl.storage.GetMemoryChecker()
	if klog.V(2).Enabled() {
		klog.Infof("storage %s: %s bytes [%d, %d) at tick %d",
			t.impl.storage.ID(), use, lo, hi, checker.Tick())
	}
	if v := checker.RecordUse(lo, hi, use); v != nil {
		exceptions.Panicf("HazardViolation on storage %s, %s: %v",
			t.impl.storage.ID(), t, v)
	}
}

// RegisterChange advances the storage's tick and marks t's byte range as
// freshly written. For code paths that mutate storage outside the RecordUse
// convention. No-op unless debug mode is on.
func RegisterChange(t Tensor) {
	if !DebugMode() {
		return
	}
	lo, hi := t.impl.byteRange()
	t.impl.storage.GetMemoryChecker().RegisterChange(lo, hi)
}

// CaptureTick returns the current tick of t's storage. Memoizing callers
// capture it before deferring a computation and later pass it to
// CheckUnchangedSince. Returns 0 when debug mode is off.
func CaptureTick(t Tensor) int64 {
	if !DebugMode() {
		return 0
	}
	return t.impl.storage.GetMemoryChecker().Tick()
}

// CheckUnchangedSince reports whether no mutating access has touched t's byte
// range since the given tick was captured. The result is surfaced as a
// boolean, not raised: the caller decides severity of a stale dependency.
// Always true when debug mode is off.
func CheckUnchangedSince(tick int64, t Tensor) bool {
	if !DebugMode() {
		return true
	}
	lo, hi := t.impl.byteRange()
	return t.impl.storage.GetMemoryChecker().CheckUnchangedSince(tick, lo, hi)
}

// DebugNormalOp is called by every "normal" two-tensor operation (same dtype
// and device, possibly broadcasting) immediately before it touches tensor
// memory, declaring the true access kind per argument. In debug mode it
// asserts compatibility, broadcastability (b non-reducing when written to),
// and absence of conflicting aliased access, then records each use. A no-op
// when debug mode is off.
func DebugNormalOp(a Tensor, aUse UseKind, b Tensor, bUse UseKind) {
	if !DebugMode() {
		return
	}
	debugNormalOpInternal([]Tensor{a, b}, []UseKind{aUse, bUse})
}

// DebugNormalOp3 is the three-tensor form of DebugNormalOp. By convention c
// is the output argument: it is held non-reducing when its use kind mutates.
func DebugNormalOp3(a Tensor, aUse UseKind, b Tensor, bUse UseKind, c Tensor, cUse UseKind) {
	if !DebugMode() {
		return
	}
	debugNormalOpInternal([]Tensor{a, b, c}, []UseKind{aUse, bUse, cUse})
}

// debugNormalOpInternal performs the debug-mode checks; called only when
// debug mode is on.
func debugNormalOpInternal(ts []Tensor, uses []UseKind) {
	switch len(ts) {
	case 2:
		if !Compatible(ts[0], ts[1]) {
			exceptions.Panicf("DtypeOrDeviceMismatch: %s vs %s", ts[0], ts[1])
		}
		if !Broadcastable(ts[0], ts[1], uses[1].Mutates()) {
			exceptions.Panicf("BroadcastMismatch: %s (use %s) vs %s (use %s)",
				ts[0].Pattern(), uses[0], ts[1].Pattern(), uses[1])
		}
	case 3:
		if !Compatible3(ts[0], ts[1], ts[2]) {
			exceptions.Panicf("DtypeOrDeviceMismatch: %s vs %s vs %s", ts[0], ts[1], ts[2])
		}
		if !Broadcastable3(ts[0], ts[1], ts[2], uses[2].Mutates()) {
			exceptions.Panicf("BroadcastMismatch: %s vs %s vs %s (output use %s)",
				ts[0].Pattern(), ts[1].Pattern(), ts[2].Pattern(), uses[2])
		}
	}

	// Aliased arguments with a mutating kind involved conflict, except for
	// byte-identical views: an op declaring the same pattern twice is the
	// documented in-place case and per-element aliasing is exact.
	for i := range ts {
		for j := i + 1; j < len(ts); j++ {
			if !uses[i].Mutates() && !uses[j].Mutates() {
				continue
			}
			if !Overlap(ts[i], ts[j]) {
				continue
			}
			if ts[i].impl.pattern.Equal(ts[j].impl.pattern) {
				continue
			}
			iLo, iHi := ts[i].impl.byteRange()
			jLo, jHi := ts[j].impl.byteRange()
			exceptions.Panicf(
				"HazardViolation: arguments %d (%s, bytes [%d, %d)) and %d (%s, bytes [%d, %d)) "+
					"alias storage %s with conflicting access: %s vs %s",
				i, ts[i].Pattern(), iLo, iHi, j, ts[j].Pattern(), jLo, jHi,
				ts[i].impl.storage.ID(), uses[i], uses[j])
		}
	}

	for i := range ts {
		recordUse(ts[i], uses[i])
	}
}
