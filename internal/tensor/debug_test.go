package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withDebugMode runs f with instrumentation on, restoring the previous state.
func withDebugMode(t *testing.T, f func()) {
	t.Helper()
	prev := DebugMode()
	SetDebugMode(true)
	defer SetDebugMode(prev)
	f()
}

func TestDebugModeOffIsFree(t *testing.T) {
	SetDebugMode(false)
	a := mustNew(t, []int{2, 3}, Float32)
	b := mustNew(t, []int{2, 3}, Float64)

	// Mismatched dtypes, but nothing checks with instrumentation off.
	assert.NotPanics(t, func() {
		DebugNormalOp(a, Read, b, Write)
	})
	assert.NotPanics(t, func() {
		RecordUse(a, Read)
		RegisterChange(a)
	})
	assert.Zero(t, CaptureTick(a))
	assert.True(t, CheckUnchangedSince(0, a))
}

func TestDebugDtypeMismatchPanics(t *testing.T) {
	withDebugMode(t, func() {
		a := mustNew(t, []int{2, 3}, Float32)
		b := mustNew(t, []int{2, 3}, Float64)
		assert.Panics(t, func() {
			DebugNormalOp(a, Read, b, Write)
		})

		c := mustNew(t, []int{2, 3}, Float32)
		assert.Panics(t, func() {
			DebugNormalOp3(a, Read, c, Read, b, Write)
		})
	})
}

func TestDebugBroadcastMismatchPanics(t *testing.T) {
	withDebugMode(t, func() {
		a := mustNew(t, []int{5}, Float32)
		b := mustNew(t, []int{3}, Float32)
		assert.Panics(t, func() {
			DebugNormalOp(a, Read, b, Write)
		})

		// Broadcastable for reading, but the written argument may not be
		// smaller than what flows into it.
		src := mustNew(t, []int{2, 8, 3}, Float32)
		out := mustNew(t, []int{8, 1}, Float32)
		assert.NotPanics(t, func() {
			DebugNormalOp(src, Write, out, Read)
		})
		assert.Panics(t, func() {
			DebugNormalOp(src, Read, out, Write)
		})
	})
}

func TestDebugAliasConflictPanics(t *testing.T) {
	withDebugMode(t, func() {
		m := mustNew(t, []int{4, 4}, Float32)
		a, err := m.Slice(0, 0, 3)
		require.NoError(t, err)
		b, err := m.Slice(0, 1, 4)
		require.NoError(t, err)

		// Overlapping views with a writer involved.
		assert.Panics(t, func() {
			DebugNormalOp(a, Read, b, Write)
		})
		// Two readers may alias freely.
		assert.NotPanics(t, func() {
			DebugNormalOp(a, Read, b, Read)
		})
	})
}

func TestDebugInPlaceAllowed(t *testing.T) {
	withDebugMode(t, func() {
		a := mustNew(t, []int{2, 3}, Float32)
		// Same tensor as input and output: exact aliasing, permitted.
		assert.NotPanics(t, func() {
			DebugNormalOp(a, Read, a, Write)
		})
		b := mustNew(t, []int{2, 3}, Float32)
		assert.NotPanics(t, func() {
			DebugNormalOp3(a, Read, b, Read, a, Write)
		})
	})
}

func TestDebugReadAfterInvalidatePanics(t *testing.T) {
	withDebugMode(t, func() {
		a := mustNew(t, []int{4}, Float32)
		RecordUse(a, Invalidate)
		assert.Panics(t, func() {
			RecordUse(a, Read)
		})
		// A full rewrite revalidates.
		RecordUse(a, Write)
		assert.NotPanics(t, func() {
			RecordUse(a, Read)
		})
	})
}

func TestDebugTickFlow(t *testing.T) {
	withDebugMode(t, func() {
		a := mustNew(t, []int{4}, Float32)
		tick := CaptureTick(a)
		assert.True(t, CheckUnchangedSince(tick, a))

		RecordUse(a, Read)
		assert.True(t, CheckUnchangedSince(tick, a), "reads are not changes")

		RecordUse(a, Write)
		assert.False(t, CheckUnchangedSince(tick, a))

		// Disjoint views of one storage change independently.
		m := mustNew(t, []int{4, 4}, Float32)
		top, err := m.Slice(0, 0, 2)
		require.NoError(t, err)
		bottom, err := m.Slice(0, 2, 4)
		require.NoError(t, err)
		tick = CaptureTick(top)
		RecordUse(bottom, Write)
		assert.True(t, CheckUnchangedSince(tick, top))
		assert.False(t, CheckUnchangedSince(tick, bottom))

		RegisterChange(top)
		assert.False(t, CheckUnchangedSince(tick, top))
	})
}

func TestDebugNormalOpRecordsUses(t *testing.T) {
	withDebugMode(t, func() {
		src := mustNew(t, []int{2, 3}, Float32)
		dst := mustNew(t, []int{2, 3}, Float32)
		tick := CaptureTick(dst)
		DebugNormalOp(src, Read, dst, Write)
		assert.False(t, CheckUnchangedSince(tick, dst), "the declared write must be logged")

		// The written range is valid again even if it was invalidated before.
		out := mustNew(t, []int{2, 3}, Float32)
		RecordUse(out, Invalidate)
		DebugNormalOp(src, Read, out, Write)
		assert.NotPanics(t, func() {
			RecordUse(out, Read)
		})
	})
}
