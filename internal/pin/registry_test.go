package pin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irforge/typetighten/ir"
)

func TestPinAndIsPinned(t *testing.T) {
	r := NewRegistry()
	p := &ir.Parameter{Name: "x"}

	_, pinned := r.IsPinned(p)
	require.False(t, pinned)

	r.Pin(p, ForeignWrite)
	reason, pinned := r.IsPinned(p)
	require.True(t, pinned)
	require.Equal(t, ForeignWrite, reason)
	require.Equal(t, 1, r.Len())
}

func TestPinFirstReasonWins(t *testing.T) {
	r := NewRegistry()
	p := &ir.Parameter{Name: "x"}

	r.Pin(p, ForeignWrite)
	r.Pin(p, CaughtException)

	reason, pinned := r.IsPinned(p)
	require.True(t, pinned)
	require.Equal(t, ForeignWrite, reason, "first reason should win")
	require.Equal(t, 1, r.Len())
}

func TestPinNilSlotIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Pin(nil, ForeignWrite)
	require.Equal(t, 0, r.Len())
}

func TestPinDistinctSlotsIndependent(t *testing.T) {
	r := NewRegistry()
	a := &ir.Local{Name: "a"}
	b := &ir.Local{Name: "b"}

	r.Pin(a, StaticForwarderThis)
	_, pinned := r.IsPinned(b)
	require.False(t, pinned, "pinning one slot must not affect another")
	require.Equal(t, 1, r.Len())
}
