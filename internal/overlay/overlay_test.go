package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/marker"
)

func TestOverlayVisibleIntersectsRange(t *testing.T) {
	markers := marker.New()
	mgr := NewManager(markers)

	in := mgr.Add(10, 20, Foreground{Color: "1"}, 0, "diag")
	mgr.Add(100, 110, Foreground{Color: "2"}, 0, "diag")

	visible := mgr.Visible(0, 50)
	require.Len(t, visible, 1)
	assert.Equal(t, in.ID, visible[0].ID)
	assert.Equal(t, int64(10), visible[0].StartOffset)
}

func TestOverlayTracksInsertBeforeIt(t *testing.T) {
	markers := marker.New()
	mgr := NewManager(markers)

	o := mgr.Add(10, 20, Background{Color: "3"}, 0, "search")
	markers.AdjustForInsert(0, 5)

	visible := mgr.Visible(0, 100)
	require.Len(t, visible, 1)
	assert.Equal(t, int64(15), visible[0].StartOffset)
	assert.Equal(t, int64(25), visible[0].EndOffset)
	_ = o
}

func TestOverlayClearNamespace(t *testing.T) {
	markers := marker.New()
	mgr := NewManager(markers)

	mgr.Add(0, 5, Foreground{Color: "1"}, 0, "lsp")
	mgr.Add(10, 15, Foreground{Color: "1"}, 0, "search")

	mgr.ClearNamespace("lsp")

	visible := mgr.Visible(0, 100)
	require.Len(t, visible, 1)
	assert.Equal(t, "search", visible[0].Namespace)
}

func TestOverlayPriorityOrdering(t *testing.T) {
	markers := marker.New()
	mgr := NewManager(markers)

	mgr.Add(0, 10, Foreground{Color: "low"}, 5, "a")
	mgr.Add(0, 10, Foreground{Color: "high"}, 1, "b")

	visible := mgr.Visible(0, 10)
	require.Len(t, visible, 2)
	assert.Equal(t, 1, visible[0].Priority)
	assert.Equal(t, 5, visible[1].Priority)
}

func TestVirtualTextVisibleOrderedByOffset(t *testing.T) {
	markers := marker.New()
	mgr := NewVirtualTextManager(markers)

	mgr.Add(20, "B", Style{}, AfterChar, 0)
	mgr.Add(5, "A", Style{}, AfterChar, 0)

	visible := mgr.Visible(0, 100)
	require.Len(t, visible, 2)
	assert.Equal(t, "A", visible[0].Display)
	assert.Equal(t, "B", visible[1].Display)
}

func TestMarginManagerRemoveKind(t *testing.T) {
	markers := marker.New()
	mgr := NewMarginManager(markers)

	mgr.Add(0, "●", Style{}, "diagnostic")
	mgr.Add(10, "+", Style{}, "git")

	mgr.RemoveKind("diagnostic")

	visible := mgr.Visible(0, 100)
	require.Len(t, visible, 1)
	assert.Equal(t, "git", visible[0].Kind)
}
