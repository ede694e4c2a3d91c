package scenegraph

import (
	"testing"

	"portfolio-scene/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAsset() *Asset {
	a := NewAsset("scene.glb")
	room := a.AddNode("Room", nil)
	room.Mesh, room.Primitives = 0, 2
	pencil := a.AddNode("Gpencil", nil)
	tip := a.AddNode("Tip", pencil)
	tip.Mesh, tip.Primitives = 1, 1
	a.AddNode("Camera", nil)
	return a
}

func TestSelectNamedNode(t *testing.T) {
	a := sampleAsset()
	sel := a.Select("Gpencil")
	assert.False(t, sel.Fallback)
	assert.Equal(t, "Gpencil", sel.Name)
	require.Len(t, sel.Roots, 1)
	assert.True(t, sel.Contains(2))
	assert.False(t, sel.Contains(0))
	assert.Equal(t, []int{2}, a.SelectedMeshes(sel))
}

func TestSelectMissingNodeFallsBackToWholeGraph(t *testing.T) {
	a := sampleAsset()
	sel := a.Select("DoesNotExist")
	assert.True(t, sel.Fallback)
	assert.Empty(t, sel.Name)
	assert.Len(t, sel.Roots, 3)
	assert.Equal(t, []int{0, 1, 2}, a.SelectedMeshes(sel))
}

func TestSelectEmptyNameIsNotAFallback(t *testing.T) {
	sel := sampleAsset().Select("")
	assert.False(t, sel.Fallback)
	assert.Len(t, sel.Roots, 3)
}

func TestMeshRanges(t *testing.T) {
	r := sampleAsset().MeshRanges()
	assert.Equal(t, MeshRange{0, 2}, r[0])
	assert.Equal(t, MeshRange{2, 3}, r[2])
	_, ok := r[1]
	assert.False(t, ok)
}

func TestComputeWorldAccumulatesParents(t *testing.T) {
	a := sampleAsset()
	a.Nodes[1].Local.Translation = geom.V3(0, 1, 0)
	a.Nodes[2].Local.Translation = geom.V3(0, 0, 2)
	a.ComputeWorld()
	assert.Equal(t, geom.V3(0, 1, 2), a.Nodes[2].World.Translation)
}

func TestCameraAspectMarksProjectionDirty(t *testing.T) {
	c := NewCamera(CameraNode{Name: "cam", World: geom.Identity(), YFov: 0.8})
	assert.False(t, c.ProjectionDirty())
	c.SetAspect(16.0 / 9.0)
	assert.True(t, c.ProjectionDirty())
	c.UpdateProjection()
	assert.False(t, c.ProjectionDirty())
	c.SetAspect(0)
	assert.False(t, c.ProjectionDirty())
}

func TestCameraInView(t *testing.T) {
	world := geom.Identity()
	world.Translation = geom.V3(0, 0, 5)
	c := NewCamera(CameraNode{Name: "cam", World: world, YFov: 0.8, Near: 0.1, Far: 100})

	tests := []struct {
		name string
		p    geom.Vec3
		want bool
	}{
		{"in front", geom.V3(1, 1, 0), true},
		{"behind", geom.V3(0, 0, 8), false},
		{"closer than near", geom.V3(0, 0, 4.95), false},
		{"beyond far", geom.V3(0, 0, -200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.InView(tt.p))
		})
	}
}
