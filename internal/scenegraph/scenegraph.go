package scenegraph

import (
	"portfolio-scene/internal/geom"
)

// Node is one entry of a loaded scene graph. Mesh is -1 for nodes without
// geometry; Primitives counts the triangle primitives of that mesh, which is
// how many renderer meshes the node contributes.
type Node struct {
	Index      int
	Name       string
	Parent     *Node
	Children   []*Node
	Mesh       int
	Primitives int
	Local      geom.Transform
	World      geom.Transform
}

// Clip is an animation clip carried by the asset.
type Clip struct {
	Name     string
	Duration float32 // seconds
}

// Asset is a parsed scene-graph file. Nodes is indexed by Node.Index; Roots
// are the nodes of the default scene.
type Asset struct {
	Path       string
	EnvMapPath string
	Roots      []*Node
	Nodes      []*Node
	Cameras    []CameraNode
	Clips      []Clip
}

// FindByName returns the first node (by index) whose name matches exactly.
// A missing name is a normal result, not an error.
func (a *Asset) FindByName(name string) (*Node, bool) {
	if a == nil || name == "" {
		return nil, false
	}
	for _, n := range a.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Selection is the part of an asset a scene renders.
type Selection struct {
	Roots    []*Node
	Name     string // root name used by the animation mixer; empty for the whole graph
	Fallback bool   // true when the requested node was absent
}

// Select isolates the sub-graph rooted at name. When name is empty or absent
// the whole graph is selected.
func (a *Asset) Select(name string) Selection {
	if n, ok := a.FindByName(name); ok {
		return Selection{Roots: []*Node{n}, Name: n.Name}
	}
	return Selection{Roots: a.Roots, Fallback: name != ""}
}

// Walk visits every node of the selection depth-first, parents first.
func (s Selection) Walk(fn func(*Node)) {
	var visit func(*Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range s.Roots {
		visit(r)
	}
}

// Contains reports whether node index idx is part of the selection.
func (s Selection) Contains(idx int) bool {
	found := false
	s.Walk(func(n *Node) {
		if n.Index == idx {
			found = true
		}
	})
	return found
}

// MeshRange is a half-open range of renderer mesh indices owned by a node.
type MeshRange struct {
	Start, End int
}

// MeshRanges maps node index to renderer mesh indices. The renderer creates
// one mesh per triangle primitive, walking nodes in index order, so offsets
// accumulate over every node carrying a mesh.
func (a *Asset) MeshRanges() map[int]MeshRange {
	out := make(map[int]MeshRange)
	next := 0
	for _, n := range a.Nodes {
		if n.Mesh < 0 || n.Primitives == 0 {
			continue
		}
		out[n.Index] = MeshRange{Start: next, End: next + n.Primitives}
		next += n.Primitives
	}
	return out
}

// SelectedMeshes returns the renderer mesh indices of the selection in
// ascending order.
func (a *Asset) SelectedMeshes(s Selection) []int {
	ranges := a.MeshRanges()
	var idx []int
	for _, n := range a.Nodes {
		r, ok := ranges[n.Index]
		if !ok || !s.Contains(n.Index) {
			continue
		}
		for i := r.Start; i < r.End; i++ {
			idx = append(idx, i)
		}
	}
	return idx
}

// ComputeWorld fills World for every node from its Local transform.
func (a *Asset) ComputeWorld() {
	var visit func(n *Node, parent geom.Transform)
	visit = func(n *Node, parent geom.Transform) {
		n.World = parent.Then(n.Local)
		for _, c := range n.Children {
			visit(c, n.World)
		}
	}
	for _, n := range a.Nodes {
		if n.Parent == nil {
			visit(n, geom.Identity())
		}
	}
}
