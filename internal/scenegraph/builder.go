package scenegraph

import "portfolio-scene/internal/geom"

// NewAsset returns an empty asset for path.
func NewAsset(path string) *Asset {
	return &Asset{Path: path}
}

// AddNode appends a node with an identity transform. A nil parent makes it a
// root of the default scene.
func (a *Asset) AddNode(name string, parent *Node) *Node {
	n := &Node{
		Index:  len(a.Nodes),
		Name:   name,
		Parent: parent,
		Mesh:   -1,
		Local:  geom.Identity(),
		World:  geom.Identity(),
	}
	a.Nodes = append(a.Nodes, n)
	if parent != nil {
		parent.Children = append(parent.Children, n)
	} else {
		a.Roots = append(a.Roots, n)
	}
	return n
}
