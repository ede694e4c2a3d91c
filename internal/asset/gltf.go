package asset

import (
	"context"
	"fmt"

	"github.com/qmuntal/gltf"

	"portfolio-scene/internal/geom"
	"portfolio-scene/internal/scenegraph"
)

// GLTFLoader reads .gltf and .glb files. EnvMapPath, when set, is resolved
// alongside the model and a missing environment map fails the load.
type GLTFLoader struct {
	Fetcher    Fetcher
	EnvMapPath string
}

// Load implements Loader.
func (l *GLTFLoader) Load(ctx context.Context, path string) (*scenegraph.Asset, error) {
	local, err := l.Fetcher.Local(ctx, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	doc, err := gltf.Open(local)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	a, err := FromDocument(local, doc)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if l.EnvMapPath != "" {
		env, err := l.Fetcher.Local(ctx, l.EnvMapPath)
		if err != nil {
			return nil, &LoadError{Path: l.EnvMapPath, Err: err}
		}
		a.EnvMapPath = env
	}
	return a, nil
}

// FromDocument converts a parsed glTF document into an Asset.
func FromDocument(path string, doc *gltf.Document) (*scenegraph.Asset, error) {
	a := scenegraph.NewAsset(path)
	for i, n := range doc.Nodes {
		node := &scenegraph.Node{
			Index: i,
			Name:  n.Name,
			Mesh:  -1,
			Local: localTransform(n),
		}
		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
				return nil, fmt.Errorf("node %d: mesh %d out of range", i, *n.Mesh)
			}
			node.Mesh = *n.Mesh
			for _, p := range doc.Meshes[*n.Mesh].Primitives {
				if p.Mode == gltf.PrimitiveTriangles {
					node.Primitives++
				}
			}
		}
		a.Nodes = append(a.Nodes, node)
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(a.Nodes) {
				return nil, fmt.Errorf("node %d: child %d out of range", i, c)
			}
			child := a.Nodes[c]
			child.Parent = a.Nodes[i]
			a.Nodes[i].Children = append(a.Nodes[i].Children, child)
		}
	}
	a.Roots = sceneRoots(doc, a)
	a.ComputeWorld()

	// cameras keep the document's order; each takes the pose of the first
	// node that references it
	holders := make([]*scenegraph.Node, len(doc.Cameras))
	for i, n := range doc.Nodes {
		if n.Camera == nil {
			continue
		}
		if *n.Camera < 0 || *n.Camera >= len(doc.Cameras) {
			return nil, fmt.Errorf("node %d: camera %d out of range", i, *n.Camera)
		}
		if holders[*n.Camera] == nil {
			holders[*n.Camera] = a.Nodes[i]
		}
	}
	for i, c := range doc.Cameras {
		a.Cameras = append(a.Cameras, cameraNode(holders[i], c))
	}

	for i, anim := range doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("clip%d", i)
		}
		a.Clips = append(a.Clips, scenegraph.Clip{Name: name, Duration: clipDuration(doc, anim)})
	}
	return a, nil
}

func sceneRoots(doc *gltf.Document, a *scenegraph.Asset) []*scenegraph.Node {
	idx := 0
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if idx >= 0 && idx < len(doc.Scenes) {
		var roots []*scenegraph.Node
		for _, n := range doc.Scenes[idx].Nodes {
			if n >= 0 && n < len(a.Nodes) {
				roots = append(roots, a.Nodes[n])
			}
		}
		return roots
	}
	// no scene list: every parentless node is a root
	var roots []*scenegraph.Node
	for _, n := range a.Nodes {
		if n.Parent == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

func localTransform(n *gltf.Node) geom.Transform {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var f [16]float32
		for i, v := range m {
			f[i] = float32(v)
		}
		return geom.Decompose(f)
	}
	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	return geom.Transform{
		Translation: geom.V3(float32(t[0]), float32(t[1]), float32(t[2])),
		Rotation:    geom.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		Scale:       geom.V3(float32(s[0]), float32(s[1]), float32(s[2])),
	}
}

const (
	defaultYFov = 0.8
	defaultNear = 0.1
	defaultFar  = 1000
)

// cameraNode builds a camera definition; n is nil for a camera no node
// references, which sits at the origin.
func cameraNode(n *scenegraph.Node, c *gltf.Camera) scenegraph.CameraNode {
	cn := scenegraph.CameraNode{
		Name:  c.Name,
		Node:  -1,
		YFov:  defaultYFov,
		Near:  defaultNear,
		Far:   defaultFar,
		World: geom.Identity(),
	}
	if n != nil {
		cn.Node = n.Index
		cn.World = n.World
		if cn.Name == "" {
			cn.Name = n.Name
		}
	}
	if p := c.Perspective; p != nil {
		if p.Yfov > 0 {
			cn.YFov = float32(p.Yfov)
		}
		if p.Znear > 0 {
			cn.Near = float32(p.Znear)
		}
		if p.Zfar != nil && *p.Zfar > 0 {
			cn.Far = float32(*p.Zfar)
		}
	}
	return cn
}

// clipDuration is the largest sampler input time; glTF requires input
// accessors to carry max.
func clipDuration(doc *gltf.Document, anim *gltf.Animation) float32 {
	var d float64
	for _, s := range anim.Samplers {
		if s.Input < 0 || s.Input >= len(doc.Accessors) {
			continue
		}
		if mx := doc.Accessors[s.Input].Max; len(mx) > 0 && mx[0] > d {
			d = mx[0]
		}
	}
	return float32(d)
}
