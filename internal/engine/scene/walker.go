// Package scene walks decoded scene graphs: it composes world transforms
// down the tree, dispatches each node to the display processor by kind,
// and joins the per-subtree results back in document order.
package scene

import (
	"context"
	"sync"

	"github.com/veldtec/displaymesh/internal/engine/display"
	"github.com/veldtec/displaymesh/internal/engine/mesh"
	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

// RenderItem is one resolved display: either a geometry item carrying a
// mesh, or a non-geometry item (a player head) carrying a skin reference
// for an external binder to attach.
type RenderItem struct {
	Name  string     `json:"name"`
	World math.Mat4  `json:"world"`
	Mesh  *mesh.Mesh `json:"-"`

	// Player-head fields. HeadTransform is a row-major display override
	// passed through from the document untouched.
	Skin          string       `json:"skin,omitempty"`
	HeadTransform *[16]float64 `json:"headTransform,omitempty"`

	Brightness *formats.Brightness `json:"brightness,omitempty"`
}

// HasGeometry reports whether the item carries packable geometry.
func (it RenderItem) HasGeometry() bool {
	return it.Mesh != nil
}

// nodeKind tags a node for dispatch. Block wins over item wins over text
// when a malformed document sets more than one flag.
type nodeKind int

const (
	kindGroup nodeKind = iota
	kindBlock
	kindItem
	kindText
)

func kindOf(node *formats.SceneNode) nodeKind {
	switch {
	case node.IsBlockDisplay:
		return kindBlock
	case node.IsItemDisplay:
		return kindItem
	case node.IsTextDisplay:
		return kindText
	}
	return kindGroup
}

// Walker resolves scene graphs against one display processor. Sibling
// subtrees resolve concurrently; the emitted items keep document order.
type Walker struct {
	proc *display.Processor
}

// NewWalker creates a walker over the given processor.
func NewWalker(proc *display.Processor) *Walker {
	return &Walker{proc: proc}
}

// Walk resolves the root node list and returns every render item in
// document order. Nodes that fail to resolve contribute nothing.
func (w *Walker) Walk(ctx context.Context, nodes []formats.SceneNode) []RenderItem {
	return w.walkList(ctx, nodes, math.Identity())
}

// walkList fans sibling subtrees out to goroutines and joins the results
// back by child position, so completion order never reorders the output.
func (w *Walker) walkList(ctx context.Context, nodes []formats.SceneNode, parent math.Mat4) []RenderItem {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return w.walkNode(ctx, &nodes[0], parent)
	}

	results := make([][]RenderItem, len(nodes))
	var wg sync.WaitGroup
	for i := range nodes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = w.walkNode(ctx, &nodes[i], parent)
		}(i)
	}
	wg.Wait()

	var items []RenderItem
	for _, r := range results {
		items = append(items, r...)
	}
	return items
}

func (w *Walker) walkNode(ctx context.Context, node *formats.SceneNode, parent math.Mat4) []RenderItem {
	world := parent
	if node.Transforms != nil {
		world = parent.Mul(math.FromRowMajor(*node.Transforms))
	}

	var items []RenderItem
	switch kindOf(node) {
	case kindBlock:
		for _, pl := range w.proc.Block(ctx, node.Name) {
			items = append(items, RenderItem{
				Name:       node.Name,
				World:      world.Mul(pl.Local),
				Mesh:       pl.Mesh,
				Brightness: node.Brightness,
			})
		}
	case kindItem:
		if isPlayerHead(node.Name) {
			items = append(items, headItem(node, world))
			break
		}
		for _, pl := range w.proc.Item(ctx, node.Name) {
			items = append(items, RenderItem{
				Name:       node.Name,
				World:      world.Mul(pl.Local),
				Mesh:       pl.Mesh,
				Brightness: node.Brightness,
			})
		}
	case kindText:
		// Text displays carry no geometry.
	case kindGroup:
	}

	if len(node.Children) > 0 {
		items = append(items, w.walkList(ctx, node.Children, world)...)
	}
	return items
}
