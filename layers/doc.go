// Package layers implements a retained layer tree on top of display lists.
//
// A frame is a tree of Layers under a LayerTree. Each frame runs through
// three passes:
//
//   - Preroll computes every layer's paint bounds and tells each parent
//     which inherited attributes (opacity, color filter, image filter) its
//     children can apply themselves.
//   - Paint replays the tree onto a canvas.Canvas through a StateStack,
//     turning inherited attributes into saveLayers only where children
//     cannot apply them.
//   - Diff compares the tree with the previous frame's and returns the
//     device-space Damage that needs repainting.
//
// Layers of the new tree are linked to their predecessors with
// AssignOldLayer before diffing. A layer without a link is new, so its
// whole subtree is damaged along with whatever old content it replaces.
//
//	root := layers.NewTransformLayer(geom.Translate(10, 10))
//	root.Add(layers.NewDisplayListLayer(geom.Point{}, dl))
//	tree := layers.NewLayerTree(root, geom.ISize{Width: 800, Height: 600})
//	tree.Preroll(geom.WH(800, 600))
//	tree.Paint(c)
//	damage := tree.Diff(previous)
package layers
