// Package layout places class boxes on a 2D canvas.
//
// Layout is split into two parts that share one size model:
//
//   - [Sizer] computes a box's width and height from its compartment row
//     counts. Renderers and the geometry resolver use the same Sizer, so
//     lines always meet the boxes that are actually drawn.
//   - [Engine] runs a seeded, bounded force simulation over those boxes:
//     overlap repulsion, line avoidance and edge attraction. It then
//     normalizes the result to a world canvas.
//
// # Determinism
//
// The engine draws randomness only from a PCG generator seeded by
// [Config.Seed], and iterates nodes and edges in graph insertion order.
// Identical graphs with identical configuration produce identical output.
//
// # Seeding
//
// Graphs without relationships start on a jittered grid. Graphs with
// relationships start with a breadth-first radial placement from the first
// linked node, which puts every child one preferred edge length from its
// parent. Nodes the traversal does not reach are laid out on a grid below
// the radial component.
//
// # Usage
//
//	eng := layout.NewEngine(nil, nil) // defaults
//	res := eng.Layout(g)
//	for id, p := range res.Positions {
//	    fmt.Println(id, p.X, p.Y)
//	}
package layout
