package layout

import "github.com/matzehuels/classgraph/pkg/model"

// Result is a finished layout: the top-left corner of every node box and the
// size of the world canvas that contains them.
type Result struct {
	Positions  map[string]Point `json:"positions" bson:"positions"`
	Width      float64          `json:"width" bson:"width"`
	Height     float64          `json:"height" bson:"height"`
	Iterations int              `json:"iterations" bson:"iterations"`
	Converged  bool             `json:"converged" bson:"converged"`
}

// Boxes pairs each positioned node of g with its size from s. Nodes without
// a position are omitted.
func (r Result) Boxes(g *model.Graph, s Sizer) map[string]Box {
	out := make(map[string]Box, len(r.Positions))
	for _, n := range g.Nodes() {
		p, ok := r.Positions[n.ID]
		if !ok {
			continue
		}
		out[n.ID] = BoxAt(p, s.Size(n))
	}
	return out
}
