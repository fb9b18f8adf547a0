// Package scene is the serialization boundary between layout and rendering.
//
// A [Scene] is a self-contained, render-ready diagram: positioned boxes with
// their display text, the connector primitives, and the world size. It is
// what the cache stores, what the HTTP API returns, and what every sink
// draws, so renderers never need the model or the engine.
//
//	sc := scene.Build(g, res, resolution, sizer)
//	data, _ := scene.Marshal(sc)
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Scene is a fully resolved class diagram.
type Scene struct {
	Width      float64              `json:"width" bson:"width"`
	Height     float64              `json:"height" bson:"height"`
	Nodes      []Node               `json:"nodes" bson:"nodes"`
	Primitives []geometry.Primitive `json:"primitives" bson:"primitives"`
	Stats      Stats                `json:"stats" bson:"stats"`
}

// Node is a positioned class box with its display text.
type Node struct {
	ID           string              `json:"id" bson:"id"`
	Name         string              `json:"name" bson:"name"`
	Color        string              `json:"color" bson:"color"`
	Box          layout.Box          `json:"box" bson:"box"`
	Compartments layout.Compartments `json:"compartments" bson:"compartments"`
	Attributes   []string            `json:"attributes" bson:"attributes"`
	Operations   []string            `json:"operations" bson:"operations"`
}

// Stats summarizes how the scene was produced.
type Stats struct {
	Iterations int  `json:"iterations" bson:"iterations"`
	Converged  bool `json:"converged" bson:"converged"`
	Dangling   int  `json:"dangling" bson:"dangling"`
	Degenerate int  `json:"degenerate" bson:"degenerate"`
}

// Build assembles a scene. Nodes appear in graph order; nodes without a
// position in res are omitted.
func Build(g *model.Graph, res layout.Result, r geometry.Resolution, sizer layout.Sizer) Scene {
	sc := Scene{
		Width:      res.Width,
		Height:     res.Height,
		Primitives: r.Primitives,
		Stats: Stats{
			Iterations: res.Iterations,
			Converged:  res.Converged,
			Dangling:   r.Dangling,
			Degenerate: r.Degenerate,
		},
	}
	for _, n := range g.Nodes() {
		p, ok := res.Positions[n.ID]
		if !ok {
			continue
		}
		sc.Nodes = append(sc.Nodes, Node{
			ID:           n.ID,
			Name:         n.Name,
			Color:        n.Color,
			Box:          layout.BoxAt(p, sizer.Size(n)),
			Compartments: sizer.Compartments(n),
			Attributes:   AttributeLabels(n.Attributes),
			Operations:   OperationLabels(n.Operations),
		})
	}
	return sc
}

// Node returns the scene node with the given ID.
func (s Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// AttributeLabels formats attributes as "name: type".
func AttributeLabels(attrs []model.Attribute) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = fmt.Sprintf("%s: %s", a.Name, a.Type)
	}
	return out
}

// OperationLabels formats operations as "name(): type".
func OperationLabels(ops []model.Operation) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = fmt.Sprintf("%s(): %s", o.Name, o.Type)
	}
	return out
}

// Marshal encodes a scene as indented JSON.
func Marshal(s Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a scene from JSON.
func Unmarshal(data []byte) (Scene, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a scene as indented JSON to w.
func Write(s Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Read decodes a scene from r.
func Read(r io.Reader) (Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	return s, nil
}

// WriteFile writes a scene to path.
func WriteFile(s Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(s, f)
}

// ReadFile reads a scene from path.
func ReadFile(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
