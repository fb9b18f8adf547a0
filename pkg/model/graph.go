package model

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/classgraph/pkg/errors"
)

const (
	// NodeKindClass is the only node kind the diagram editor produces.
	NodeKindClass = "class"

	// DefaultColor is the box background for nodes created without a color.
	DefaultColor = "#ffffff"
)

// Attribute is a typed field of a class.
type Attribute struct {
	Name string        `json:"name" bson:"name"`
	Type PrimitiveType `json:"type" bson:"type"`
}

// Operation is a method of a class with its return type.
type Operation struct {
	Name string        `json:"name" bson:"name"`
	Type PrimitiveType `json:"type" bson:"type"`
}

// Relationship is one side of a mirrored link, stored on the node it starts from.
type Relationship struct {
	Target           string `json:"target" bson:"target"`
	Kind             Kind   `json:"kind" bson:"kind"`
	WholeEndAtSource bool   `json:"whole_end_at_source" bson:"whole_end_at_source"`
}

// Node is a class in the diagram.
//
// Name, Color and the text of Attributes and Operations may be mutated freely
// through [Graph.Node]. Relationships must only be changed through the Graph
// editing methods.
type Node struct {
	ID            string         `json:"id" bson:"id"`
	Name          string         `json:"name" bson:"name"`
	Kind          string         `json:"kind" bson:"kind"`
	Color         string         `json:"color" bson:"color"`
	Attributes    []Attribute    `json:"attributes" bson:"attributes"`
	Operations    []Operation    `json:"operations" bson:"operations"`
	Relationships []Relationship `json:"relationships" bson:"relationships"`
}

// RelationshipTo returns the record pointing at target, if any.
func (n *Node) RelationshipTo(target string) (Relationship, bool) {
	if i := n.relIndex(target); i >= 0 {
		return n.Relationships[i], true
	}
	return Relationship{}, false
}

func (n *Node) relIndex(target string) int {
	return slices.IndexFunc(n.Relationships, func(r Relationship) bool { return r.Target == target })
}

func (n *Node) dropRelationship(target string) bool {
	before := len(n.Relationships)
	n.Relationships = slices.DeleteFunc(n.Relationships, func(r Relationship) bool { return r.Target == target })
	return len(n.Relationships) != before
}

// putRelationship replaces the record for r.Target where it stands, dropping
// any later duplicates, or appends r when there is none.
func (n *Node) putRelationship(r Relationship) {
	i := n.relIndex(r.Target)
	if i < 0 {
		n.Relationships = append(n.Relationships, r)
		return
	}
	n.Relationships[i] = r
	tail := slices.DeleteFunc(n.Relationships[i+1:], func(x Relationship) bool { return x.Target == r.Target })
	n.Relationships = n.Relationships[:i+1+len(tail)]
}

func (n *Node) clone() *Node {
	c := *n
	c.Attributes = slices.Clone(n.Attributes)
	c.Operations = slices.Clone(n.Operations)
	c.Relationships = slices.Clone(n.Relationships)
	return &c
}

// Edge is a directed view of a single relationship record.
type Edge struct {
	From string
	Relationship
}

// Graph is an ordered collection of nodes keyed by ID.
//
// Iteration order is insertion order, which keeps layout deterministic.
// The zero value is not usable; create graphs with [NewGraph] or [FromNodes].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes map[string]*Node
	order []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// FromNodes builds a graph from already-linked nodes, as read from storage.
// Relationships are taken as-is; call [Graph.Validate] to check them.
// Returns an error for empty or duplicate IDs.
func FromNodes(nodes []Node) (*Graph, error) {
	g := NewGraph()
	for i := range nodes {
		n := nodes[i]
		if err := errors.ValidateID(n.ID); err != nil {
			return nil, err
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %q", n.ID)
		}
		g.insert(withDefaults(n.clone()))
	}
	return g, nil
}

func withDefaults(n *Node) *Node {
	if n.Kind == "" {
		n.Kind = NodeKindClass
	}
	if n.Color == "" {
		n.Color = DefaultColor
	}
	return n
}

func (g *Graph) insert(n *Node) {
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

// NewID returns a fresh random node or project identifier.
func NewID() string {
	return uuid.NewString()
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []string {
	return slices.Clone(g.order)
}

// Edges returns every relationship record as a directed edge, grouped by
// source node in insertion order. Mirrored pairs appear twice.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range g.order {
		for _, r := range g.nodes[id].Relationships {
			out = append(out, Edge{From: id, Relationship: r})
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for _, id := range g.order {
		c.insert(g.nodes[id].clone())
	}
	return c
}

// AddNode inserts a node and returns its ID. An empty ID is replaced with a
// generated one; Kind and Color receive defaults. Relationships on n are
// discarded, use [Graph.Connect] afterwards.
func (g *Graph) AddNode(n Node) (string, error) {
	if n.ID == "" {
		n.ID = NewID()
	}
	if err := errors.ValidateID(n.ID); err != nil {
		return "", err
	}
	if g.Has(n.ID) {
		return "", errors.New(errors.ErrCodeDuplicateNode, "node %q already exists", n.ID)
	}
	node := withDefaults(n.clone())
	node.Relationships = nil
	g.insert(node)
	return node.ID, nil
}

// RemoveNode deletes a node and strips every relationship pointing at it.
func (g *Graph) RemoveNode(id string) error {
	if !g.Has(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	for _, n := range g.nodes {
		n.dropRelationship(id)
	}
	return nil
}

// Connect links two existing nodes with a mirrored pair of records.
//
// For Association, Aggregation and Composition the from-record receives
// wholeEndAtSource and the to-record its negation. For directional kinds,
// from is the specializing or depending end: its record is unflagged and the
// supplied flag is ignored.
func (g *Graph) Connect(from, to string, kind Kind, wholeEndAtSource bool) error {
	a, b, err := g.pair(from, to)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid relationship kind %d", int(kind))
	}
	if a.relIndex(to) >= 0 || b.relIndex(from) >= 0 {
		return errors.New(errors.ErrCodeDuplicateLink, "%q and %q are already linked", from, to)
	}
	flag := forwardFlag(kind, wholeEndAtSource)
	a.Relationships = append(a.Relationships, Relationship{Target: to, Kind: kind, WholeEndAtSource: flag})
	b.Relationships = append(b.Relationships, Relationship{Target: from, Kind: kind, WholeEndAtSource: !flag})
	return nil
}

// SetRelationship changes the kind and flag of an existing link between a
// and b, rewriting both records in place so relationship order is kept.
// A missing mirror record is recreated.
// For directional kinds a becomes the specializing end.
func (g *Graph) SetRelationship(a, b string, kind Kind, wholeEndAtSource bool) error {
	na, nb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid relationship kind %d", int(kind))
	}
	if na.relIndex(b) < 0 && nb.relIndex(a) < 0 {
		return errors.New(errors.ErrCodeNotFound, "%q and %q are not linked", a, b)
	}
	flag := forwardFlag(kind, wholeEndAtSource)
	na.putRelationship(Relationship{Target: b, Kind: kind, WholeEndAtSource: flag})
	nb.putRelationship(Relationship{Target: a, Kind: kind, WholeEndAtSource: !flag})
	return nil
}

// Disconnect removes both records of the link between a and b.
func (g *Graph) Disconnect(a, b string) error {
	na, nb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	removedA := na.dropRelationship(b)
	removedB := nb.dropRelationship(a)
	if !removedA && !removedB {
		return errors.New(errors.ErrCodeNotFound, "%q and %q are not linked", a, b)
	}
	return nil
}

// Rename sets a node's display name. Cosmetic.
func (g *Graph) Rename(id, name string) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	n.Name = name
	return nil
}

// SetColor sets a node's background color. Cosmetic.
func (g *Graph) SetColor(id, color string) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	n.Color = color
	return nil
}

// SetAttributes replaces a node's attributes.
func (g *Graph) SetAttributes(id string, attrs []Attribute) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	for _, a := range attrs {
		if !a.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "attribute %q has unknown type %q", a.Name, a.Type)
		}
	}
	n.Attributes = slices.Clone(attrs)
	return nil
}

// SetOperations replaces a node's operations.
func (g *Graph) SetOperations(id string, ops []Operation) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	for _, o := range ops {
		if !o.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "operation %q has unknown type %q", o.Name, o.Type)
		}
	}
	n.Operations = slices.Clone(ops)
	return nil
}

func (g *Graph) pair(a, b string) (*Node, *Node, error) {
	if a == b {
		return nil, nil, errors.New(errors.ErrCodeSelfLink, "cannot link %q to itself", a)
	}
	na, ok := g.nodes[a]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", a)
	}
	nb, ok := g.nodes[b]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", b)
	}
	return na, nb, nil
}

func forwardFlag(kind Kind, wholeEndAtSource bool) bool {
	if kind.IsDirectional() {
		return false
	}
	return wholeEndAtSource
}
