package io

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Document is the serialized project.
type Document struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" validate:"max=200"`
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Links []Link `json:"links,omitempty" yaml:"links,omitempty" validate:"dive"`
}

// Node is one class.
type Node struct {
	ID            string         `json:"id" yaml:"id" validate:"required,max=128"`
	Name          string         `json:"name,omitempty" yaml:"name,omitempty" validate:"max=200"`
	Color         string         `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Attributes    []Member       `json:"attributes,omitempty" yaml:"attributes,omitempty" validate:"max=200,dive"`
	Operations    []Member       `json:"operations,omitempty" yaml:"operations,omitempty" validate:"max=200,dive"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty" validate:"dive"`
}

// Member is an attribute or operation.
type Member struct {
	Name string `json:"name" yaml:"name" validate:"required,max=200"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Relationship is a raw per-node record.
type Relationship struct {
	Target           string `json:"target" yaml:"target" validate:"required"`
	Kind             string `json:"kind" yaml:"kind" validate:"required"`
	WholeEndAtSource bool   `json:"whole_end_at_source,omitempty" yaml:"whole_end_at_source,omitempty"`
}

// Link declares a mirrored pair. For directional kinds From is the
// specializing or depending class.
type Link struct {
	From             string `json:"from" yaml:"from" validate:"required"`
	To               string `json:"to" yaml:"to" validate:"required"`
	Kind             string `json:"kind" yaml:"kind" validate:"required"`
	WholeEndAtSource bool   `json:"whole_end_at_source,omitempty" yaml:"whole_end_at_source,omitempty"`
}

var validate = validator.New()

// Validate checks field constraints. Graph-level rules are checked by
// [Document.Graph].
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", describe(err))
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Document.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s exceeds %s", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s: %q is not a hex color", field, e.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, e.Tag())
	}
}

// Graph validates d and builds the model. Raw relationships are kept as
// written; links are applied with [model.Graph.Connect]. The result must
// satisfy the mirror rule, though dangling targets are tolerated.
func (d *Document) Graph() (*model.Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	nodes := make([]model.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		mn, err := n.model()
		if err != nil {
			return nil, err
		}
		nodes[i] = mn
	}
	g, err := model.FromNodes(nodes)
	if err != nil {
		return nil, err
	}

	for _, l := range d.Links {
		kind, err := model.ParseKind(l.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "link %s -> %s", l.From, l.To)
		}
		if err := g.Connect(l.From, l.To, kind, l.WholeEndAtSource); err != nil {
			return nil, err
		}
	}

	if err := g.Check(); err != nil {
		return nil, err
	}
	return g, nil
}

func (n Node) model() (model.Node, error) {
	out := model.Node{ID: n.ID, Name: n.Name, Color: n.Color}
	if out.Name == "" {
		out.Name = n.ID
	}
	for _, a := range n.Attributes {
		t, err := model.ParsePrimitiveType(a.Type, model.TypeString)
		if err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.%s", n.ID, a.Name)
		}
		out.Attributes = append(out.Attributes, model.Attribute{Name: a.Name, Type: t})
	}
	for _, o := range n.Operations {
		t, err := model.ParsePrimitiveType(o.Type, model.TypeVoid)
		if err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.%s()", n.ID, o.Name)
		}
		out.Operations = append(out.Operations, model.Operation{Name: o.Name, Type: t})
	}
	for _, r := range n.Relationships {
		kind, err := model.ParseKind(r.Kind)
		if err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s -> %s", n.ID, r.Target)
		}
		out.Relationships = append(out.Relationships, model.Relationship{
			Target:           r.Target,
			Kind:             kind,
			WholeEndAtSource: r.WholeEndAtSource,
		})
	}
	return out, nil
}

// FromGraph converts g to a document with per-node relationship records.
func FromGraph(name string, g *model.Graph) *Document {
	d := &Document{Name: name, Nodes: make([]Node, 0, g.Len())}
	for _, n := range g.Nodes() {
		dn := Node{ID: n.ID, Name: n.Name, Color: n.Color}
		for _, a := range n.Attributes {
			dn.Attributes = append(dn.Attributes, Member{Name: a.Name, Type: string(a.Type)})
		}
		for _, o := range n.Operations {
			dn.Operations = append(dn.Operations, Member{Name: o.Name, Type: string(o.Type)})
		}
		for _, r := range n.Relationships {
			dn.Relationships = append(dn.Relationships, Relationship{
				Target:           r.Target,
				Kind:             r.Kind.String(),
				WholeEndAtSource: r.WholeEndAtSource,
			})
		}
		d.Nodes = append(d.Nodes, dn)
	}
	return d
}
