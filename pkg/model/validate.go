package model

import (
	"fmt"
	"strings"

	"github.com/matzehuels/classgraph/pkg/errors"
)

// ViolationKind classifies a relationship inconsistency.
type ViolationKind string

const (
	ViolationMissingMirror ViolationKind = "missing_mirror"
	ViolationKindMismatch  ViolationKind = "kind_mismatch"
	ViolationFlagMismatch  ViolationKind = "flag_mismatch"
	ViolationDuplicate     ViolationKind = "duplicate"
	ViolationSelfLink      ViolationKind = "self_link"
	ViolationDangling      ViolationKind = "dangling"
)

// Violation describes one inconsistent relationship record.
type Violation struct {
	Kind ViolationKind `json:"kind"`
	From string        `json:"from"`
	To   string        `json:"to"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.Kind, v.From, v.To)
}

// Fatal reports whether the violation breaks the mirror invariant.
// Dangling targets are tolerated and skipped at render time.
func (v Violation) Fatal() bool {
	return v.Kind != ViolationDangling
}

// Validate returns every relationship inconsistency, in node order.
// It never fails on malformed input.
func (g *Graph) Validate() []Violation {
	var out []Violation
	for _, id := range g.order {
		n := g.nodes[id]
		seen := make(map[string]bool, len(n.Relationships))
		for _, r := range n.Relationships {
			if seen[r.Target] {
				out = append(out, Violation{ViolationDuplicate, id, r.Target})
				continue
			}
			seen[r.Target] = true

			if r.Target == id {
				out = append(out, Violation{ViolationSelfLink, id, r.Target})
				continue
			}
			other, ok := g.nodes[r.Target]
			if !ok {
				out = append(out, Violation{ViolationDangling, id, r.Target})
				continue
			}
			back, ok := other.RelationshipTo(id)
			switch {
			case !ok:
				out = append(out, Violation{ViolationMissingMirror, id, r.Target})
			case back.Kind != r.Kind:
				out = append(out, Violation{ViolationKindMismatch, id, r.Target})
			case back.WholeEndAtSource == r.WholeEndAtSource:
				out = append(out, Violation{ViolationFlagMismatch, id, r.Target})
			}
		}
	}
	return out
}

// Check returns an INVALID_GRAPH error listing fatal violations, or nil.
func (g *Graph) Check() error {
	var msgs []string
	for _, v := range g.Validate() {
		if v.Fatal() {
			msgs = append(msgs, v.String())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidGraph, "%d relationship violation(s): %s", len(msgs), strings.Join(msgs, "; "))
}
