package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Fingerprint returns a hex digest of the layout-relevant structure of g.
//
// Included: node IDs in order, attribute and operation counts, and every
// relationship record (target, kind, flag) in order. Excluded: names, colors
// and attribute/operation text.
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	for _, id := range g.order {
		n := g.nodes[id]
		fmt.Fprintf(h, "n|%s|%d|%d\n", id, len(n.Attributes), len(n.Operations))
		for _, r := range n.Relationships {
			fmt.Fprintf(h, "r|%s|%d|%t\n", r.Target, r.Kind, r.WholeEndAtSource)
		}
	}
	io.WriteString(h, "end")
	return hex.EncodeToString(h.Sum(nil))
}
