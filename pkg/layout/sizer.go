package layout

import "github.com/matzehuels/classgraph/pkg/model"

// Sizer computes class box dimensions. A box has a name row and two
// compartments (attributes, operations); each compartment shows at least one
// row so that empty compartments remain visible.
type Sizer struct {
	Width          float64 `toml:"width" json:"width" validate:"gt=0"`
	NameHeight     float64 `toml:"name_height" json:"name_height" validate:"gt=0"`
	RowHeight      float64 `toml:"row_height" json:"row_height" validate:"gt=0"`
	SectionPadding float64 `toml:"section_padding" json:"section_padding" validate:"gte=0"`
}

// DefaultSizer matches the editor's box metrics: 120px wide, 16px rows,
// 8px compartment padding and a 24px name row.
var DefaultSizer = Sizer{
	Width:          120,
	NameHeight:     24,
	RowHeight:      16,
	SectionPadding: 8,
}

// Compartments gives the vertical extent of each part of a box, relative to
// its top edge.
type Compartments struct {
	Name       float64 // height of the name row
	Attributes float64 // height of the attribute compartment including padding
	Operations float64 // height of the operation compartment including padding
	Row        float64 // height of one attribute or operation row
	Padding    float64 // padding inside each compartment, split above and below the rows
}

// Compartments returns the compartment heights for n.
func (s Sizer) Compartments(n *model.Node) Compartments {
	return Compartments{
		Name:       s.NameHeight,
		Attributes: float64(max(1, len(n.Attributes)))*s.RowHeight + s.SectionPadding,
		Operations: float64(max(1, len(n.Operations)))*s.RowHeight + s.SectionPadding,
		Row:        s.RowHeight,
		Padding:    s.SectionPadding,
	}
}

// Size returns the box size for n.
func (s Sizer) Size(n *model.Node) Size {
	c := s.Compartments(n)
	return Size{W: s.Width, H: c.Name + c.Attributes + c.Operations}
}
