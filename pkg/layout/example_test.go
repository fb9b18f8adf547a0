package layout_test

import (
	"fmt"

	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

func ExampleSizer_Size() {
	n := &model.Node{
		Attributes: []model.Attribute{{Name: "id", Type: model.TypeInt}, {Name: "total", Type: model.TypeFloat}},
	}
	fmt.Println(layout.DefaultSizer.Size(n))
	// Output: {120 88}
}

func ExampleEngine_Layout() {
	g := model.NewGraph()
	g.AddNode(model.Node{ID: "Shape"})
	g.AddNode(model.Node{ID: "Circle"})
	g.Connect("Circle", "Shape", model.Inheritance, false)

	res := layout.NewEngine(nil, nil).Layout(g)
	fmt.Println(len(res.Positions), res.Converged, res.Width, res.Height)
	// Output: 2 true 800 600
}
