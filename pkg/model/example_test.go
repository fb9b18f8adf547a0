package model_test

import (
	"fmt"

	"github.com/matzehuels/classgraph/pkg/model"
)

func ExampleGraph_Connect() {
	g := model.NewGraph()
	g.AddNode(model.Node{ID: "Order", Name: "Order"})
	g.AddNode(model.Node{ID: "Line", Name: "OrderLine"})

	// An order is composed of lines; the order is the whole.
	g.Connect("Order", "Line", model.Composition, true)

	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s %s whole=%t\n", e.From, e.Target, e.Kind, e.WholeEndAtSource)
	}
	// Output:
	// Order -> Line composition whole=true
	// Line -> Order composition whole=false
}

func ExampleGraph_Validate() {
	g, _ := model.FromNodes([]model.Node{
		{ID: "A", Relationships: []model.Relationship{{Target: "B", Kind: model.Inheritance}}},
		{ID: "B"},
	})
	for _, v := range g.Validate() {
		fmt.Println(v)
	}
	// Output:
	// missing_mirror: A -> B
}
