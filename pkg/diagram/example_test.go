package diagram_test

import (
	"fmt"

	"github.com/matzehuels/provflow/pkg/diagram"
	"github.com/matzehuels/provflow/pkg/flow"
)

func ExampleBuild() {
	steps := []flow.Partition{
		{{"a", "b"}, {"c"}},
		{{"c"}, {"a", "b"}},
	}
	results := flow.Thread(steps, nil, flow.Exhaustive{})

	d := diagram.Build([]int{2019, 2020}, results, nil, diagram.Options{})
	for _, c := range d.Columns {
		fmt.Print(c.Year, ":")
		for _, b := range c.Bands {
			fmt.Print(" ", b.Entities)
		}
		fmt.Println()
	}
	fmt.Println("crossings:", d.Crossings)
	// Output:
	// 2019: [a b] [c]
	// 2020: [a b] [c]
	// crossings: 0
}
