package geom_test

import (
	"fmt"

	"github.com/matzehuels/dplace/pkg/geom"
)

func ExampleDifference() {
	bbox := geom.Rect{XMin: 0, YMin: 0, XMax: 400, YMax: 1400}
	left := geom.BoundarySegment(bbox, geom.Left)

	typed := []geom.Rect{
		{XMin: 0, YMin: 700, XMax: 0, YMax: 1400},
		{XMin: 0, YMin: 200, XMax: 0, YMax: 300},
	}
	for _, gap := range geom.Difference(left, typed) {
		fmt.Println(gap.YMin, gap.YMax)
	}
	// Output:
	// 0 200
	// 300 700
}

func ExampleOrient_TransformOffset() {
	dx, dy := geom.MX.TransformOffset(40, 300)
	fmt.Println(dx, dy)
	// Output:
	// 40 -300
}
