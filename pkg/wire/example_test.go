package wire_test

import (
	"fmt"

	"github.com/matzehuels/dplace/pkg/wire"
)

func ExamplePrevPoint() {
	var b wire.Builder
	b.Path(1, wire.Routed).X(0).Y(0).X(500)
	trunk := b.Len() - 1
	b.Junction(trunk, wire.Routed).Y(300)

	p, err := wire.PrevPoint(b.Stream(), b.Len()-1, wire.FieldAll, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.X, p.Y, p.Layer)
	// Output:
	// 500 300 1
}
