package detailed_test

import (
	"fmt"

	"github.com/matzehuels/dplace/pkg/detailed"
)

func ExampleParseScript() {
	sc, err := detailed.ParseScript(detailed.DefaultScriptFor(true))
	if err != nil {
		panic(err)
	}
	for _, c := range sc.Commands {
		fmt.Println(c)
	}
	fmt.Println("one-site gaps allowed:", !sc.DisallowOneSiteGaps)
	// Output:
	// mis -p 10 -t 0.005
	// gs -p 10 -t 0.005
	// vs -p 10 -t 0.005
	// ro -p 10 -t 0.005
	// default -p 5 -t 0 -f 20 -gen rng -obj hpwl -cost (hpwl)
	// one-site gaps allowed: false
}

func ExampleParseCost() {
	e, err := detailed.ParseCost("hpwl + 0.5*disp")
	if err != nil {
		panic(err)
	}
	fmt.Println(e.Vars(), e.Eval(map[string]float64{"hpwl": 1200, "disp": 300}))
	// Output: [disp hpwl] 1350
}
