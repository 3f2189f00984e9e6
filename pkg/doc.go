// Package pkg provides the libraries behind dplace, a detailed placement
// legalizer and improver for standard-cell designs.
//
// # Overview
//
// dplace takes a placed design, moves every movable cell onto a legal site
// of a row and then reduces half-perimeter wirelength (HPWL) with local
// moves. The packages are layered leaf-first:
//
//  1. [geom], [errors] - geometry primitives and coded errors
//  2. [design] - the database snapshot: JSON I/O, HPWL, write-back
//  3. [network], [arch] - the placement hypergraph and the row architecture
//  4. [importer] - builds the network and architecture from a snapshot
//  5. [placement] - row segments, cell order, legality checks, move journal
//  6. [legalize], [detailed] - the shift legalizer and the improvement passes
//  7. [pipeline] - the complete flow with result caching ([cache])
//
// [wire] is independent of the rest: it decodes the compact opcode streams
// that store routed wires.
//
// # Data Flow
//
//	design.Design (JSON snapshot)
//	         ↓
//	    [importer] (network + architecture)
//	         ↓
//	    [legalize] (every cell on a legal site)
//	         ↓
//	    [detailed] (mis, gs, vs, ro, random passes)
//	         ↓
//	    design.Placement (changed instances written back)
//
// # Quick Start
//
//	d, err := design.ImportJSON("top.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, d, pipeline.Options{MaxDisplacementX: 50})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res.Report.Print(os.Stdout)
//	design.ExportJSON(d, "top.placed.json")
//
// The steps can also be driven one by one:
//
//	imp, _ := importer.Import(d, importer.Options{})
//	m := placement.New(imp.Network, imp.Arch, placement.Options{Seed: 42})
//	stats, _ := legalize.Shift{}.Legalize(m)
//	sc, _ := detailed.ParseScript(detailed.DefaultScript)
//	result, _ := (&detailed.Engine{Script: sc}).Run(ctx, m)
//
// [render/dot] exports a network as Graphviz DOT or SVG for inspection.
//
// # Testing
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/detailed/...      # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// Redis cache tests run only when DPLACE_REDIS_ADDR is set.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/geom
// [errors]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/errors
// [design]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/design
// [network]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/network
// [arch]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/arch
// [importer]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/importer
// [placement]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/placement
// [legalize]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/legalize
// [detailed]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/detailed
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/cache
// [wire]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/wire
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/dplace/pkg/render/dot
package pkg
