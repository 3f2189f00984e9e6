// Package importer translates a design snapshot into the placement network
// and architecture.
//
// Construction order matters: master powers are derived first because both
// network nodes and power-rail detection depend on them; the network is built
// before the architecture; padding and regions are applied last because they
// reference network nodes.
//
// The name-to-object side tables used while building (instance to node, block
// terminal to node, master to network master) belong to one Import call and
// are discarded with it.
package importer

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dplace/pkg/arch"
	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// Options configures an import.
type Options struct {
	// Placeable decides which masters become network cells. Defaults to
	// masters whose class starts with CORE.
	Placeable func(m *design.Master) bool

	// Logger receives info and warning messages. Defaults to discarding.
	Logger *log.Logger
}

// SkippedRows describes rows left out of the architecture because their site
// is taller than the single-row height.
type SkippedRows struct {
	Height int
	Sites  []string
	Rows   []string
}

// Result is the outcome of an import.
type Result struct {
	Network      *network.Network
	Arch         *arch.Architecture
	MinRowHeight int
	SkippedRows  []SkippedRows
	Warnings     []errors.Warning
}

// Import builds the network and architecture for d.
func Import(d *design.Design, opts Options) (*Result, error) {
	b := newBuilder(d, opts)

	b.setupMasterPowers()
	b.initSpacingTable()
	if err := b.createNetwork(); err != nil {
		return nil, err
	}
	if err := b.createArchitecture(); err != nil {
		return nil, err
	}
	b.initPadding()
	b.setupGroups()

	return &Result{
		Network:      b.nw,
		Arch:         b.arch,
		MinRowHeight: b.minRowHeight,
		SkippedRows:  b.skipped,
		Warnings:     b.warn.List,
	}, nil
}

// DefaultPlaceable accepts the CORE master classes.
func DefaultPlaceable(m *design.Master) bool {
	return strings.HasPrefix(m.Class, design.ClassCore)
}

type powerPair struct {
	top, bottom network.Power
}

type builder struct {
	d         *design.Design
	x         *design.Index
	core      geom.Rect
	placeable func(*design.Master) bool
	log       *log.Logger
	warn      errors.Warnings

	masterPwrs map[string]powerPair
	pwrLayers  map[string]bool
	gndLayers  map[string]bool

	spacing      *arch.SpacingTable
	minRowHeight int

	masters  map[string]*network.Master
	instNode map[int]int
	termNode map[int]int

	nw      *network.Network
	arch    *arch.Architecture
	skipped []SkippedRows
}

func newBuilder(d *design.Design, opts Options) *builder {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	placeable := opts.Placeable
	if placeable == nil {
		placeable = DefaultPlaceable
	}
	b := &builder{
		d:          d,
		x:          design.NewIndex(d),
		core:       d.Core,
		placeable:  placeable,
		log:        logger,
		warn:       errors.Warnings{Logger: logger},
		masterPwrs: make(map[string]powerPair),
		pwrLayers:  make(map[string]bool),
		gndLayers:  make(map[string]bool),
		masters:    make(map[string]*network.Master),
		instNode:   make(map[int]int),
		termNode:   make(map[int]int),
	}
	b.minRowHeight = b.computeMinRowHeight()
	return b
}

// computeMinRowHeight returns the smallest site height over the rows that can
// be legalized into (horizontal, non-pad).
func (b *builder) computeMinRowHeight() int {
	minH := 0
	for i := range b.d.Rows {
		r := &b.d.Rows[i]
		site := b.x.Site(r.Site)
		if site == nil || site.Class == design.SitePad || !r.Horizontal() {
			continue
		}
		if minH == 0 || site.Height < minH {
			minH = site.Height
		}
	}
	return minH
}

func (b *builder) isPlaceable(inst *design.Instance) bool {
	m := b.x.Master(inst.Master)
	return m != nil && b.placeable(m)
}

func (b *builder) initSpacingTable() {
	if len(b.d.EdgeSpacing) == 0 {
		return
	}
	b.spacing = arch.NewSpacingTable()
	for _, e := range b.d.EdgeSpacing {
		b.spacing.Add(e.Type1, e.Type2, e.Spacing)
	}
}
