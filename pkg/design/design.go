package design

import (
	"github.com/matzehuels/dplace/pkg/geom"
)

// Signal types. POWER and GROUND are supply types.
const (
	SigSignal = "SIGNAL"
	SigClock  = "CLOCK"
	SigPower  = "POWER"
	SigGround = "GROUND"
)

// Master classes with special meaning to the placer.
const (
	ClassCore       = "CORE"
	ClassCoreSpacer = "CORE_SPACER"
	ClassBlock      = "BLOCK"
	ClassPad        = "PAD"
)

// Site classes.
const (
	SiteCore = "CORE"
	SitePad  = "PAD"
)

// Row directions.
const (
	RowHorizontal = "HORIZONTAL"
	RowVertical   = "VERTICAL"
)

// Special-wire types.
const (
	WireRouted = "ROUTED"
	WireFixed  = "FIXED"
	WireCover  = "COVER"
)

// DefaultEdgeType names the implicit edge type of untyped boundary segments.
const DefaultEdgeType = "DEFAULT"

// IsSupply reports whether sig is a POWER or GROUND signal type.
func IsSupply(sig string) bool { return sig == SigPower || sig == SigGround }

// Design is a snapshot of the physical database. Coordinates are absolute
// database units.
type Design struct {
	Name        string             `json:"name"`
	DBU         int                `json:"dbu_per_micron"`
	Core        geom.Rect          `json:"core"`
	Sites       []Site             `json:"sites"`
	Masters     []Master           `json:"masters"`
	Instances   []Instance         `json:"instances"`
	Nets        []Net              `json:"nets"`
	BTerms      []BTerm            `json:"bterms,omitempty"`
	Rows        []Row              `json:"rows"`
	Groups      []Group            `json:"groups,omitempty"`
	Blockages   []Blockage         `json:"blockages,omitempty"`
	EdgeSpacing []EdgeSpacingEntry `json:"edge_spacing,omitempty"`
	Padding     *Padding           `json:"padding,omitempty"`
}

// Site is a placement site definition.
type Site struct {
	Name        string `json:"name"`
	Class       string `json:"class"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SymmetryX   bool   `json:"symmetry_x,omitempty"`
	SymmetryY   bool   `json:"symmetry_y,omitempty"`
	SymmetryR90 bool   `json:"symmetry_r90,omitempty"`
}

// Master is a cell template.
type Master struct {
	Name   string     `json:"name"`
	Class  string     `json:"class"`
	Site   string     `json:"site,omitempty"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Terms  []MTerm    `json:"terms,omitempty"`
	Edges  []EdgeType `json:"edges,omitempty"`
}

// PlacementBoundary returns the master outline in master coordinates.
func (m *Master) PlacementBoundary() geom.Rect {
	return geom.Rect{XMax: m.Width, YMax: m.Height}
}

// Term returns the terminal named name, or nil.
func (m *Master) Term(name string) *MTerm {
	for i := range m.Terms {
		if m.Terms[i].Name == name {
			return &m.Terms[i]
		}
	}
	return nil
}

// MTerm is a master terminal.
type MTerm struct {
	Name    string `json:"name"`
	SigType string `json:"sig_type,omitempty"`
	Pins    []MPin `json:"pins,omitempty"`
}

// BBox returns the bounding box of all pin shapes of t in master coordinates.
func (t *MTerm) BBox() geom.Rect {
	var bb geom.BBox
	for i := range t.Pins {
		for _, b := range t.Pins[i].Boxes {
			bb.Add(b.Rect)
		}
	}
	return bb.Rect()
}

// MPin is one physical pin of a master terminal.
type MPin struct {
	Boxes []Box `json:"boxes"`
}

// BBox returns the bounding box of the pin's shapes.
func (p *MPin) BBox() geom.Rect {
	var bb geom.BBox
	for _, b := range p.Boxes {
		bb.Add(b.Rect)
	}
	return bb.Rect()
}

// Box is a shape on a routing layer.
type Box struct {
	Layer string    `json:"layer"`
	Rect  geom.Rect `json:"rect"`
}

// EdgeType assigns an edge-spacing type to part of one side of a master.
// CellRow and HalfRow are 1-based and zero when unset. Range applies to TOP
// and BOTTOM edges and is measured from the left of the master.
type EdgeType struct {
	Dir     geom.Dir   `json:"dir"`
	Type    string     `json:"type"`
	CellRow int        `json:"cell_row,omitempty"`
	HalfRow int        `json:"half_row,omitempty"`
	Range   *EdgeRange `json:"range,omitempty"`
}

// EdgeRange is a [Begin, End] interval along a horizontal edge.
type EdgeRange struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Instance is a placed cell.
type Instance struct {
	Name   string      `json:"name"`
	Master string      `json:"master"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Orient geom.Orient `json:"orient"`
	Fixed  bool        `json:"fixed,omitempty"`
}

// Net connects instance terminals and block terminals.
type Net struct {
	Name    string   `json:"name"`
	SigType string   `json:"sig_type,omitempty"`
	Special bool     `json:"special,omitempty"`
	ITerms  []ITerm  `json:"iterms,omitempty"`
	BTerms  []string `json:"bterms,omitempty"`
	SWires  []SWire  `json:"swires,omitempty"`
}

// Supply reports whether n is a power or ground net.
func (n *Net) Supply() bool { return IsSupply(n.SigType) }

// ITerm references terminal Term of instance Inst.
type ITerm struct {
	Inst string `json:"inst"`
	Term string `json:"term"`
}

// SWire is a special (power/ground) wire.
type SWire struct {
	WireType string `json:"wire_type"`
	Boxes    []SBox `json:"boxes"`
}

// SBox is a special-wire shape.
type SBox struct {
	Layer string    `json:"layer"`
	Rect  geom.Rect `json:"rect"`
	Via   bool      `json:"via,omitempty"`
}

// Horizontal reports whether the shape runs horizontally.
func (b SBox) Horizontal() bool { return b.Rect.Dx() > b.Rect.Dy() }

// BTerm is a block terminal (I/O pin).
type BTerm struct {
	Name string    `json:"name"`
	Net  string    `json:"net,omitempty"`
	BBox geom.Rect `json:"bbox"`
}

// Row is a placement row.
type Row struct {
	Name      string      `json:"name"`
	Site      string      `json:"site"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Orient    geom.Orient `json:"orient"`
	Direction string      `json:"direction,omitempty"`
	Count     int         `json:"count"`
	Spacing   int         `json:"spacing"`
}

// Horizontal reports whether r runs horizontally. An empty direction is
// horizontal.
func (r *Row) Horizontal() bool {
	return r.Direction == "" || r.Direction == RowHorizontal
}

// Group is a placement group, optionally constrained to a region.
type Group struct {
	Name    string      `json:"name"`
	Members []string    `json:"members"`
	Region  []geom.Rect `json:"region,omitempty"`
}

// Blockage is a placement blockage.
type Blockage struct {
	Rect geom.Rect `json:"rect"`
	Soft bool      `json:"soft,omitempty"`
}

// EdgeSpacingEntry is one entry of the cell edge-spacing table.
type EdgeSpacingEntry struct {
	Type1   string `json:"type1"`
	Type2   string `json:"type2"`
	Spacing int    `json:"spacing"`
}

// Padding gives cell padding in sites. Instance entries override master
// entries, which override the global value.
type Padding struct {
	Left      int                `json:"left,omitempty"`
	Right     int                `json:"right,omitempty"`
	Masters   map[string]SidePad `json:"masters,omitempty"`
	Instances map[string]SidePad `json:"instances,omitempty"`
}

// SidePad is a left/right padding pair in sites.
type SidePad struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// For returns the padding of an instance of master.
func (p *Padding) For(inst, master string) (left, right int) {
	if p == nil {
		return 0, 0
	}
	if s, ok := p.Instances[inst]; ok {
		return s.Left, s.Right
	}
	if s, ok := p.Masters[master]; ok {
		return s.Left, s.Right
	}
	return p.Left, p.Right
}
