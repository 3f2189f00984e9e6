package wire

import (
	"strings"

	"github.com/matzehuels/dplace/pkg/errors"
)

// Field selects which parts of a point PrevPoint should resolve.
type Field uint8

const (
	FieldX Field = 1 << iota
	FieldY
	FieldLayer

	FieldXY  = FieldX | FieldY
	FieldAll = FieldXY | FieldLayer
)

func (f Field) String() string {
	var parts []string
	if f&FieldX != 0 {
		parts = append(parts, "x")
	}
	if f&FieldY != 0 {
		parts = append(parts, "y")
	}
	if f&FieldLayer != 0 {
		parts = append(parts, "layer")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Point is a decoded wire point. Fields reports which of X, Y and Layer were
// resolved; the others are zero.
type Point struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Layer  int   `json:"layer"`
	Fields Field `json:"-"`
}

// Via gives the two routing layers of a via.
type Via struct {
	Bottom int `json:"bottom"`
	Top    int `json:"top"`
}

// ViaTable resolves via operands to their layers.
type ViaTable interface {
	BlockVia(id int) (Via, bool)
	TechVia(id int) (Via, bool)
}

// Vias is a map-backed ViaTable.
type Vias struct {
	Block map[int]Via `json:"block,omitempty"`
	Tech  map[int]Via `json:"tech,omitempty"`
}

// BlockVia implements ViaTable.
func (v Vias) BlockVia(id int) (Via, bool) {
	via, ok := v.Block[id]
	return via, ok
}

// TechVia implements ViaTable.
func (v Vias) TechVia(id int) (Via, bool) {
	via, ok := v.Tech[id]
	return via, ok
}

// PrevPoint walks s backward from idx and returns the point in effect there.
// Only the fields in want are resolved; the walk stops as soon as all of them
// are found. vias may be nil when FieldLayer is not requested.
func PrevPoint(s Stream, idx int, want Field, vias ViaTable) (Point, error) {
	if idx < 0 || idx >= len(s.Ops) {
		return Point{}, errors.New(errors.ErrCodeInvalidStream, 204,
			"start index %d outside stream of length %d", idx, len(s.Ops))
	}

	var p Point
	want &= FieldAll
	pending := want
	for pending != 0 {
		if idx < 0 {
			return Point{}, errors.New(errors.ErrCodeInvalidStream, 201,
				"walked off the start of the stream looking for %s", pending)
		}
		in := s.Ops[idx]

		switch in.Opcode() {
		case OpPath, OpShort:
			if pending&FieldLayer != 0 {
				p.Layer = in.Operand
				pending &^= FieldLayer
			}

		case OpJunction:
			if in.Operand >= idx {
				return Point{}, errJunction(idx, in.Operand)
			}
			idx = in.Operand
			continue

		case OpX:
			if pending&FieldX != 0 {
				p.X = in.Operand
				pending &^= FieldX
			}

		case OpY:
			if pending&FieldY != 0 {
				p.Y = in.Operand
				pending &^= FieldY
			}

		case OpVia, OpTechVia:
			if pending&FieldLayer != 0 {
				via, err := lookupVia(vias, in, idx)
				if err != nil {
					return Point{}, err
				}
				if in.ExitTop() {
					p.Layer = via.Top
				} else {
					p.Layer = via.Bottom
				}
				pending &^= FieldLayer
			}
		}
		idx--
	}

	p.Fields = want
	return p, nil
}

func lookupVia(vias ViaTable, in Instruction, idx int) (Via, error) {
	var (
		via Via
		ok  bool
	)
	if vias != nil {
		if in.Opcode() == OpVia {
			via, ok = vias.BlockVia(in.Operand)
		} else {
			via, ok = vias.TechVia(in.Operand)
		}
	}
	if !ok {
		return Via{}, errors.New(errors.ErrCodeInvalidStream, 203,
			"unknown %s id %d at index %d", OpName(in.Op), in.Operand, idx)
	}
	return via, nil
}

func errJunction(idx, target int) error {
	return errors.New(errors.ErrCodeInvalidStream, 202,
		"junction at index %d targets %d, which is not an earlier position", idx, target)
}
