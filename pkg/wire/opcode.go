package wire

import "fmt"

// Opcodes occupy the low five bits of an op byte.
const (
	OpPath     byte = 0  // operand = layer id
	OpShort    byte = 1  // operand = layer id
	OpJunction byte = 2  // operand = stream index of the junction point
	OpRule     byte = 3  // operand = rule id
	OpX        byte = 4  // operand = x coordinate
	OpY        byte = 5  // operand = y coordinate
	OpColinear byte = 6  // operand = extension or 0
	OpVia      byte = 7  // operand = block via id
	OpTechVia  byte = 8  // operand = tech via id
	OpITerm    byte = 9  // operand = iterm id
	OpBTerm    byte = 10 // operand = bterm id
	OpOperand  byte = 11 // operand = integer operand
	OpProperty byte = 12 // operand = integer operand
	OpVWire    byte = 13 // operand = integer operand
	OpRect     byte = 14 // operand = first offset
	OpNop      byte = 15 // operand = 0
	OpColor    byte = 16 // operand = mask color
	OpViaColor byte = 17 // operand = via color

	// OpcodeMask extracts the opcode from an op byte.
	OpcodeMask byte = 0x1F
)

// Flag bits. They overlap; their meaning depends on the opcode.
const (
	FlagViaExitTop   byte = 0x80 // VIA, TECH_VIA
	FlagExtension    byte = 0x80 // X, Y, COLINEAR
	FlagBlockRule    byte = 0x80 // RULE
	FlagDefaultWidth byte = 0x40 // X, Y
)

// WireType is the routing status carried in the high bits of PATH, SHORT,
// JUNCTION and VWIRE op bytes.
type WireType byte

const (
	WireNone     WireType = 0x00
	Cover        WireType = 0x20
	Fixed        WireType = 0x40
	Routed       WireType = 0x60
	NoShield     WireType = 0x80
	WireTypeMask byte     = 0xE0
)

func (w WireType) String() string {
	switch w {
	case WireNone:
		return "NONE"
	case Cover:
		return "COVER"
	case Fixed:
		return "FIXED"
	case Routed:
		return "ROUTED"
	case NoShield:
		return "NOSHIELD"
	}
	return fmt.Sprintf("WireType(%#x)", byte(w))
}

var opNames = [...]string{
	OpPath:     "PATH",
	OpShort:    "SHORT",
	OpJunction: "JUNCTION",
	OpRule:     "RULE",
	OpX:        "X",
	OpY:        "Y",
	OpColinear: "COLINEAR",
	OpVia:      "VIA",
	OpTechVia:  "TECH_VIA",
	OpITerm:    "ITERM",
	OpBTerm:    "BTERM",
	OpOperand:  "OPERAND",
	OpProperty: "PROPERTY",
	OpVWire:    "VWIRE",
	OpRect:     "RECT",
	OpNop:      "NOP",
	OpColor:    "COLOR",
	OpViaColor: "VIACOLOR",
}

// OpName returns the mnemonic for an opcode (flags are ignored).
func OpName(op byte) string {
	op &= OpcodeMask
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("OP%d", op)
}

// ParseOpName returns the opcode for a mnemonic.
func ParseOpName(name string) (byte, bool) {
	for i, n := range opNames {
		if n == name {
			return byte(i), true
		}
	}
	return 0, false
}

// Instruction is one slot of a stream: an op byte and its operand.
type Instruction struct {
	Op      byte `json:"op"`
	Operand int  `json:"operand"`
}

// Opcode returns the opcode with flag bits removed.
func (in Instruction) Opcode() byte { return in.Op & OpcodeMask }

// ExitTop reports whether a via instruction exits through its top layer.
// It is false for every other opcode regardless of bit 0x80.
func (in Instruction) ExitTop() bool {
	switch in.Opcode() {
	case OpVia, OpTechVia:
		return in.Op&FlagViaExitTop != 0
	}
	return false
}

// HasExtension reports whether a point instruction carries an extension.
func (in Instruction) HasExtension() bool {
	switch in.Opcode() {
	case OpX, OpY, OpColinear:
		return in.Op&FlagExtension != 0
	}
	return false
}

// BlockRule reports whether a RULE instruction names a block-level rule.
func (in Instruction) BlockRule() bool {
	return in.Opcode() == OpRule && in.Op&FlagBlockRule != 0
}

// WireType returns the routing status of a PATH, SHORT, JUNCTION or VWIRE
// instruction, and WireNone for the rest.
func (in Instruction) WireType() WireType {
	switch in.Opcode() {
	case OpPath, OpShort, OpJunction, OpVWire:
		return WireType(in.Op & WireTypeMask)
	}
	return WireNone
}

func (in Instruction) String() string {
	s := fmt.Sprintf("%s %d", OpName(in.Op), in.Operand)
	switch {
	case in.ExitTop():
		s += " top"
	case in.HasExtension():
		s += " ext"
	case in.BlockRule():
		s += " block"
	}
	if wt := in.WireType(); wt != WireNone {
		s += " " + wt.String()
	}
	return s
}
