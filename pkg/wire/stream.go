package wire

import (
	"slices"

	"github.com/matzehuels/dplace/pkg/errors"
)

// Stream is an immutable instruction sequence.
type Stream struct {
	Ops []Instruction `json:"ops"`
}

// FromArrays builds a Stream from the stored parallel opcode and operand
// arrays. Both arrays must have the same length.
func FromArrays(opcodes []byte, data []int) (Stream, error) {
	if len(opcodes) != len(data) {
		return Stream{}, errors.New(errors.ErrCodeInvalidStream, 0,
			"opcode and operand arrays differ in length: %d vs %d", len(opcodes), len(data))
	}
	ops := make([]Instruction, len(opcodes))
	for i := range opcodes {
		ops[i] = Instruction{Op: opcodes[i], Operand: data[i]}
	}
	return Stream{Ops: ops}, nil
}

// Arrays returns the parallel-array form of s.
func (s Stream) Arrays() ([]byte, []int) {
	opcodes := make([]byte, len(s.Ops))
	data := make([]int, len(s.Ops))
	for i, in := range s.Ops {
		opcodes[i], data[i] = in.Op, in.Operand
	}
	return opcodes, data
}

// Len returns the number of instructions.
func (s Stream) Len() int { return len(s.Ops) }

// Validate checks that every JUNCTION points strictly backward to a valid
// index. Decoding a stream that fails Validate may still succeed for indices
// that never reach the bad junction.
func (s Stream) Validate() error {
	for i, in := range s.Ops {
		if in.Opcode() != OpJunction {
			continue
		}
		if in.Operand < 0 || in.Operand >= i {
			return errJunction(i, in.Operand)
		}
	}
	return nil
}

// Builder appends instructions to a stream. The zero value is ready to use.
type Builder struct {
	ops []Instruction
}

func (b *Builder) emit(op byte, operand int) *Builder {
	b.ops = append(b.ops, Instruction{Op: op, Operand: operand})
	return b
}

// Len returns the number of instructions appended so far. The index of the
// last appended instruction is Len()-1.
func (b *Builder) Len() int { return len(b.ops) }

// Path starts a new path segment on layer.
func (b *Builder) Path(layer int, wt WireType) *Builder {
	return b.emit(OpPath|byte(wt), layer)
}

// Short starts a shorted segment on layer.
func (b *Builder) Short(layer int, wt WireType) *Builder {
	return b.emit(OpShort|byte(wt), layer)
}

// Junction branches from the point decoded at stream index target.
func (b *Builder) Junction(target int, wt WireType) *Builder {
	return b.emit(OpJunction|byte(wt), target)
}

// Rule switches to a non-default rule.
func (b *Builder) Rule(id int, block bool) *Builder {
	op := OpRule
	if block {
		op |= FlagBlockRule
	}
	return b.emit(op, id)
}

// X records a new x coordinate.
func (b *Builder) X(x int) *Builder { return b.emit(OpX, x) }

// Y records a new y coordinate.
func (b *Builder) Y(y int) *Builder { return b.emit(OpY, y) }

// Colinear repeats the previous point with an optional extension.
func (b *Builder) Colinear(ext int, hasExt bool) *Builder {
	op := OpColinear
	if hasExt {
		op |= FlagExtension
	}
	return b.emit(op, ext)
}

// Via places block via id. exitTop selects the layer the wire continues on.
func (b *Builder) Via(id int, exitTop bool) *Builder {
	return b.emit(viaOp(OpVia, exitTop), id)
}

// TechVia places tech via id.
func (b *Builder) TechVia(id int, exitTop bool) *Builder {
	return b.emit(viaOp(OpTechVia, exitTop), id)
}

// ITerm connects to an instance terminal.
func (b *Builder) ITerm(id int) *Builder { return b.emit(OpITerm, id) }

// BTerm connects to a block terminal.
func (b *Builder) BTerm(id int) *Builder { return b.emit(OpBTerm, id) }

// Nop appends a placeholder.
func (b *Builder) Nop() *Builder { return b.emit(OpNop, 0) }

// Raw appends an arbitrary op byte.
func (b *Builder) Raw(op byte, operand int) *Builder { return b.emit(op, operand) }

// Stream returns a copy of the instructions appended so far.
func (b *Builder) Stream() Stream {
	return Stream{Ops: slices.Clone(b.ops)}
}

func viaOp(op byte, exitTop bool) byte {
	if exitTop {
		op |= FlagViaExitTop
	}
	return op
}
