// Package wire decodes the compact wire-topology encoding used for stored
// routes.
//
// # Overview
//
// A routed wire is stored as an append-only sequence of instructions. Each
// instruction carries one op byte (a 5-bit opcode plus three flag bits) and a
// single integer operand. Coordinates are written only when they change, so
// the stream holds no explicit point list: the current (x, y) at any position
// has to be reconstructed by walking backward until the most recent X and Y
// instructions are found.
//
// # Decoding
//
// [PrevPoint] performs that walk. The first X and the first Y found going
// backward win. When a layer is requested, the first PATH or SHORT operand, or
// the top or bottom layer of the first VIA or TECH_VIA (selected by the
// exit-top flag), supplies it. A JUNCTION redirects the walk to the stream
// position named by its operand, which models a branch that starts at a point
// shared with an earlier trunk:
//
//	var b wire.Builder
//	b.Path(1, wire.Routed).X(0).Y(0).X(500)
//	trunk := b.Len() - 1
//	b.Junction(trunk, wire.Routed).Y(300)
//
//	p, err := wire.PrevPoint(b.Stream(), b.Len()-1, wire.FieldXY|wire.FieldLayer, nil)
//	// p.X == 500, p.Y == 300, p.Layer == 1
//
// # Flags
//
// Flag bits are interpreted per opcode. Bit 0x80 means "exited through the top
// layer" on vias, "has an extension operand" on X, Y and COLINEAR, and "block
// rule" on RULE. The decoder always masks the opcode with [OpcodeMask] first
// and only then looks at flags.
//
// # Errors
//
// Walking below index zero, a JUNCTION that does not point strictly backward,
// an unknown via id and a start index outside the stream are reported as
// [errors.ErrCodeInvalidStream] errors. They indicate a truncated or malformed
// stream; no partial point is returned.
//
// # Concurrency
//
// A [Stream] is never modified by decoding. Any number of goroutines may call
// [PrevPoint] on the same stream.
//
// [errors.ErrCodeInvalidStream]: github.com/matzehuels/dplace/pkg/errors
package wire
