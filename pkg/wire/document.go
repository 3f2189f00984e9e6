package wire

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the JSON form of a stored wire: the two parallel arrays plus the
// vias they reference.
type Document struct {
	Opcodes []int `json:"opcodes"`
	Data    []int `json:"data"`
	Vias    Vias  `json:"vias"`
}

// ReadDocument decodes a Document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode wire document: %w", err)
	}
	return &doc, nil
}

// Stream converts the document's arrays to a Stream.
func (d *Document) Stream() (Stream, error) {
	opcodes := make([]byte, len(d.Opcodes))
	for i, op := range d.Opcodes {
		if op < 0 || op > 0xFF {
			return Stream{}, fmt.Errorf("opcode %d at index %d does not fit in a byte", op, i)
		}
		opcodes[i] = byte(op)
	}
	return FromArrays(opcodes, d.Data)
}

// NewDocument returns the document form of s.
func NewDocument(s Stream, vias Vias) *Document {
	opcodes, data := s.Arrays()
	ops := make([]int, len(opcodes))
	for i, op := range opcodes {
		ops[i] = int(op)
	}
	return &Document{Opcodes: ops, Data: data, Vias: vias}
}
