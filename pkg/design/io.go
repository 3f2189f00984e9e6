package design

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a design snapshot from r and validates it.
//
// ReadJSON does not close r. The returned design is independent of r.
func ReadJSON(r io.Reader) (*Design, error) {
	var d Design
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportJSON reads and validates the design snapshot at path.
func ImportJSON(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(d *Design, w io.Writer) error {
	return encode(d, w)
}

// ExportJSON writes d to a JSON file at path.
func ExportJSON(d *Design, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// WritePlacement encodes p as indented JSON.
func WritePlacement(p *Placement, w io.Writer) error {
	return encode(p, w)
}

// ReadPlacement decodes a placement from r.
func ReadPlacement(r io.Reader) (*Placement, error) {
	var p Placement
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode placement: %w", err)
	}
	return &p, nil
}

// Bytes returns the canonical JSON encoding of d, used for content hashing.
func (d *Design) Bytes() ([]byte, error) {
	return json.Marshal(d)
}

// Clone returns a deep copy of d.
func (d *Design) Clone() *Design {
	data, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("design: clone: %v", err))
	}
	var c Design
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
		panic(fmt.Sprintf("design: clone: %v", err))
	}
	return &c
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
