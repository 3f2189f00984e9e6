package wire

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestFromArrays(t *testing.T) {
	s, err := FromArrays([]byte{OpPath | byte(Routed), OpX, OpY}, []int{2, 100, 200})
	if err != nil {
		t.Fatalf("FromArrays() error = %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if got := s.Ops[0].WireType(); got != Routed {
		t.Errorf("WireType() = %v, want %v", got, Routed)
	}

	if _, err := FromArrays([]byte{OpX}, nil); err == nil {
		t.Error("FromArrays() with mismatched lengths should fail")
	}
}

func TestValidate(t *testing.T) {
	var b Builder
	b.Path(1, Routed).X(0).Y(0).Junction(1, Routed)
	if err := b.Stream().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	bad := Stream{Ops: []Instruction{{OpX, 0}, {OpJunction, 5}}}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should reject a junction pointing forward")
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{Instruction{OpVia | FlagViaExitTop, 3}, "VIA 3 top"},
		{Instruction{OpX | FlagExtension, 10}, "X 10 ext"},
		{Instruction{OpRule | FlagBlockRule, 1}, "RULE 1 block"},
		{Instruction{OpPath | byte(Routed), 2}, "PATH 2 ROUTED"},
		{Instruction{OpNop, 0}, "NOP 0"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	var b Builder
	b.Path(1, Routed).X(5).Y(6).Via(0, true)
	doc := NewDocument(b.Stream(), testVias)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		t.Fatal(err)
	}
	got, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	s, err := got.Stream()
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	p, err := PrevPoint(s, 3, FieldAll, got.Vias)
	if err != nil {
		t.Fatalf("PrevPoint() error = %v", err)
	}
	if p.X != 5 || p.Y != 6 || p.Layer != 2 {
		t.Errorf("PrevPoint() = %+v, want (5, 6, layer 2)", p)
	}
}
