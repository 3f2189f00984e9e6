package wire

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/matzehuels/dplace/pkg/errors"
)

var testVias = Vias{
	Block: map[int]Via{0: {Bottom: 1, Top: 2}, 1: {Bottom: 2, Top: 3}},
	Tech:  map[int]Via{0: {Bottom: 3, Top: 4}, 7: {Bottom: 4, Top: 5}},
}

var fieldMasks = []Field{FieldX, FieldY, FieldXY, FieldAll, FieldLayer}

// oracleState is the running point replayed forward from the start.
type oracleState struct {
	x, y, layer int
	known       Field
}

// forwardOracle replays s from index 0 and records the state after each
// instruction. A JUNCTION takes over the state recorded at its target.
func forwardOracle(t *testing.T, s Stream, vias Vias) []oracleState {
	t.Helper()
	states := make([]oracleState, len(s.Ops))
	var cur oracleState
	for i, in := range s.Ops {
		switch in.Opcode() {
		case OpPath, OpShort:
			cur.layer = in.Operand
			cur.known |= FieldLayer
		case OpX:
			cur.x = in.Operand
			cur.known |= FieldX
		case OpY:
			cur.y = in.Operand
			cur.known |= FieldY
		case OpVia, OpTechVia:
			var via Via
			var ok bool
			if in.Opcode() == OpVia {
				via, ok = vias.BlockVia(in.Operand)
			} else {
				via, ok = vias.TechVia(in.Operand)
			}
			if !ok {
				t.Fatalf("generator produced unknown via %v", in)
			}
			if in.ExitTop() {
				cur.layer = via.Top
			} else {
				cur.layer = via.Bottom
			}
			cur.known |= FieldLayer
		case OpJunction:
			cur = states[in.Operand]
		}
		states[i] = cur
	}
	return states
}

// randomStream builds a valid stream mixing every opcode and flag bit.
func randomStream(rng *rand.Rand, n int) Stream {
	var b Builder
	wireTypes := []WireType{WireNone, Cover, Fixed, Routed, NoShield}
	for b.Len() < n {
		switch k := rng.IntN(14); {
		case k < 3:
			b.X(rng.IntN(10000))
		case k < 6:
			b.Y(rng.IntN(10000))
		case k == 6:
			b.Path(1+rng.IntN(6), wireTypes[rng.IntN(len(wireTypes))])
		case k == 7:
			b.Short(1+rng.IntN(6), wireTypes[rng.IntN(len(wireTypes))])
		case k == 8:
			b.Via(rng.IntN(2), rng.IntN(2) == 0)
		case k == 9:
			b.TechVia([]int{0, 7}[rng.IntN(2)], rng.IntN(2) == 0)
		case k == 10:
			if b.Len() > 0 {
				b.Junction(rng.IntN(b.Len()), Routed)
			}
		case k == 11:
			b.Rule(rng.IntN(4), rng.IntN(2) == 0)
		case k == 12:
			b.Colinear(rng.IntN(50), rng.IntN(2) == 0)
		default:
			switch rng.IntN(4) {
			case 0:
				b.Nop()
			case 1:
				b.ITerm(rng.IntN(100))
			case 2:
				b.BTerm(rng.IntN(100))
			default:
				b.Raw(OpProperty, rng.IntN(100))
			}
		}
	}
	return b.Stream()
}

func TestPrevPointMatchesForwardOracle(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))

	for iter := 0; iter < 200; iter++ {
		s := randomStream(rng, 1+rng.IntN(60))
		if err := s.Validate(); err != nil {
			t.Fatalf("generated stream invalid: %v", err)
		}
		states := forwardOracle(t, s, testVias)

		for i := range s.Ops {
			for _, want := range fieldMasks {
				got, err := PrevPoint(s, i, want, testVias)
				st := states[i]
				if want&^st.known != 0 {
					if errors.GetNum(err) != 201 {
						t.Fatalf("iter %d idx %d %v: err = %v, want walk-off error", iter, i, want, err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("iter %d idx %d %v: unexpected error %v", iter, i, want, err)
				}
				exp := Point{Fields: want}
				if want&FieldX != 0 {
					exp.X = st.x
				}
				if want&FieldY != 0 {
					exp.Y = st.y
				}
				if want&FieldLayer != 0 {
					exp.Layer = st.layer
				}
				if got != exp {
					t.Fatalf("iter %d idx %d %v: PrevPoint() = %+v, want %+v", iter, i, want, got, exp)
				}
			}
		}
	}
}

func TestPrevPointJunctionTransparent(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9^0xdeadbeef))

	checked := 0
	for iter := 0; iter < 200; iter++ {
		s := randomStream(rng, 40)
		for i, in := range s.Ops {
			if in.Opcode() != OpJunction {
				continue
			}
			for _, want := range fieldMasks {
				a, errA := PrevPoint(s, i, want, testVias)
				b, errB := PrevPoint(s, in.Operand, want, testVias)
				if (errA == nil) != (errB == nil) || a != b {
					t.Fatalf("junction %d -> %d %v: got (%+v, %v), target gives (%+v, %v)",
						i, in.Operand, want, a, errA, b, errB)
				}
				checked++
			}
		}
	}
	if checked == 0 {
		t.Fatal("no junctions generated")
	}
}

func TestPrevPointFlagDispatch(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  Point
	}{
		{
			name: "via exit top",
			build: func(b *Builder) {
				b.Path(1, Routed).X(10).Y(20).Via(0, true)
			},
			want: Point{X: 10, Y: 20, Layer: 2, Fields: FieldAll},
		},
		{
			name: "via exit bottom",
			build: func(b *Builder) {
				b.Path(5, Routed).X(10).Y(20).TechVia(7, false)
			},
			want: Point{X: 10, Y: 20, Layer: 4, Fields: FieldAll},
		},
		{
			name: "extension bit on X is not an exit flag",
			build: func(b *Builder) {
				b.Path(3, Fixed).Y(7).Raw(OpX|FlagExtension, 99)
			},
			want: Point{X: 99, Y: 7, Layer: 3, Fields: FieldAll},
		},
		{
			name: "block rule skipped",
			build: func(b *Builder) {
				b.Path(2, NoShield).X(1).Y(2).Rule(3, true)
			},
			want: Point{X: 1, Y: 2, Layer: 2, Fields: FieldAll},
		},
		{
			name: "wire type bits on path",
			build: func(b *Builder) {
				b.X(4).Y(5).Path(6, NoShield)
			},
			want: Point{X: 4, Y: 5, Layer: 6, Fields: FieldAll},
		},
		{
			name: "latest coordinate wins",
			build: func(b *Builder) {
				b.Path(1, Routed).X(1).Y(2).X(3).Nop().Y(4)
			},
			want: Point{X: 3, Y: 4, Layer: 1, Fields: FieldAll},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Builder
			tt.build(&b)
			got, err := PrevPoint(b.Stream(), b.Len()-1, FieldAll, testVias)
			if err != nil {
				t.Fatalf("PrevPoint() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PrevPoint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPrevPointErrors(t *testing.T) {
	tests := []struct {
		name string
		ops  []Instruction
		idx  int
		want Field
		num  int
	}{
		{"negative start", []Instruction{{OpX, 1}}, -1, FieldX, 204},
		{"start past end", []Instruction{{OpX, 1}}, 1, FieldX, 204},
		{"walk off start", []Instruction{{OpX, 1}, {OpNop, 0}}, 1, FieldXY, 201},
		{"forward junction", []Instruction{{OpX, 1}, {OpJunction, 1}}, 1, FieldX, 202},
		{"negative junction", []Instruction{{OpX, 1}, {OpJunction, -3}}, 1, FieldX, 201},
		{"unknown via", []Instruction{{OpX, 1}, {OpY, 1}, {OpVia, 42}}, 2, FieldAll, 203},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PrevPoint(Stream{Ops: tt.ops}, tt.idx, tt.want, testVias)
			if err == nil {
				t.Fatalf("PrevPoint() = %+v, want error", p)
			}
			if !errors.Is(err, errors.ErrCodeInvalidStream) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidStream)
			}
			if got := errors.GetNum(err); got != tt.num {
				t.Errorf("num = %d, want %d (%v)", got, tt.num, err)
			}
			if p != (Point{}) {
				t.Errorf("partial point returned: %+v", p)
			}
		})
	}
}

func TestPrevPointNilViasWithoutLayer(t *testing.T) {
	var b Builder
	b.X(1).Y(2).Via(0, true)
	got, err := PrevPoint(b.Stream(), 2, FieldXY, nil)
	if err != nil {
		t.Fatalf("PrevPoint() error = %v", err)
	}
	if got.X != 1 || got.Y != 2 {
		t.Errorf("PrevPoint() = %+v, want (1, 2)", got)
	}
}

func TestPrevPointConcurrent(t *testing.T) {
	s := randomStream(rand.New(rand.NewPCG(3, 3^0xdeadbeef)), 500)
	want := make([]Point, s.Len())
	for i := range want {
		want[i], _ = PrevPoint(s, i, FieldAll, testVias)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range want {
				if got, _ := PrevPoint(s, i, FieldAll, testVias); got != want[i] {
					t.Errorf("idx %d: concurrent PrevPoint() = %+v, want %+v", i, got, want[i])
					return
				}
			}
		}()
	}
	wg.Wait()
}
