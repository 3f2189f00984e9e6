package geom

import (
	"fmt"
	"strings"
)

// Orient is a cell orientation in the LEF/DEF convention.
type Orient uint8

const (
	R0    Orient = iota // N
	R90                 // W
	R180                // S
	R270                // E
	MY                  // FN: mirrored about the Y axis
	MYR90               // FE
	MX                  // FS: mirrored about the X axis
	MXR90               // FW
)

var orientNames = [...]string{"R0", "R90", "R180", "R270", "MY", "MYR90", "MX", "MXR90"}

var orientAliases = map[string]Orient{
	"N": R0, "W": R90, "S": R180, "E": R270,
	"FN": MY, "FE": MYR90, "FS": MX, "FW": MXR90,
}

// String returns the odb name of o.
func (o Orient) String() string {
	if int(o) < len(orientNames) {
		return orientNames[o]
	}
	return fmt.Sprintf("Orient(%d)", uint8(o))
}

// ParseOrient accepts odb names (R0, MX, ...) and DEF names (N, FS, ...).
// The empty string parses as R0.
func ParseOrient(s string) (Orient, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return R0, nil
	}
	for i, name := range orientNames {
		if name == s {
			return Orient(i), nil
		}
	}
	if o, ok := orientAliases[s]; ok {
		return o, nil
	}
	return R0, fmt.Errorf("unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orient) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orient) UnmarshalText(b []byte) error {
	v, err := ParseOrient(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Rotated reports whether o swaps width and height.
func (o Orient) Rotated() bool {
	return o == R90 || o == R270 || o == MYR90 || o == MXR90
}

// FlipsLeftRight reports whether the left and right sides of a cell are exchanged.
func (o Orient) FlipsLeftRight() bool { return o == MY || o == R180 }

// FlipsTopBottom reports whether the top and bottom sides of a cell are exchanged.
func (o Orient) FlipsTopBottom() bool { return o == MX || o == R180 }

// FlipTopBottom returns o mirrored about the horizontal axis (R0 <-> MX,
// MY <-> R180). Rotated orientations are returned unchanged.
func (o Orient) FlipTopBottom() Orient {
	switch o {
	case R0:
		return MX
	case MX:
		return R0
	case MY:
		return R180
	case R180:
		return MY
	}
	return o
}

// FlipLeftRight returns o mirrored about the vertical axis (R0 <-> MY,
// MX <-> R180). Rotated orientations are returned unchanged.
func (o Orient) FlipLeftRight() Orient {
	switch o {
	case R0:
		return MY
	case MY:
		return R0
	case MX:
		return R180
	case R180:
		return MX
	}
	return o
}

// TransformOffset maps an offset measured from the center of an R0 cell to the
// offset from the center of the same cell placed with orientation o.
func (o Orient) TransformOffset(dx, dy int) (int, int) {
	switch o {
	case R90:
		return -dy, dx
	case R180:
		return -dx, -dy
	case R270:
		return dy, -dx
	case MY:
		return -dx, dy
	case MYR90:
		return -dy, -dx
	case MX:
		return dx, -dy
	case MXR90:
		return dy, dx
	}
	return dx, dy
}
