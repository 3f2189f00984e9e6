package arch

// SpacingTable is the symmetric cell edge-spacing table. Edge types are
// referenced by dense index.
type SpacingTable struct {
	names   []string
	index   map[string]int
	spacing map[[2]int]int
	maxSp   int
}

// NewSpacingTable returns an empty table.
func NewSpacingTable() *SpacingTable {
	return &SpacingTable{index: make(map[string]int), spacing: make(map[[2]int]int)}
}

func (t *SpacingTable) intern(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	i := len(t.names)
	t.names = append(t.names, name)
	t.index[name] = i
	return i
}

// Add records the spacing between two edge types. A later entry for the same
// pair replaces the earlier one.
func (t *SpacingTable) Add(type1, type2 string, spacing int) {
	i, j := t.intern(type1), t.intern(type2)
	t.spacing[pairKey(i, j)] = spacing
	t.maxSp = max(t.maxSp, spacing)
}

// Index returns the dense index of an edge type, or -1 when the table does not
// mention it.
func (t *SpacingTable) Index(name string) int {
	if t == nil {
		return -1
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Name returns the edge type name at index i.
func (t *SpacingTable) Name(i int) string { return t.names[i] }

// Len returns the number of edge types.
func (t *SpacingTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Spacing returns the required spacing between edge types i and j, zero when
// the pair has no entry.
func (t *SpacingTable) Spacing(i, j int) int {
	if t == nil || i < 0 || j < 0 {
		return 0
	}
	return t.spacing[pairKey(i, j)]
}

// Max returns the largest spacing in the table.
func (t *SpacingTable) Max() int {
	if t == nil {
		return 0
	}
	return t.maxSp
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}
