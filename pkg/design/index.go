package design

// Index resolves names to design objects. It holds pointers into the design's
// slices; rebuild it after appending to them.
type Index struct {
	d       *Design
	sites   map[string]int
	masters map[string]int
	insts   map[string]int
	nets    map[string]int
	bterms  map[string]int
}

// NewIndex builds name lookups for d. Where names repeat, the first object
// wins; [Design.Validate] reports duplicates.
func NewIndex(d *Design) *Index {
	x := &Index{
		d:       d,
		sites:   make(map[string]int, len(d.Sites)),
		masters: make(map[string]int, len(d.Masters)),
		insts:   make(map[string]int, len(d.Instances)),
		nets:    make(map[string]int, len(d.Nets)),
		bterms:  make(map[string]int, len(d.BTerms)),
	}
	for i := range d.Sites {
		addFirst(x.sites, d.Sites[i].Name, i)
	}
	for i := range d.Masters {
		addFirst(x.masters, d.Masters[i].Name, i)
	}
	for i := range d.Instances {
		addFirst(x.insts, d.Instances[i].Name, i)
	}
	for i := range d.Nets {
		addFirst(x.nets, d.Nets[i].Name, i)
	}
	for i := range d.BTerms {
		addFirst(x.bterms, d.BTerms[i].Name, i)
	}
	return x
}

func addFirst(m map[string]int, name string, i int) {
	if _, ok := m[name]; !ok {
		m[name] = i
	}
}

// Design returns the indexed design.
func (x *Index) Design() *Design { return x.d }

// Site returns the site named name, or nil.
func (x *Index) Site(name string) *Site {
	if i, ok := x.sites[name]; ok {
		return &x.d.Sites[i]
	}
	return nil
}

// Master returns the master named name, or nil.
func (x *Index) Master(name string) *Master {
	if i, ok := x.masters[name]; ok {
		return &x.d.Masters[i]
	}
	return nil
}

// Instance returns the instance named name, or nil.
func (x *Index) Instance(name string) *Instance {
	if i, ok := x.insts[name]; ok {
		return &x.d.Instances[i]
	}
	return nil
}

// InstanceIndex returns the slice position of the named instance.
func (x *Index) InstanceIndex(name string) (int, bool) {
	i, ok := x.insts[name]
	return i, ok
}

// Net returns the net named name, or nil.
func (x *Index) Net(name string) *Net {
	if i, ok := x.nets[name]; ok {
		return &x.d.Nets[i]
	}
	return nil
}

// BTerm returns the block terminal named name, or nil.
func (x *Index) BTerm(name string) *BTerm {
	if i, ok := x.bterms[name]; ok {
		return &x.d.BTerms[i]
	}
	return nil
}

// BTermIndex returns the slice position of the named block terminal.
func (x *Index) BTermIndex(name string) (int, bool) {
	i, ok := x.bterms[name]
	return i, ok
}

// MasterSite returns the site a master is built on: its own site when named,
// otherwise the first CORE site of the design.
func (x *Index) MasterSite(m *Master) *Site {
	if m.Site != "" {
		if s := x.Site(m.Site); s != nil {
			return s
		}
	}
	for i := range x.d.Sites {
		if x.d.Sites[i].Class != SitePad {
			return &x.d.Sites[i]
		}
	}
	return nil
}
