package design

import (
	"strings"

	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/geom"
)

// Placement is the write-back of an improvement run: the instances whose
// location or orientation changed.
type Placement struct {
	Instances []PlacedInstance `json:"instances"`
}

// PlacedInstance is the final location and orientation of one instance.
type PlacedInstance struct {
	Name   string      `json:"name"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Orient geom.Orient `json:"orient"`
}

// Apply writes p into d and returns how many instances changed. Entries equal
// to the current state are skipped. Unknown instance names are an error and
// leave d untouched.
func (d *Design) Apply(p *Placement) (int, error) {
	if p == nil {
		return 0, nil
	}
	x := NewIndex(d)
	for _, pi := range p.Instances {
		if x.Instance(pi.Name) == nil {
			return 0, errors.New(errors.ErrCodeNotFound, 0, "placement references unknown instance %s", pi.Name)
		}
	}

	changed := 0
	for _, pi := range p.Instances {
		inst := x.Instance(pi.Name)
		if inst.X == pi.X && inst.Y == pi.Y && inst.Orient == pi.Orient {
			continue
		}
		inst.X, inst.Y, inst.Orient = pi.X, pi.Y, pi.Orient
		changed++
	}
	return changed, nil
}

// HasOneSiteMaster reports whether any core master is exactly one site wide.
// When none is, a one-site gap between cells can never be filled.
func (d *Design) HasOneSiteMaster() bool {
	x := NewIndex(d)
	for i := range d.Masters {
		m := &d.Masters[i]
		if !IsCoreClass(m.Class) {
			continue
		}
		if s := x.MasterSite(m); s != nil && s.Width == m.Width {
			return true
		}
	}
	return false
}

// IsCoreClass reports whether class is one of the CORE master classes.
func IsCoreClass(class string) bool {
	return strings.HasPrefix(class, ClassCore)
}
