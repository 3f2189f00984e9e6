package design

import (
	"github.com/matzehuels/dplace/pkg/errors"
)

// Validate checks referential integrity: unique names, known masters, sites,
// instances, terminals and nets. It does not check placement legality.
func (d *Design) Validate() error {
	if d.DBU <= 0 {
		return errors.New(errors.ErrCodeInvalidDesign, 0, "dbu_per_micron must be positive, got %d", d.DBU)
	}
	if err := unique("site", len(d.Sites), func(i int) string { return d.Sites[i].Name }); err != nil {
		return err
	}
	if err := unique("master", len(d.Masters), func(i int) string { return d.Masters[i].Name }); err != nil {
		return err
	}
	if err := unique("instance", len(d.Instances), func(i int) string { return d.Instances[i].Name }); err != nil {
		return err
	}
	if err := unique("net", len(d.Nets), func(i int) string { return d.Nets[i].Name }); err != nil {
		return err
	}
	if err := unique("bterm", len(d.BTerms), func(i int) string { return d.BTerms[i].Name }); err != nil {
		return err
	}

	x := NewIndex(d)
	for i := range d.Masters {
		m := &d.Masters[i]
		if m.Width <= 0 || m.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "master %s has non-positive size %dx%d", m.Name, m.Width, m.Height)
		}
		if m.Site != "" && x.Site(m.Site) == nil {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "master %s references unknown site %s", m.Name, m.Site)
		}
	}
	for i := range d.Instances {
		inst := &d.Instances[i]
		if x.Master(inst.Master) == nil {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "instance %s references unknown master %s", inst.Name, inst.Master)
		}
	}
	for i := range d.Nets {
		n := &d.Nets[i]
		for _, it := range n.ITerms {
			inst := x.Instance(it.Inst)
			if inst == nil {
				return errors.New(errors.ErrCodeInvalidDesign, 0, "net %s references unknown instance %s", n.Name, it.Inst)
			}
			if x.Master(inst.Master).Term(it.Term) == nil {
				return errors.New(errors.ErrCodeInvalidDesign, 0, "net %s references unknown terminal %s/%s", n.Name, it.Inst, it.Term)
			}
		}
		for _, bt := range n.BTerms {
			if x.BTerm(bt) == nil {
				return errors.New(errors.ErrCodeInvalidDesign, 0, "net %s references unknown bterm %s", n.Name, bt)
			}
		}
	}
	for i := range d.BTerms {
		bt := &d.BTerms[i]
		if bt.Net != "" && x.Net(bt.Net) == nil {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "bterm %s references unknown net %s", bt.Name, bt.Net)
		}
	}
	for i := range d.Rows {
		r := &d.Rows[i]
		if x.Site(r.Site) == nil {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "row %s references unknown site %s", r.Name, r.Site)
		}
		if r.Count < 0 || r.Spacing <= 0 {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "row %s has count %d and spacing %d", r.Name, r.Count, r.Spacing)
		}
	}
	return nil
}

func unique(kind string, n int, name func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s := name(i)
		if err := errors.ValidateName(kind, s); err != nil {
			return err
		}
		if _, dup := seen[s]; dup {
			return errors.New(errors.ErrCodeInvalidDesign, 0, "duplicate %s name %q", kind, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}
