package importer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/dplace/pkg/arch"
	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/network"
)

// createArchitecture converts the design rows into legalization rows. Pad
// rows and vertical rows are ignored; rows taller than the single-row height
// are reported and left out.
func (b *builder) createArchitecture() error {
	b.arch = arch.New()
	b.arch.Spacing = b.spacing

	// height -> site name -> row names
	tall := make(map[int]map[string][]string)

	for i := range b.d.Rows {
		r := &b.d.Rows[i]
		site := b.x.Site(r.Site)
		if site == nil || site.Class == design.SitePad {
			continue
		}
		if !r.Horizontal() {
			b.warn.Add(111, "Skipping row %s since it is not horizontal.", r.Name)
			continue
		}
		if site.Height > b.minRowHeight {
			bySite := tall[site.Height]
			if bySite == nil {
				bySite = make(map[string][]string)
				tall[site.Height] = bySite
			}
			bySite[site.Name] = append(bySite[site.Name], r.Name)
			continue
		}

		spacing := r.Spacing
		if spacing <= 0 {
			spacing = site.Width
		}
		var sym arch.Symmetry
		if site.SymmetryX {
			sym |= arch.SymmetryX
		}
		if site.SymmetryY {
			sym |= arch.SymmetryY
		}
		if site.SymmetryR90 {
			sym |= arch.SymmetryR90
		}
		b.arch.AddRow(arch.Row{
			SubRowOrigin: r.X - b.core.XMin,
			Bottom:       r.Y - b.core.YMin,
			SiteWidth:    site.Width,
			SiteSpacing:  spacing,
			NumSites:     r.Count,
			Height:       site.Height,
			Orient:       r.Orient,
			Symmetry:     sym,
		})
	}

	for _, h := range slices.Sorted(maps.Keys(tall)) {
		bySite := tall[h]
		sites := slices.Sorted(maps.Keys(bySite))
		sk := SkippedRows{Height: h, Sites: sites}
		for _, s := range sites {
			sk.Rows = append(sk.Rows, bySite[s]...)
		}
		b.skipped = append(b.skipped, sk)
		b.warn.Add(108,
			"Skipping all the rows with sites [%s] as their height is %s and the single-height is %s.",
			strings.Join(sites, ","), b.microns(h), b.microns(b.minRowHeight))
	}

	if len(b.arch.Rows) == 0 {
		return errors.New(errors.ErrCodeInvalidDesign, 112, "no single-height horizontal rows in design %s", b.d.Name)
	}

	b.arch.ComputeBounds()
	b.arch.ClipRows()
	b.setRowPowers()
	b.arch.SortRows()
	return nil
}

// setRowPowers stamps each row with the supply of the rails on its bottom
// and top edges. Rails are horizontal routed special-wire shapes on a layer
// used by a master supply pin of the same kind.
func (b *builder) setRowPowers() {
	for i := range b.d.Nets {
		net := &b.d.Nets[i]
		if !net.Special || !net.Supply() {
			continue
		}
		pwr, layers := network.VDD, b.pwrLayers
		if net.SigType == design.SigGround {
			pwr, layers = network.VSS, b.gndLayers
		}
		for _, sw := range net.SWires {
			if sw.WireType != design.WireRouted {
				continue
			}
			for _, box := range sw.Boxes {
				if box.Via || !box.Horizontal() || !layers[box.Layer] {
					continue
				}
				rail := box.Rect.Translate(-b.core.XMin, -b.core.YMin)
				for _, row := range b.arch.Rows {
					if row.Bottom >= rail.YMin && row.Bottom <= rail.YMax {
						row.BottomPower = pwr
					}
					if row.Top() >= rail.YMin && row.Top() <= rail.YMax {
						row.TopPower = pwr
					}
				}
			}
		}
	}
}

// microns formats a length for messages.
func (b *builder) microns(v int) string {
	if b.d.DBU <= 0 {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%.3f", float64(v)/float64(b.d.DBU))
}
