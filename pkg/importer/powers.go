package importer

import (
	"math"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/network"
)

// setupMasterPowers decides which supply sits on top and bottom of every
// master by comparing the y centers of its POWER and GROUND pins, and records
// the layers those pins use for later rail matching. A master lacking either
// supply keeps unknown powers.
func (b *builder) setupMasterPowers() {
	for i := range b.d.Masters {
		m := &b.d.Masters[i]
		maxPwr, minPwr := math.MinInt, math.MaxInt
		maxGnd, minGnd := math.MinInt, math.MaxInt
		var isVdd, isGnd bool

		for t := range m.Terms {
			term := &m.Terms[t]
			var layers map[string]bool
			switch term.SigType {
			case design.SigPower:
				isVdd = true
				layers = b.pwrLayers
			case design.SigGround:
				isGnd = true
				layers = b.gndLayers
			default:
				continue
			}
			for p := range term.Pins {
				pin := &term.Pins[p]
				y := pin.BBox().Center().Y
				if term.SigType == design.SigPower {
					minPwr, maxPwr = min(minPwr, y), max(maxPwr, y)
				} else {
					minGnd, maxGnd = min(minGnd, y), max(maxGnd, y)
				}
				for _, box := range pin.Boxes {
					layers[box.Layer] = true
				}
			}
		}

		pp := powerPair{network.PowerUnknown, network.PowerUnknown}
		if isVdd && isGnd {
			pp.top = network.VSS
			if maxPwr > maxGnd {
				pp.top = network.VDD
			}
			pp.bottom = network.VSS
			if minPwr < minGnd {
				pp.bottom = network.VDD
			}
		}
		b.masterPwrs[m.Name] = pp
	}
}
