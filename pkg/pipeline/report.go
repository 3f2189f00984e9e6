package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/tabulate"

	"github.com/matzehuels/dplace/pkg/importer"
)

// Report summarizes a run for people and logs.
type Report struct {
	RunID  string `json:"run_id"`
	Design string `json:"design"`
	DBU    int    `json:"dbu"`

	Cells       int `json:"cells"`
	Terminals   int `json:"terminals"`
	Edges       int `json:"edges"`
	Pins        int `json:"pins"`
	Blockages   int `json:"blockages"`
	Regions     int `json:"regions"`
	SkippedRows int `json:"skipped_rows"`

	HPWLBefore   int64 `json:"hpwl_before"`
	HPWLAfter    int64 `json:"hpwl_after"`
	Displacement int64 `json:"displacement"`
	Changed      int   `json:"changed"`
	Warnings     int   `json:"warnings"`

	CacheHit bool          `json:"-"`
	Duration time.Duration `json:"-"`
}

func (r *Report) fillImport(imp *importer.Result) {
	st := imp.Network.Stats()
	r.Cells, r.Terminals = st.Cells, st.Terminals
	r.Edges, r.Pins, r.Blockages = st.Edges, st.Pins, st.Blockages
	r.Regions = len(imp.Arch.Regions)
	for _, sr := range imp.SkippedRows {
		r.SkippedRows += len(sr.Rows)
	}
}

// Microns converts a length in database units to microns.
func (r *Report) Microns(v int64) float64 {
	if r.DBU <= 0 {
		return float64(v)
	}
	return float64(v) / float64(r.DBU)
}

// Delta is the HPWL change in percent, negative when wirelength dropped.
func (r *Report) Delta() float64 {
	if r.HPWLBefore == 0 {
		return 0
	}
	return float64(r.HPWLAfter-r.HPWLBefore) / float64(r.HPWLBefore) * 100
}

// Print writes the report as a table.
func (r *Report) Print(w io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Item").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	add := func(k string, v any) {
		row := tab.Row()
		row.Column(k)
		row.Column(fmt.Sprint(v))
	}
	add("Design", r.Design)
	add("Run", r.RunID)
	add("Cells", r.Cells)
	add("Terminals", r.Terminals)
	add("Edges", r.Edges)
	add("Pins", r.Pins)
	add("Blockages", r.Blockages)
	add("Regions", r.Regions)
	if r.SkippedRows > 0 {
		add("Skipped rows", r.SkippedRows)
	}
	add("HPWL before (um)", fmt.Sprintf("%.1f", r.Microns(r.HPWLBefore)))
	add("HPWL after (um)", fmt.Sprintf("%.1f", r.Microns(r.HPWLAfter)))
	add("Delta", fmt.Sprintf("%.2f%%", r.Delta()))
	add("Displacement (um)", fmt.Sprintf("%.1f", r.Microns(r.Displacement)))
	add("Changed", r.Changed)
	if r.Warnings > 0 {
		add("Warnings", r.Warnings)
	}
	if r.CacheHit {
		add("Cache", "hit")
	}
	if r.Duration > 0 {
		add("Time", r.Duration.Round(time.Millisecond))
	}

	row := tab.Row()
	row.Column("Result").SetFormat(tabulate.FmtBold)
	row.Column(r.verdict()).SetFormat(tabulate.FmtBold)
	tab.Print(w)
}

func (r *Report) verdict() string {
	switch {
	case r.HPWLBefore == 0:
		return "skipped"
	case r.HPWLAfter < r.HPWLBefore:
		return "improved"
	case r.HPWLAfter == r.HPWLBefore:
		return "unchanged"
	}
	return "worse"
}
