package diagram

import (
	"github.com/matzehuels/provflow/pkg/flow"
)

// Diagram is the complete geometry of a flow diagram.
type Diagram struct {
	Width     float64  `json:"width" bson:"width"`
	Height    float64  `json:"height" bson:"height"`
	BandWidth float64  `json:"band_width" bson:"band_width"`
	Columns   []Column `json:"columns" bson:"columns"`
	Flows     []Flow   `json:"flows" bson:"flows"`

	// Crossings and Baseline total the per-step counts after and before
	// ordering.
	Crossings int `json:"crossings" bson:"crossings"`
	Baseline  int `json:"baseline" bson:"baseline"`
}

// Column is one time step.
type Column struct {
	Year      int     `json:"year" bson:"year"`
	X         float64 `json:"x" bson:"x"`
	Crossings int     `json:"crossings" bson:"crossings"`
	Baseline  int     `json:"baseline" bson:"baseline"`
	Bands     []Band  `json:"bands" bson:"bands"`
}

// Band is one category of a step, drawn as a box spanning its members.
type Band struct {
	Label    int      `json:"label" bson:"label"`
	Count    int      `json:"count" bson:"count"`
	Y        float64  `json:"y" bson:"y"`
	Height   float64  `json:"height" bson:"height"`
	Entities []string `json:"entities" bson:"entities"`
}

// Flow is the ribbon of one entity across the steps it appears in.
type Flow struct {
	Entity string  `json:"entity" bson:"entity"`
	Name   string  `json:"name" bson:"name"`
	Points []Point `json:"points" bson:"points"`
}

// Point is where a flow passes through a step.
type Point struct {
	Year   int     `json:"year" bson:"year"`
	Label  int     `json:"label" bson:"label"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Height float64 `json:"height" bson:"height"`

	// Values holds the entity's indicator columns for Year, shown by the
	// renderer's tooltip. Empty unless the diagram was annotated.
	Values map[string]float64 `json:"values,omitempty" bson:"values,omitempty"`
}

// XY is a polygon vertex.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Build lays out ordered steps. years[i] is the year of results[i]; both
// slices must have the same length and years must be ascending. names may be
// nil, in which case entity IDs double as names.
func Build(years []int, results []flow.Result, names flow.Namer, opts Options) Diagram {
	opts = opts.WithDefaults()
	if names == nil {
		names = flow.IDNamer
	}
	pad := *opts.Padding
	innerW := opts.Width - pad.Left - pad.Right
	innerH := opts.Height - pad.Top - pad.Bottom

	d := Diagram{Width: opts.Width, Height: opts.Height}
	if len(years) == 0 {
		return d
	}

	first, last := years[0], years[len(years)-1]
	scaleX := func(year int) float64 {
		if last == first {
			return 0
		}
		return float64(year-first) / float64(last-first) * innerW
	}
	yearSpan := innerW
	if last != first {
		yearSpan = innerW / float64(last-first)
	}
	d.BandWidth = yearSpan * opts.BandFraction

	flowIdx := make(map[string]int)
	d.Columns = make([]Column, len(years))
	for t, year := range years {
		res := results[t]
		x := pad.Left + scaleX(year)
		col := Column{
			Year:      year,
			X:         x,
			Crossings: res.Crossings,
			Baseline:  res.Baseline,
			Bands:     make([]Band, 0, len(res.Partition)),
		}
		d.Crossings += res.Crossings
		d.Baseline += res.Baseline

		n := res.Partition.Len()
		slot := 0.0
		if n > 0 {
			slot = innerH / float64(n)
		}

		i := 0
		for label, group := range res.Partition {
			if len(group) == 0 {
				continue
			}
			col.Bands = append(col.Bands, Band{
				Label:    label,
				Count:    len(group),
				Y:        pad.Top + (float64(i)-*opts.BandInset)*slot,
				Height:   float64(len(group)) * slot,
				Entities: append([]string(nil), group...),
			})
			for _, id := range group {
				fi, ok := flowIdx[id]
				if !ok {
					fi = len(d.Flows)
					flowIdx[id] = fi
					d.Flows = append(d.Flows, Flow{Entity: id, Name: names.Name(id)})
				}
				d.Flows[fi].Points = append(d.Flows[fi].Points, Point{
					Year:   year,
					Label:  label,
					X:      x,
					Y:      pad.Top + (float64(i)+*opts.RibbonOffset)*slot,
					Height: slot * opts.RibbonFraction,
				})
				i++
			}
		}
		d.Columns[t] = col
	}
	return d
}

// Annotate attaches indicator values to every flow point. values returns nil
// for points without data.
func (d *Diagram) Annotate(values func(year int, entity string) map[string]float64) {
	for fi := range d.Flows {
		f := &d.Flows[fi]
		for pi := range f.Points {
			f.Points[pi].Values = values(f.Points[pi].Year, f.Entity)
		}
	}
}

// Outline returns the closed polygon of the ribbon: along the top edge from
// the first step to the last, crossing every band, then back along the
// bottom edge. bandWidth is [Diagram.BandWidth].
func (f Flow) Outline(bandWidth float64) []XY {
	out := make([]XY, 0, 4*len(f.Points))
	for _, p := range f.Points {
		out = append(out, XY{p.X, p.Y}, XY{p.X + bandWidth, p.Y})
	}
	for i := len(f.Points) - 1; i >= 0; i-- {
		p := f.Points[i]
		out = append(out, XY{p.X + bandWidth, p.Y + p.Height}, XY{p.X, p.Y + p.Height})
	}
	return out
}

// Column returns the column for year, if present.
func (d Diagram) Column(year int) (Column, bool) {
	for _, c := range d.Columns {
		if c.Year == year {
			return c, true
		}
	}
	return Column{}, false
}
