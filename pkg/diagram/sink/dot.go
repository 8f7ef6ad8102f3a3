package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/provflow/pkg/diagram"
)

// DOTOptions configures band-graph export.
type DOTOptions struct {
	// Members lists the entity names inside each band node.
	Members bool
}

// BandID is the DOT node ID of label in year.
func BandID(year, label int) string {
	return fmt.Sprintf("%d:%d", year, label)
}

type edgeKey struct {
	from, to string
}

// ToDOT converts a diagram into a left-to-right Graphviz band graph. Bands of
// one year share a rank; edges carry the number of entities moving between
// two bands of consecutive steps, drawn in column order.
func ToDOT(d diagram.Diagram, opts DOTOptions) string {
	names := make(map[string]string, len(d.Flows))
	for _, f := range d.Flows {
		names[f.Entity] = f.Name
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")

	for _, c := range d.Columns {
		fmt.Fprintf(&buf, "\n  subgraph \"year_%d\" {\n    rank=same;\n", c.Year)
		for _, b := range c.Bands {
			label := fmt.Sprintf("%d · %d (%d)", c.Year, b.Label, b.Count)
			if opts.Members {
				for _, id := range b.Entities {
					label += "\n" + nameOr(names, id)
				}
			}
			fmt.Fprintf(&buf, "    %q [label=%q];\n", BandID(c.Year, b.Label), label)
		}
		buf.WriteString("  }\n")
	}

	var order []edgeKey
	weights := make(map[edgeKey]int)
	for _, f := range d.Flows {
		for i := 1; i < len(f.Points); i++ {
			a, b := f.Points[i-1], f.Points[i]
			k := edgeKey{BandID(a.Year, a.Label), BandID(b.Year, b.Label)}
			if weights[k] == 0 {
				order = append(order, k)
			}
			weights[k]++
		}
	}

	buf.WriteString("\n")
	for _, k := range order {
		w := weights[k]
		fmt.Fprintf(&buf, "  %q -> %q [weight=%d, penwidth=%d, label=\"%d\"];\n", k.from, k.to, w, w, w)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nameOr(names map[string]string, id string) string {
	if n := names[id]; n != "" {
		return n
	}
	return id
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from the
// origin instead of Graphviz's translated coordinate frame.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
