package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/provflow/pkg/diagram"
	"github.com/matzehuels/provflow/pkg/diagram/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = sink.MarshalJSON(d)
		case FormatDOT:
			if dot == "" {
				dot = sink.ToDOT(d, sink.DOTOptions{Members: opts.Members})
			}
			data = []byte(dot)
		case FormatSVG:
			if dot == "" {
				dot = sink.ToDOT(d, sink.DOTOptions{Members: opts.Members})
			}
			data, err = sink.RenderSVG(ctx, dot)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
