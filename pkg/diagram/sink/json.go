package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/provflow/pkg/diagram"
	"github.com/matzehuels/provflow/pkg/errors"
)

// MarshalJSON encodes d as indented JSON.
func MarshalJSON(d diagram.Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// WriteJSON encodes d to w as indented JSON.
func WriteJSON(w io.Writer, d diagram.Diagram) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ReadJSON decodes a diagram previously written by [WriteJSON].
func ReadJSON(r io.Reader) (diagram.Diagram, error) {
	var d diagram.Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode diagram")
	}
	return d, nil
}

// WriteFile writes d as JSON to path.
func WriteFile(path string, d diagram.Diagram) error {
	data, err := MarshalJSON(d)
	if err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
