package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/provflow/pkg/errors"
)

// Supported assignment file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Assignment is the clustering result for one entity in one year.
type Assignment struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label int     `json:"label" yaml:"label"`
}

// Assignments holds year → entity id → assignment.
type Assignments map[int]map[string]Assignment

// raw mirrors the file layout: {"2000": {"11": [x, y, label], ...}, ...}.
type raw map[string]map[string][]float64

// DecodeAssignments reads assignments in the given format ("json" or "yaml").
func DecodeAssignments(r io.Reader, format string) (Assignments, error) {
	if err := errors.ValidateFormat(format, FormatJSON, FormatYAML); err != nil {
		return nil, err
	}

	var data raw
	var err error
	switch strings.ToLower(format) {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&data)
	default:
		err = json.NewDecoder(r).Decode(&data)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode assignments")
	}
	return data.assignments()
}

// ReadAssignments reads an assignments file, choosing the format from its
// extension (.yaml and .yml are YAML, anything else JSON).
func ReadAssignments(path string) (Assignments, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "assignments file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return DecodeAssignments(f, FormatOf(path))
}

// FormatOf infers the assignment format from a file name.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func (d raw) assignments() (Assignments, error) {
	out := make(Assignments, len(d))
	for yearKey, entities := range d {
		year, err := strconv.Atoi(strings.TrimSpace(yearKey))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "invalid year %q", yearKey)
		}
		step := make(map[string]Assignment, len(entities))
		for id, v := range entities {
			if id == strconv.Itoa(NationalID) {
				continue
			}
			if err := errors.ValidateEntityID(id); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "year %d", year)
			}
			if len(v) < 3 {
				return nil, errors.New(errors.ErrCodeInvalidDataset,
					"year %d entity %s: want [x, y, label], got %d values", year, id, len(v))
			}
			label := math.Round(v[2])
			if label != v[2] || label < 0 {
				return nil, errors.New(errors.ErrCodeInvalidDataset,
					"year %d entity %s: label %v is not a non-negative integer", year, id, v[2])
			}
			step[id] = Assignment{X: v[0], Y: v[1], Label: int(label)}
		}
		out[year] = step
	}
	return out, nil
}

// Encode writes assignments in the raw file layout.
func (a Assignments) Encode(w io.Writer, format string) error {
	data := make(raw, len(a))
	for year, entities := range a {
		step := make(map[string][]float64, len(entities))
		for id, v := range entities {
			step[id] = []float64{v.X, v.Y, float64(v.Label)}
		}
		data[strconv.Itoa(year)] = step
	}
	switch strings.ToLower(format) {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(data)
	case FormatJSON:
		return json.NewEncoder(w).Encode(data)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Timeline returns the steps in chronological order.
func (a Assignments) Timeline() Timeline {
	years := slices.Sorted(maps.Keys(a))
	steps := make([]Step, len(years))
	for i, year := range years {
		labels := make(map[string]int, len(a[year]))
		for id, v := range a[year] {
			labels[id] = v.Label
		}
		steps[i] = Step{Year: year, Labels: labels}
	}
	return Timeline{Steps: steps}
}
