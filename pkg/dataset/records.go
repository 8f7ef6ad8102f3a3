package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/provflow/pkg/errors"
)

// NationalID is the entity id of the national aggregate, which is not a
// province and never takes part in a diagram.
const NationalID = 142

// Record is one row of the statistical table.
type Record struct {
	Name   string             // display name (Prvcnm)
	ID     int                // entity id (Prvcnm_id)
	Year   int                // Sgnyea
	Values map[string]float64 // indicator columns
}

// Entity returns the record's entity ID as used in partitions.
func (r Record) Entity() string { return strconv.Itoa(r.ID) }

// UnmarshalJSON decodes a table row. Indicator values that are empty,
// non-numeric or negative are stored as 0.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	name, ok := raw["Prvcnm"].(string)
	if !ok {
		return fmt.Errorf("missing Prvcnm")
	}
	id, ok := number(raw["Prvcnm_id"])
	if !ok {
		return fmt.Errorf("missing Prvcnm_id for %q", name)
	}
	year, ok := number(raw["Sgnyea"])
	if !ok {
		return fmt.Errorf("missing Sgnyea for %q", name)
	}

	*r = Record{Name: name, ID: int(id), Year: int(year), Values: make(map[string]float64, len(raw))}
	for k, v := range raw {
		switch k {
		case "Prvcnm", "Prvcnm_id", "Sgnyea":
			continue
		}
		f, ok := number(v)
		if !ok || f < 0 {
			f = 0
		}
		r.Values[k] = f
	}
	return nil
}

// number converts a JSON scalar to float64; numeric strings are accepted.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ReadRecords decodes a JSON array of records, dropping the national aggregate.
func ReadRecords(r io.Reader) ([]Record, error) {
	var all []Record
	if err := json.NewDecoder(r).Decode(&all); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode records")
	}
	out := all[:0]
	for _, rec := range all {
		if rec.ID == NationalID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadRecordsFile reads records from a JSON file.
func ReadRecordsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "records file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}

// Indicators groups record values by year and entity ID.
type Indicators map[int]map[string]map[string]float64

// IndicatorsOf builds the year → entity → column → value table.
func IndicatorsOf(records []Record) Indicators {
	out := make(Indicators)
	for _, rec := range records {
		year, ok := out[rec.Year]
		if !ok {
			year = make(map[string]map[string]float64)
			out[rec.Year] = year
		}
		year[rec.Entity()] = rec.Values
	}
	return out
}

// Values returns the indicator columns of entity id in year, or nil.
func (ind Indicators) Values(year int, id string) map[string]float64 {
	return ind[year][id]
}

// Names maps entity IDs to display names. It implements [flow.Namer].
type Names map[string]string

// NamesOf collects the display name of every entity in records. Later rows
// win when an id was renamed.
func NamesOf(records []Record) Names {
	out := make(Names, len(records))
	for _, rec := range records {
		out[rec.Entity()] = rec.Name
	}
	return out
}

// Name returns the display name of id, or id itself when unknown.
func (n Names) Name(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id
}
