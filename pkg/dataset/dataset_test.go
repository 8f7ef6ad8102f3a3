package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/flow"
)

const recordsJSON = `[
  {"Prvcnm": "Beijing", "Prvcnm_id": 11, "Sgnyea": 2000, "Gdp0101": 3161.7, "Gdp0102": "", "Gdp0103": -4},
  {"Prvcnm": "China", "Prvcnm_id": 142, "Sgnyea": 2000, "Gdp0101": 99214.6},
  {"Prvcnm": "Anhui", "Prvcnm_id": "34", "Sgnyea": "2001", "Gdp0101": "3246.7"}
]`

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(recordsJSON))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 (national aggregate dropped)", len(records))
	}

	bj := records[0]
	if bj.Name != "Beijing" || bj.ID != 11 || bj.Year != 2000 {
		t.Errorf("record = %+v", bj)
	}
	want := map[string]float64{"Gdp0101": 3161.7, "Gdp0102": 0, "Gdp0103": 0}
	if diff := cmp.Diff(want, bj.Values); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}

	ah := records[1]
	if ah.ID != 34 || ah.Year != 2001 || ah.Values["Gdp0101"] != 3246.7 {
		t.Errorf("string-typed fields not parsed: %+v", ah)
	}
}

func TestReadRecordsInvalid(t *testing.T) {
	tests := []string{
		`{"not": "an array"}`,
		`[{"Prvcnm_id": 1, "Sgnyea": 2000}]`,
		`[{"Prvcnm": "x", "Sgnyea": 2000}]`,
	}
	for _, in := range tests {
		if _, err := ReadRecords(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidDataset) {
			t.Errorf("ReadRecords(%s) error = %v, want INVALID_DATASET", in, err)
		}
	}
}

func TestNamesAndIndicators(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(recordsJSON))
	if err != nil {
		t.Fatal(err)
	}

	names := NamesOf(records)
	if got := names.Name("11"); got != "Beijing" {
		t.Errorf("Name(11) = %q, want Beijing", got)
	}
	if got := names.Name("99"); got != "99" {
		t.Errorf("Name(99) = %q, want fallback to id", got)
	}

	ind := IndicatorsOf(records)
	if got := ind[2001]["34"]["Gdp0101"]; got != 3246.7 {
		t.Errorf("Indicators[2001][34] = %v", got)
	}
	if got := ind.Values(2001, "34")["Gdp0101"]; got != 3246.7 {
		t.Errorf("Values(2001, 34) = %v", got)
	}
	if got := ind.Values(1999, "34"); got != nil {
		t.Errorf("Values for a missing year = %v, want nil", got)
	}
}

const assignmentsJSON = `{
  "2001": {"11": [0.1, 0.2, 1], "34": [0.3, 0.4, 0], "142": [0, 0, 2]},
  "2000": {"11": [0.5, 0.6, 0], "34": [0.7, 0.8, 0], "44": [0.9, 1.0, 3]}
}`

const assignmentsYAML = `
2001:
  "11": [0.1, 0.2, 1]
  "34": [0.3, 0.4, 0]
2000:
  "11": [0.5, 0.6, 0]
  "34": [0.7, 0.8, 0]
  "44": [0.9, 1.0, 3]
`

func TestDecodeAssignments(t *testing.T) {
	fromJSON, err := DecodeAssignments(strings.NewReader(assignmentsJSON), FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromYAML, err := DecodeAssignments(strings.NewReader(assignmentsYAML), FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("json and yaml disagree (-json +yaml):\n%s", diff)
	}

	if _, ok := fromJSON[2001]["142"]; ok {
		t.Error("national aggregate should be dropped")
	}
	if got := fromJSON[2001]["11"]; got != (Assignment{X: 0.1, Y: 0.2, Label: 1}) {
		t.Errorf("assignment = %+v", got)
	}
}

func TestDecodeAssignmentsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format string
		code   errors.Code
	}{
		{"bad year", `{"y2k": {"1": [0, 0, 0]}}`, FormatJSON, errors.ErrCodeInvalidDataset},
		{"short tuple", `{"2000": {"1": [0, 0]}}`, FormatJSON, errors.ErrCodeInvalidDataset},
		{"fractional label", `{"2000": {"1": [0, 0, 1.5]}}`, FormatJSON, errors.ErrCodeInvalidDataset},
		{"negative label", `{"2000": {"1": [0, 0, -1]}}`, FormatJSON, errors.ErrCodeInvalidDataset},
		{"malformed", `{"2000":`, FormatJSON, errors.ErrCodeInvalidDataset},
		{"unknown format", `{}`, "xml", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAssignments(strings.NewReader(tt.in), tt.format)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err=%v)", got, tt.code, err)
			}
		})
	}
}

func TestAssignmentsEncodeRoundTrip(t *testing.T) {
	a, err := DecodeAssignments(strings.NewReader(assignmentsJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	for _, format := range []string{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := a.Encode(&buf, format); err != nil {
			t.Fatalf("%s encode: %v", format, err)
		}
		back, err := DecodeAssignments(&buf, format)
		if err != nil {
			t.Fatalf("%s decode: %v", format, err)
		}
		if diff := cmp.Diff(a, back); diff != "" {
			t.Errorf("%s round trip (-want +got):\n%s", format, diff)
		}
	}
}

func TestTimeline(t *testing.T) {
	a, err := DecodeAssignments(strings.NewReader(assignmentsJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	tl := a.Timeline()

	if diff := cmp.Diff([]int{2000, 2001}, tl.Years()); diff != "" {
		t.Errorf("years (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"11", "34", "44"}, tl.Entities()); diff != "" {
		t.Errorf("entities (-want +got):\n%s", diff)
	}
	if got := tl.MaxGroups(); got != 2 {
		t.Errorf("MaxGroups = %d, want 2", got)
	}

	names := Names{"11": "Beijing", "34": "Anhui", "44": "Guangdong"}
	want := []flow.Partition{
		{{"34", "11"}, {"44"}},
		{{"34"}, {"11"}},
	}
	if diff := cmp.Diff(want, tl.Partitions(names)); diff != "" {
		t.Errorf("partitions (-want +got):\n%s", diff)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"out.json":       FormatJSON,
		"clusters.YAML":  FormatYAML,
		"clusters.yml":   FormatYAML,
		"no-extension":   FormatJSON,
		"dir.yaml/x.txt": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", path, got, want)
		}
	}
}
