package results

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"semdrift/domain/core"
	"semdrift/internal/errors"
)

func TestParse_ValidArtifact(t *testing.T) {
	data := []byte(`{
		"experiment_id": "exp-001",
		"original_sentence": "the quick brown fox",
		"final_outputs": {"0": "the quick brown fox", "50": "a fast brown fox"},
		"semantic_distances": {"0": 0.0, "50": 0.42}
	}`)

	record, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ExperimentID != core.ExperimentID("exp-001") {
		t.Errorf("experiment id mismatch: %q", record.ExperimentID)
	}
	if record.OriginalSentence != "the quick brown fox" {
		t.Errorf("original sentence mismatch: %q", record.OriginalSentence)
	}
	if len(record.FinalOutputs) != 2 {
		t.Errorf("expected 2 outputs, got %d", len(record.FinalOutputs))
	}
	if record.FinalOutputs[50] != "a fast brown fox" {
		t.Errorf("noise level 50 output mismatch: %q", record.FinalOutputs[50])
	}
	if record.SemanticDistances[50] != 0.42 {
		t.Errorf("cached distance mismatch: %f", record.SemanticDistances[50])
	}

	levels := record.NoiseLevels()
	if len(levels) != 2 || levels[0] != 0 || levels[1] != 50 {
		t.Errorf("expected ascending levels [0 50], got %v", levels)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
		code string
	}{
		{"malformed json", `{"final_outputs": `, errors.CodeMissingArtifact},
		{"non-integer noise key", `{"original_sentence": "x", "final_outputs": {"low": "y"}}`, errors.CodeInvalidInput},
		{"noise key out of range", `{"original_sentence": "x", "final_outputs": {"150": "y"}}`, errors.CodeInvalidInput},
		{"empty original", `{"original_sentence": "", "final_outputs": {"0": "y"}}`, errors.CodeInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tc.code {
				t.Errorf("expected code %s, got %s (%v)", tc.code, got, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.GetCode(err) != errors.CodeMissingArtifact {
		t.Errorf("expected MISSING_ARTIFACT, got %s", errors.GetCode(err))
	}
}

func TestSanitize_NaNAndInfBecomeNull(t *testing.T) {
	type inner struct {
		Value float64 `json:"value"`
	}
	type outer struct {
		Name   string             `json:"name"`
		Score  float64            `json:"score"`
		Bad    float64            `json:"bad"`
		Worse  float64            `json:"worse"`
		Nested inner              `json:"nested"`
		Series []float64          `json:"series"`
		ByName map[string]float64 `json:"by_name"`
	}

	v := outer{
		Name:   "report",
		Score:  0.5,
		Bad:    math.NaN(),
		Worse:  math.Inf(1),
		Nested: inner{Value: math.Inf(-1)},
		Series: []float64{1.0, math.NaN(), 3.0},
		ByName: map[string]float64{"a": math.NaN(), "b": 2.0},
	}

	data, err := json.Marshal(Sanitize(v))
	if err != nil {
		t.Fatalf("sanitized value must marshal cleanly: %v", err)
	}

	var round map[string]interface{}
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if round["bad"] != nil {
		t.Errorf("NaN should serialize as null, got %v", round["bad"])
	}
	if round["worse"] != nil {
		t.Errorf("+Inf should serialize as null, got %v", round["worse"])
	}
	if round["nested"].(map[string]interface{})["value"] != nil {
		t.Error("-Inf in nested struct should serialize as null")
	}
	series := round["series"].([]interface{})
	if series[1] != nil {
		t.Errorf("NaN in slice should serialize as null, got %v", series[1])
	}
	if series[0].(float64) != 1.0 || series[2].(float64) != 3.0 {
		t.Error("finite values must survive sanitization unchanged")
	}
	if round["by_name"].(map[string]interface{})["a"] != nil {
		t.Error("NaN map value should serialize as null")
	}
}

func TestSanitize_IntKeyedMaps(t *testing.T) {
	v := map[int]float64{0: 0.1, 25: math.NaN(), 50: 0.5}
	out := Sanitize(v).(map[string]interface{})
	if out["0"].(float64) != 0.1 {
		t.Errorf("int key 0 should become string key, got %v", out)
	}
	if out["25"] != nil {
		t.Errorf("NaN under int key should be nil, got %v", out["25"])
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	payload := map[string]interface{}{
		"metric": math.NaN(),
		"value":  1.5,
	}

	if err := WriteJSON(path, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	var round map[string]interface{}
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if round["metric"] != nil {
		t.Errorf("expected null metric, got %v", round["metric"])
	}
	if round["value"].(float64) != 1.5 {
		t.Errorf("expected value 1.5, got %v", round["value"])
	}
}
