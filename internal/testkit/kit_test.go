package testkit

import (
	"path/filepath"
	"strings"
	"testing"

	"semdrift/internal/results"
)

func TestGenerateRecord(t *testing.T) {
	kit := NewTestKit()
	record := kit.GenerateRecord("exp-1", []int{0, 25, 50, 75})

	if err := record.Validate(); err != nil {
		t.Fatalf("generated record invalid: %v", err)
	}
	if record.FinalOutputs[0] != record.OriginalSentence {
		t.Error("0% noise output must equal the original sentence")
	}

	diff := func(level int) int {
		orig := strings.Fields(record.OriginalSentence)
		out := strings.Fields(record.FinalOutputs[level])
		changed := 0
		for i := range orig {
			if out[i] != orig[i] {
				changed++
			}
		}
		return changed
	}
	if diff(25) == 0 {
		t.Error("25% noise should corrupt at least one word")
	}
	if diff(75) <= diff(25) {
		t.Errorf("corruption should grow with noise: 25%%=%d 75%%=%d", diff(25), diff(75))
	}
}

func TestGenerateRecord_Deterministic(t *testing.T) {
	a := NewTestKitWithSeed(7).GenerateRecord("exp-1", []int{0, 50})
	b := NewTestKitWithSeed(7).GenerateRecord("exp-1", []int{0, 50})
	if a.FinalOutputs[50] != b.FinalOutputs[50] {
		t.Error("same seed must reproduce outputs")
	}

	c := NewTestKitWithSeed(8).GenerateRecord("exp-1", []int{0, 50})
	if a.FinalOutputs[50] == c.FinalOutputs[50] {
		t.Error("different seeds should diverge")
	}
}

func TestWriteArtifact_RoundTrip(t *testing.T) {
	kit := NewTestKit()
	record := kit.GenerateRecord("exp-rt", []int{0, 30, 60})
	record.SemanticDistances = map[int]float64{0: 0.0, 30: 0.2, 60: 0.5}

	path := filepath.Join(t.TempDir(), "experiment_results.json")
	if err := kit.WriteArtifact(path, record); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	loaded, err := results.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OriginalSentence != record.OriginalSentence {
		t.Error("original sentence lost in round trip")
	}
	if len(loaded.FinalOutputs) != 3 {
		t.Errorf("expected 3 outputs, got %d", len(loaded.FinalOutputs))
	}
	if v, ok := loaded.SemanticDistances[30]; !ok || v != 0.2 {
		t.Errorf("cached distance lost: %v %v", v, ok)
	}
}
