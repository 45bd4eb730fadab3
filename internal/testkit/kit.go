// Package testkit generates seeded synthetic experiment artifacts for
// cross-package tests and demo runs.
package testkit

import (
	"fmt"
	"math/rand"
	"strings"

	"semdrift/domain/core"
	"semdrift/domain/drift"
	"semdrift/internal/results"
)

// noise vocabulary injected into degraded outputs
var fillerWords = []string{
	"um", "well", "perhaps", "like", "actually", "basically",
	"somehow", "roughly", "kind", "sort",
}

// TestKit produces deterministic experiment records.
type TestKit struct {
	seed int64
}

// NewTestKit creates a kit with the default seed.
func NewTestKit() *TestKit {
	return &TestKit{seed: 42}
}

// NewTestKitWithSeed creates a kit with an explicit seed.
func NewTestKitWithSeed(seed int64) *TestKit {
	return &TestKit{seed: seed}
}

// GenerateRecord builds an experiment whose outputs degrade with the noise
// level: at 0% the output is the original sentence, and each level replaces
// a proportional share of words with filler vocabulary.
func (k *TestKit) GenerateRecord(experimentID string, noiseLevels []int) drift.ExperimentRecord {
	rng := rand.New(rand.NewSource(k.seed))

	original := "the quick brown fox jumps over the lazy dog near the river bank " +
		"while the evening sun settles behind the distant hills"

	outputs := make(map[int]string, len(noiseLevels))
	for _, level := range noiseLevels {
		outputs[level] = degrade(rng, original, level)
	}

	return drift.ExperimentRecord{
		ExperimentID:     core.ExperimentID(experimentID),
		OriginalSentence: original,
		FinalOutputs:     outputs,
	}
}

func degrade(rng *rand.Rand, sentence string, noiseLevel int) string {
	words := strings.Fields(sentence)
	replaced := make([]string, len(words))
	copy(replaced, words)

	corrupt := len(words) * noiseLevel / 100
	for _, idx := range rng.Perm(len(words))[:corrupt] {
		replaced[idx] = fillerWords[rng.Intn(len(fillerWords))]
	}
	return strings.Join(replaced, " ")
}

// WriteArtifact serializes a record to path in the loader's wire format
// (string noise-level keys).
func (k *TestKit) WriteArtifact(path string, record drift.ExperimentRecord) error {
	wire := map[string]interface{}{
		"experiment_id":     record.ExperimentID,
		"original_sentence": record.OriginalSentence,
		"final_outputs":     stringKeyed(record.FinalOutputs),
	}
	if len(record.SemanticDistances) > 0 {
		wire["semantic_distances"] = stringKeyedFloats(record.SemanticDistances)
	}
	if len(record.TextSimilarities) > 0 {
		wire["text_similarities"] = stringKeyedFloats(record.TextSimilarities)
	}
	if len(record.WordOverlaps) > 0 {
		wire["word_overlaps"] = stringKeyedFloats(record.WordOverlaps)
	}
	return results.WriteJSON(path, wire)
}

func stringKeyed(m map[int]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[fmt.Sprintf("%d", k)] = v
	}
	return out
}

func stringKeyedFloats(m map[int]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[fmt.Sprintf("%d", k)] = v
	}
	return out
}
