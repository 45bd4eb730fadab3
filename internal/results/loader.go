package results

import (
	"encoding/json"
	"os"
	"strconv"

	"semdrift/domain/core"
	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// rawRecord mirrors the on-disk artifact shape. Noise levels arrive as
// string keys ("0", "25", ...) or bare integers depending on the producer.
type rawRecord struct {
	ExperimentID      string             `json:"experiment_id"`
	OriginalSentence  string             `json:"original_sentence"`
	FinalOutputs      map[string]string  `json:"final_outputs"`
	SemanticDistances map[string]float64 `json:"semantic_distances"`
	TextSimilarities  map[string]float64 `json:"text_similarities"`
	WordOverlaps      map[string]float64 `json:"word_overlaps"`
}

// Load reads an experiment artifact from disk. Missing or unparsable files
// fail immediately so no half-constructed record escapes.
func Load(path string) (*drift.ExperimentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.MissingArtifact(path)
		}
		return nil, errors.FileError("failed to read results file", err)
	}
	return Parse(data)
}

// Parse decodes an experiment artifact from raw JSON.
func Parse(data []byte) (*drift.ExperimentRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithCode(errors.CodeMissingArtifact,
			errors.Wrap(err, "results file is not valid JSON"))
	}

	record := &drift.ExperimentRecord{
		ExperimentID:     core.ExperimentID(raw.ExperimentID),
		OriginalSentence: raw.OriginalSentence,
		FinalOutputs:     make(map[int]string, len(raw.FinalOutputs)),
	}

	for key, text := range raw.FinalOutputs {
		level, err := parseNoiseKey(key)
		if err != nil {
			return nil, err
		}
		record.FinalOutputs[level] = text
	}

	var convErr error
	record.SemanticDistances, convErr = normalizeMetricMap(raw.SemanticDistances)
	if convErr != nil {
		return nil, convErr
	}
	record.TextSimilarities, convErr = normalizeMetricMap(raw.TextSimilarities)
	if convErr != nil {
		return nil, convErr
	}
	record.WordOverlaps, convErr = normalizeMetricMap(raw.WordOverlaps)
	if convErr != nil {
		return nil, convErr
	}

	if err := record.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput,
			errors.Wrap(err, "invalid experiment record"))
	}
	return record, nil
}

func parseNoiseKey(key string) (int, error) {
	level, err := strconv.Atoi(key)
	if err != nil {
		return 0, errors.InvalidInput("noise level key is not an integer: " + key)
	}
	if level < 0 || level > 100 {
		return 0, errors.InvalidInput("noise level out of range [0,100]: " + key)
	}
	return level, nil
}

func normalizeMetricMap(raw map[string]float64) (map[int]float64, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[int]float64, len(raw))
	for key, value := range raw {
		level, err := parseNoiseKey(key)
		if err != nil {
			return nil, err
		}
		out[level] = value
	}
	return out, nil
}
