package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

func testParameters() Parameters {
	return Parameters{
		Seed:                42,
		BootstrapIterations: 10000,
		ConfidenceLevel:     0.95,
		Alpha:               0.05,
		CorrectionMethod:    drift.CorrectionHolm,
	}
}

func TestReport_SuccessfulCategories(t *testing.T) {
	r := New("statistical_validation", testParameters())

	r.Attach("information_theory", map[string]int{"levels": 3}, nil)
	r.Attach("comparative", []string{"a", "b"}, nil)

	doc := r.Document()
	require.Contains(t, doc, "metadata")
	assert.Equal(t, map[string]int{"levels": 3}, doc["information_theory"])
	assert.NotContains(t, doc, "information_theory_error")
	assert.Empty(t, r.Failures())
}

func TestReport_FailedCategoryIsIsolated(t *testing.T) {
	r := New("statistical_validation", testParameters())

	r.Attach("comparative", map[string]int{"pairs": 6}, nil)
	r.Attach("resonance", nil, errors.InsufficientData("need at least 3 noise levels"))

	doc := r.Document()
	assert.Equal(t, map[string]int{"pairs": 6}, doc["comparative"])
	assert.NotContains(t, doc, "resonance")

	msg, ok := doc["resonance_error"].(string)
	require.True(t, ok, "failed category must leave an error string")
	assert.Contains(t, msg, "need at least 3 noise levels")
	assert.Equal(t, []string{"resonance"}, r.Failures())
}

func TestReport_Metadata(t *testing.T) {
	params := testParameters()
	r := New("statistical_validation", params)

	meta := r.Metadata()
	assert.NotEmpty(t, meta.ReportID.String())
	assert.Equal(t, "statistical_validation", meta.AnalysisType)
	assert.False(t, meta.GeneratedAt.IsZero())
	assert.Equal(t, params, meta.Parameters)

	other := New("statistical_validation", params)
	assert.NotEqual(t, meta.ReportID, other.Metadata().ReportID)
}

func TestSummarizeSeries(t *testing.T) {
	series := drift.NewMetricSeries("semantic_distance",
		map[int]float64{0: 0.1, 25: 0.3, 50: 0.5, 75: 0.7}, []int{0, 25, 50, 75})

	summaries, err := SummarizeSeries(map[string]drift.MetricSeries{"semantic_distance": series})
	require.NoError(t, err)

	s := summaries["semantic_distance"]
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 0.4, s.Mean, 1e-12)
	assert.InDelta(t, 0.4, s.Median, 1e-12)
	assert.InDelta(t, 0.1, s.Min, 1e-12)
	assert.InDelta(t, 0.7, s.Max, 1e-12)
	assert.Greater(t, s.Std, 0.0)
}

func TestSummarizeSeries_Empty(t *testing.T) {
	_, err := SummarizeSeries(nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
}
