package drift

import (
	"fmt"
	"math"
)

// ============================================================================
// SHARED PRIMITIVES
// ============================================================================

// ConfidenceInterval is a (lower, upper) pair with lower <= upper at a
// nominal coverage level.
type ConfidenceInterval struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Level  float64 `json:"level"`
	Method string  `json:"method"` // "percentile_bootstrap" or "fisher_z"
}

// NewConfidenceInterval validates and constructs an interval. NaN bounds
// are allowed (undefined interval, e.g. Fisher-Z with n<3).
func NewConfidenceInterval(lower, upper, level float64, method string) (ConfidenceInterval, error) {
	if !math.IsNaN(lower) && !math.IsNaN(upper) && lower > upper {
		return ConfidenceInterval{}, fmt.Errorf("interval lower %f exceeds upper %f", lower, upper)
	}
	if level <= 0 || level >= 1 {
		return ConfidenceInterval{}, fmt.Errorf("coverage level must be in (0,1), got %f", level)
	}
	return ConfidenceInterval{Lower: lower, Upper: upper, Level: level, Method: method}, nil
}

// Contains reports whether v falls inside the interval.
func (ci ConfidenceInterval) Contains(v float64) bool {
	return v >= ci.Lower && v <= ci.Upper
}

// CorrectionMethod selects a multiple-comparison correction.
type CorrectionMethod string

const (
	CorrectionBonferroni CorrectionMethod = "bonferroni"
	CorrectionHolm       CorrectionMethod = "holm"
	CorrectionFDRBH      CorrectionMethod = "fdr_bh"
	CorrectionNone       CorrectionMethod = "none"
)

// Valid reports whether the method is one of the supported corrections.
func (m CorrectionMethod) Valid() bool {
	switch m {
	case CorrectionBonferroni, CorrectionHolm, CorrectionFDRBH, CorrectionNone:
		return true
	}
	return false
}

// ============================================================================
// INFORMATION-THEORETIC RESULTS
// ============================================================================

// EntropyResult carries character- and word-level Shannon entropy for one text.
type EntropyResult struct {
	TextName          string  `json:"text_name"`
	ShannonEntropy    float64 `json:"shannon_entropy"`
	CharEntropy       float64 `json:"char_entropy"`
	WordEntropy       float64 `json:"word_entropy"`
	NormalizedEntropy float64 `json:"normalized_entropy"`
	Redundancy        float64 `json:"redundancy"`
	Interpretation    string  `json:"interpretation"`
}

// MutualInformationResult carries MI between two texts and derived metrics.
type MutualInformationResult struct {
	Text1Name         string  `json:"text1_name"`
	Text2Name         string  `json:"text2_name"`
	MutualInformation float64 `json:"mutual_information"`
	NormalizedMI      float64 `json:"normalized_mi"`
	EntropyText1      float64 `json:"entropy_text1"`
	EntropyText2      float64 `json:"entropy_text2"`
	JointEntropy      float64 `json:"joint_entropy"`
	InformationLoss   float64 `json:"information_loss"`
	Interpretation    string  `json:"interpretation"`
}

// KLDivergenceResult carries divergence metrics between two word distributions.
type KLDivergenceResult struct {
	SourceName     string  `json:"source_name"`
	TargetName     string  `json:"target_name"`
	KLDivergence   float64 `json:"kl_divergence"`
	ReverseKL      float64 `json:"reverse_kl"`
	JensenShannon  float64 `json:"jensen_shannon"`
	TotalVariation float64 `json:"total_variation"`
	Interpretation string  `json:"interpretation"`
}

// InformationBottleneckResult captures the compression/relevance trade-off
// of a translation chain.
type InformationBottleneckResult struct {
	CompressionRate    float64 `json:"compression_rate"`
	RelevancePreserved float64 `json:"relevance_preserved"`
	BottleneckQuality  float64 `json:"bottleneck_quality"`
	OptimalBeta        float64 `json:"optimal_beta"`
	Interpretation     string  `json:"interpretation"`
}

// CausalStrength bands transfer-entropy magnitude.
type CausalStrength string

const (
	CausalStrong           CausalStrength = "strong"
	CausalModerate         CausalStrength = "moderate"
	CausalWeak             CausalStrength = "weak"
	CausalNegligible       CausalStrength = "negligible"
	CausalInsufficientData CausalStrength = "insufficient_data"
)

// ClassifyCausalStrength bands a normalized transfer value.
func ClassifyCausalStrength(effectiveTransfer float64) CausalStrength {
	switch {
	case effectiveTransfer > 0.6:
		return CausalStrong
	case effectiveTransfer > 0.3:
		return CausalModerate
	case effectiveTransfer > 0.1:
		return CausalWeak
	default:
		return CausalNegligible
	}
}

// TransferEntropyResult carries directed information-flow analysis between
// two text series.
type TransferEntropyResult struct {
	SourceName        string         `json:"source_name"`
	TargetName        string         `json:"target_name"`
	TransferEntropy   float64        `json:"transfer_entropy"`
	EffectiveTransfer float64        `json:"effective_transfer"`
	CausalStrength    CausalStrength `json:"causal_strength"`
	Interpretation    string         `json:"interpretation"`
}

// ============================================================================
// RESAMPLING / INFERENCE RESULTS
// ============================================================================

// BootstrapResult carries percentile-bootstrap statistics for one metric.
type BootstrapResult struct {
	MetricName    string             `json:"metric_name"`
	ObservedValue float64            `json:"observed_value"`
	BootstrapMean float64            `json:"bootstrap_mean"`
	BootstrapStd  float64            `json:"bootstrap_std"`
	Bias          float64            `json:"bias"`
	Interval      ConfidenceInterval `json:"confidence_interval"`
	NIterations   int                `json:"n_iterations"`
	Seed          int64              `json:"seed"`
}

// EffectBand classifies a Cliff's delta magnitude.
type EffectBand string

const (
	EffectNegligible EffectBand = "negligible"
	EffectSmall      EffectBand = "small"
	EffectMedium     EffectBand = "medium"
	EffectLarge      EffectBand = "large"
)

// Cliff's delta thresholds (Romano et al.).
const (
	cliffSmall  = 0.147
	cliffMedium = 0.330
	cliffLarge  = 0.474
)

// ClassifyCliffsDelta bands an effect size.
func ClassifyCliffsDelta(delta float64) EffectBand {
	abs := math.Abs(delta)
	switch {
	case abs >= cliffLarge:
		return EffectLarge
	case abs >= cliffMedium:
		return EffectMedium
	case abs >= cliffSmall:
		return EffectSmall
	default:
		return EffectNegligible
	}
}

// ComparisonResult carries one pairwise hypothesis test with its corrected
// p-value.
// INVARIANT: PValueCorrected >= PValue for every supported correction.
type ComparisonResult struct {
	Group1Name      string     `json:"group1_name"`
	Group2Name      string     `json:"group2_name"`
	Group1Mean      float64    `json:"group1_mean"`
	Group2Mean      float64    `json:"group2_mean"`
	Group1Std       float64    `json:"group1_std"`
	Group2Std       float64    `json:"group2_std"`
	TestStatistic   float64    `json:"test_statistic"`
	PValue          float64    `json:"p_value"`
	PValueCorrected float64    `json:"p_value_corrected"`
	EffectSize      float64    `json:"effect_size"`
	EffectBand      EffectBand `json:"effect_band"`
	TestName        string     `json:"test_name"`
	Significant     bool       `json:"significant"`
	Interpretation  string     `json:"interpretation"`
}

// CorrelationResult carries one correlation measure with its p-value and,
// when defined, a Fisher-Z confidence interval.
type CorrelationResult struct {
	Variable1      string             `json:"variable1"`
	Variable2      string             `json:"variable2"`
	Coefficient    float64            `json:"correlation_coefficient"`
	PValue         float64            `json:"p_value"`
	TestName       string             `json:"test_name"`
	NSamples       int                `json:"n_samples"`
	Interval       ConfidenceInterval `json:"confidence_interval"`
	Interpretation string             `json:"interpretation"`
}

// RegressionResult carries a polynomial least-squares fit with ANOVA-style
// overall significance.
type RegressionResult struct {
	Predictor        string    `json:"predictor"`
	Response         string    `json:"response"`
	ModelType        string    `json:"model_type"`
	Coefficients     []float64 `json:"coefficients"` // ascending powers: b0, b1, ... bk
	RSquared         float64   `json:"r_squared"`
	AdjustedRSquared float64   `json:"adjusted_r_squared"`
	RMSE             float64   `json:"rmse"`
	FStatistic       float64   `json:"f_statistic"`
	PValue           float64   `json:"p_value"`
	Predictions      []float64 `json:"predictions"`
	Residuals        []float64 `json:"residuals"`
	Interpretation   string    `json:"interpretation"`
}

// ANOVAResult carries a one-way analysis of variance across noise levels.
type ANOVAResult struct {
	TestName       string  `json:"test_name"`
	FStatistic     float64 `json:"f_statistic"`
	PValue         float64 `json:"p_value"`
	DFBetween      int     `json:"df_between"`
	DFWithin       int     `json:"df_within"`
	EtaSquared     float64 `json:"effect_size_eta_squared"`
	Interpretation string  `json:"interpretation"`
}

// NormalityResult carries a per-metric normality diagnostic.
type NormalityResult struct {
	Test           string  `json:"test"`
	Statistic      float64 `json:"statistic"`
	PValue         float64 `json:"p_value"`
	Normal         bool    `json:"normal"`
	Recommendation string  `json:"recommendation"`
}

// VarianceTestResult carries one homoscedasticity test across groups.
type VarianceTestResult struct {
	Statistic     float64 `json:"statistic"`
	PValue        float64 `json:"p_value"`
	Homoscedastic bool    `json:"homoscedastic"`
}

// DiagnosticsResult bundles the assumption checks for a set of metric series.
type DiagnosticsResult struct {
	Normality      map[string]NormalityResult `json:"normality"`
	Levene         VarianceTestResult         `json:"levene_test"`
	Bartlett       VarianceTestResult         `json:"bartlett_test"`
	Recommendation string                     `json:"recommendation"`
}

// ============================================================================
// STOCHASTIC RESONANCE RESULTS
// ============================================================================

// ResonanceStrength bands the SNR gain over the zero-noise baseline.
type ResonanceStrength string

const (
	ResonanceStrong   ResonanceStrength = "strong"
	ResonanceModerate ResonanceStrength = "moderate"
	ResonanceWeak     ResonanceStrength = "weak"
	ResonanceNone     ResonanceStrength = "none"
)

// ClassifyResonanceStrength bands an SNR gain ratio.
func ClassifyResonanceStrength(gain float64) ResonanceStrength {
	switch {
	case gain > 1.5:
		return ResonanceStrong
	case gain > 1.2:
		return ResonanceModerate
	case gain > 1.05:
		return ResonanceWeak
	default:
		return ResonanceNone
	}
}

// StochasticResonanceResult carries the detection outcome for a
// noise-vs-quality series.
type StochasticResonanceResult struct {
	SRDetected         bool               `json:"sr_detected"`
	OptimalNoiseLevel  float64            `json:"optimal_noise_level"`
	SNRAtOptimal       float64            `json:"snr_at_optimal"`
	SNRAtZero          float64            `json:"snr_at_zero"`
	SRGain             float64            `json:"sr_gain"`
	ResonanceStrength  ResonanceStrength  `json:"resonance_strength"`
	Interval           ConfidenceInterval `json:"confidence_interval"`
	PValue             float64            `json:"p_value"`
	TheoreticalOptimal float64            `json:"theoretical_optimal"`
	Interpretation     string             `json:"interpretation"`
}

// CurveType classifies an SNR curve shape.
type CurveType string

const (
	CurveResonant            CurveType = "resonant"
	CurveMonotonicDecreasing CurveType = "monotonic_decreasing"
	CurveMonotonicIncreasing CurveType = "monotonic_increasing"
	CurveInsufficientData    CurveType = "insufficient_data"
)

// SNRCurveResult carries the SNR curve with its derivatives.
// INVARIANT: all derived slices have the same length as NoiseLevels.
type SNRCurveResult struct {
	NoiseLevels      []float64 `json:"noise_levels"`
	SNRValues        []float64 `json:"snr_values"`
	SNRSmoothed      []float64 `json:"snr_smoothed"`
	FirstDerivative  []float64 `json:"first_derivative"`
	SecondDerivative []float64 `json:"second_derivative"`
	InflectionPoints []float64 `json:"inflection_points"`
	CurveType        CurveType `json:"curve_type"`
}

// Validate checks the parallel-slice invariant.
func (r *SNRCurveResult) Validate() error {
	n := len(r.NoiseLevels)
	if len(r.SNRValues) != n || len(r.SNRSmoothed) != n ||
		len(r.FirstDerivative) != n || len(r.SecondDerivative) != n {
		return fmt.Errorf("curve slices must all have length %d", n)
	}
	return nil
}

// AttentionThresholdModel carries the fitted sigmoid threshold model.
// Converged=false means defaults were substituted and ModelFitR2 is not a
// genuine goodness-of-fit value.
type AttentionThresholdModel struct {
	ThresholdEstimate    float64 `json:"threshold_estimate"`
	ThresholdConfidence  float64 `json:"threshold_confidence"`
	NonlinearityStrength float64 `json:"nonlinearity_strength"`
	SaturationPoint      float64 `json:"saturation_point"`
	ModelFitR2           float64 `json:"model_fit_r2"`
	Converged            bool    `json:"converged"`
	Interpretation       string  `json:"interpretation"`
}
