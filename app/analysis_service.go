package app

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"semdrift/domain/drift"
	"semdrift/internal"
	"semdrift/internal/config"
	"semdrift/internal/export"
	"semdrift/internal/inference"
	"semdrift/internal/infotheory"
	"semdrift/internal/report"
	"semdrift/internal/resonance"
	"semdrift/internal/results"
	"semdrift/internal/textmetrics"
)

// AnalysisService orchestrates a full statistical validation run: load the
// experiment artifact, derive the metric series, run the four report
// categories, and write the report plus exports.
type AnalysisService struct {
	cfg    *config.Config
	logger *internal.Logger
}

// NewAnalysisService creates the service from configuration.
func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return &AnalysisService{cfg: cfg, logger: internal.DefaultLogger.WithStage("analysis")}
}

// RunResult reports where the artifacts were written and which report
// categories failed.
type RunResult struct {
	ReportPath   string   `json:"report_path"`
	SummaryPath  string   `json:"summary_path"`
	WorkbookPath string   `json:"workbook_path"`
	Failures     []string `json:"failures,omitempty"`
}

// InformationTheoryAnalysis is the information_theory report category.
type InformationTheoryAnalysis struct {
	NoiseLevels *infotheory.NoiseLevelAnalysis    `json:"noise_level_analysis"`
	Bottleneck  drift.InformationBottleneckResult `json:"information_bottleneck"`
	Transfer    drift.TransferEntropyResult       `json:"transfer_entropy"`
}

// ComparativeAnalysis is the comparative report category.
type ComparativeAnalysis struct {
	PairwiseComparisons []drift.ComparisonResult             `json:"pairwise_comparisons"`
	Correlations        map[string][]drift.CorrelationResult `json:"correlations"`
	Regression          *drift.RegressionResult              `json:"regression"`
	Diagnostics         *drift.DiagnosticsResult             `json:"diagnostics"`
}

// SensitivityAnalysis is the sensitivity report category.
type SensitivityAnalysis struct {
	Bootstrap         map[string]*drift.BootstrapResult `json:"bootstrap"`
	NoiseANOVA        *drift.ANOVAResult                `json:"noise_level_anova"`
	CohensDExtremes   map[string]float64                `json:"cohens_d_extremes"`
	NGramSensitivity  *NGramSensitivity                 `json:"ngram_sensitivity"`
	SummaryStatistics map[string]report.MetricSummary   `json:"summary_statistics"`
}

// ResonanceAnalysis is the stochastic_resonance report category.
type ResonanceAnalysis struct {
	Detection *drift.StochasticResonanceResult `json:"detection"`
	Curve     *drift.SNRCurveResult            `json:"snr_curve"`
	Threshold *drift.AttentionThresholdModel   `json:"attention_threshold"`
}

// Run executes the whole pipeline for the configured artifact.
func (s *AnalysisService) Run(ctx context.Context) (*RunResult, error) {
	record, err := results.Load(s.cfg.Paths.ResultsFile)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loaded experiment %s with %d noise levels",
		record.ExperimentID.String(), len(record.NoiseLevels()))

	embedder := textmetrics.NewEmbedder()
	embedder.MaxFeatures = s.cfg.Analysis.MaxFeatures
	metricSet, err := textmetrics.NewComputerWithEmbedder(embedder).Compute(record)
	if err != nil {
		return nil, err
	}

	seriesSet := map[string]drift.MetricSeries{
		textmetrics.SeriesSemanticDistance: metricSet.SemanticDistance,
		textmetrics.SeriesTextSimilarity:   metricSet.TextSimilarity,
		textmetrics.SeriesWordOverlap:      metricSet.WordOverlap,
	}

	var (
		infoPayload        *InformationTheoryAnalysis
		infoErr            error
		comparativePayload *ComparativeAnalysis
		comparativeErr     error
		sensitivityPayload *SensitivityAnalysis
		sensitivityErr     error
		resonancePayload   *ResonanceAnalysis
		resonanceErr       error
	)

	// Categories are independent; a failure is recorded in the report, not
	// propagated, so the errgroup only coordinates completion.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		infoPayload, infoErr = s.runInformationTheory(record)
		return nil
	})
	g.Go(func() error {
		comparativePayload, comparativeErr = s.runComparative(metricSet, seriesSet)
		return nil
	})
	g.Go(func() error {
		sensitivityPayload, sensitivityErr = s.runSensitivity(record, metricSet, seriesSet)
		return nil
	})
	g.Go(func() error {
		resonancePayload, resonanceErr = s.runResonance(metricSet)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := report.New("statistical_validation", report.Parameters{
		Seed:                s.cfg.Analysis.Seed,
		BootstrapIterations: s.cfg.Analysis.BootstrapIterations,
		ConfidenceLevel:     s.cfg.Analysis.ConfidenceLevel,
		Alpha:               s.cfg.Analysis.Alpha,
		CorrectionMethod:    s.cfg.Analysis.CorrectionMethod,
	})
	rep.Attach("text_metrics", metricSet, nil)
	rep.Attach("information_theory", infoPayload, infoErr)
	rep.Attach("comparative", comparativePayload, comparativeErr)
	rep.Attach("sensitivity", sensitivityPayload, sensitivityErr)
	rep.Attach("stochastic_resonance", resonancePayload, resonanceErr)

	for _, name := range rep.Failures() {
		s.logger.Warn("category %s failed, continuing without it", name)
	}

	outDir := s.cfg.Paths.OutputDir
	run := &RunResult{
		ReportPath:   filepath.Join(outDir, "statistical_report.json"),
		SummaryPath:  filepath.Join(outDir, "summary.md"),
		WorkbookPath: filepath.Join(outDir, "statistical_report.xlsx"),
		Failures:     rep.Failures(),
	}

	if err := results.WriteJSON(run.ReportPath, rep.Document()); err != nil {
		return nil, err
	}
	if err := s.writeExports(run, rep, comparativePayload, sensitivityPayload, resonancePayload); err != nil {
		return nil, err
	}

	s.logger.Info("analysis complete: %s", run.ReportPath)
	return run, nil
}

func (s *AnalysisService) runInformationTheory(record *drift.ExperimentRecord) (*InformationTheoryAnalysis, error) {
	est := infotheory.NewEstimator()

	analysis, err := est.AnalyzeNoiseLevels(record)
	if err != nil {
		return nil, err
	}

	levels := record.NoiseLevels()
	outputs := make([]string, len(levels))
	for i, level := range levels {
		outputs[i] = record.FinalOutputs[level]
	}

	var intermediates []string
	final := outputs[len(outputs)-1]
	if len(outputs) > 1 {
		intermediates = outputs[:len(outputs)-1]
	}
	bottleneck := est.BottleneckAnalysis(record.OriginalSentence, intermediates, final)

	// how much the original keeps driving each output beyond the chain's
	// own history
	source := make([]string, len(outputs))
	for i := range source {
		source[i] = record.OriginalSentence
	}
	transfer := est.TransferEntropy(source, outputs, "original", "degraded_outputs")

	return &InformationTheoryAnalysis{
		NoiseLevels: analysis,
		Bottleneck:  bottleneck,
		Transfer:    transfer,
	}, nil
}

func (s *AnalysisService) runComparative(metricSet *textmetrics.MetricSet, seriesSet map[string]drift.MetricSeries) (*ComparativeAnalysis, error) {
	eng := s.newEngine()

	comparisons, err := eng.PairwiseComparisons(metricSet.SemanticDistance)
	if err != nil {
		return nil, err
	}

	correlations := make(map[string][]drift.CorrelationResult, len(seriesSet))
	for name, series := range seriesSet {
		corrs, err := eng.Correlations(series)
		if err != nil {
			return nil, err
		}
		correlations[name] = corrs
	}

	noise, distances := metricSet.SemanticDistance.Ordered()
	regression, err := eng.PolynomialRegression(
		"noise_level", textmetrics.SeriesSemanticDistance, noise, distances, 2)
	if err != nil {
		return nil, err
	}

	diagnostics, err := eng.Diagnostics(seriesSet, textmetrics.SeriesSemanticDistance)
	if err != nil {
		return nil, err
	}

	return &ComparativeAnalysis{
		PairwiseComparisons: comparisons,
		Correlations:        correlations,
		Regression:          regression,
		Diagnostics:         diagnostics,
	}, nil
}

func (s *AnalysisService) runSensitivity(record *drift.ExperimentRecord, metricSet *textmetrics.MetricSet, seriesSet map[string]drift.MetricSeries) (*SensitivityAnalysis, error) {
	eng := s.newEngine()

	bootstrap := make(map[string]*drift.BootstrapResult, len(seriesSet))
	for name, series := range seriesSet {
		_, values := series.Ordered()
		b, err := eng.Bootstrap(name, values)
		if err != nil {
			return nil, err
		}
		bootstrap[name] = b
	}

	anova, err := eng.NoiseLevelANOVA(
		metricSet.SemanticDistance, metricSet.TextSimilarity, metricSet.WordOverlap)
	if err != nil {
		return nil, err
	}

	levels := metricSet.SemanticDistance.Levels
	lowest, highest := levels[0], levels[len(levels)-1]
	cohens := make(map[string]float64, len(seriesSet))
	for name, series := range seriesSet {
		d, err := inference.CohensD(series, lowest, highest)
		if err != nil {
			return nil, err
		}
		cohens[name] = d
	}

	ngram, err := s.ngramSensitivity(record)
	if err != nil {
		return nil, err
	}

	summaries, err := report.SummarizeSeries(seriesSet)
	if err != nil {
		return nil, err
	}

	return &SensitivityAnalysis{
		Bootstrap:         bootstrap,
		NoiseANOVA:        anova,
		CohensDExtremes:   cohens,
		NGramSensitivity:  ngram,
		SummaryStatistics: summaries,
	}, nil
}

func (s *AnalysisService) runResonance(metricSet *textmetrics.MetricSet) (*ResonanceAnalysis, error) {
	det := resonance.NewDetector()
	det.Seed = s.cfg.Analysis.Seed

	detection, err := det.DetectResonance(metricSet.TextSimilarity)
	if err != nil {
		return nil, err
	}
	curve, err := det.AnalyzeCurve(metricSet.TextSimilarity)
	if err != nil {
		return nil, err
	}
	threshold := det.FitThresholdModel(metricSet.TextSimilarity)

	return &ResonanceAnalysis{
		Detection: detection,
		Curve:     curve,
		Threshold: threshold,
	}, nil
}

func (s *AnalysisService) newEngine() *inference.Engine {
	eng := inference.NewEngine()
	eng.Seed = s.cfg.Analysis.Seed
	eng.BootstrapIterations = s.cfg.Analysis.BootstrapIterations
	eng.ConfidenceLevel = s.cfg.Analysis.ConfidenceLevel
	eng.Alpha = s.cfg.Analysis.Alpha
	eng.CorrectionMethod = s.cfg.Analysis.CorrectionMethod
	return eng
}

func (s *AnalysisService) writeExports(run *RunResult, rep *report.Report, comparative *ComparativeAnalysis, sensitivity *SensitivityAnalysis, reso *ResonanceAnalysis) error {
	summary := export.Summary{
		Meta:     rep.Metadata(),
		Failures: rep.Failures(),
	}
	tables := export.Tables{}
	if sensitivity != nil {
		summary.Summaries = sensitivity.SummaryStatistics
		tables.Summaries = sensitivity.SummaryStatistics
		tables.Bootstrap = sensitivity.Bootstrap
	}
	if comparative != nil {
		summary.Comparisons = comparative.PairwiseComparisons
		tables.Comparisons = comparative.PairwiseComparisons
		for _, corrs := range comparative.Correlations {
			tables.Correlations = append(tables.Correlations, corrs...)
		}
	}
	if reso != nil {
		summary.Resonance = reso.Detection
		summary.Threshold = reso.Threshold
	}

	if err := export.WriteMarkdown(run.SummaryPath, summary); err != nil {
		return err
	}
	return export.WriteWorkbook(run.WorkbookPath, tables)
}
