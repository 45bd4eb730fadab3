package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
	"semdrift/internal/report"
)

// Summary bundles the pieces of a run worth surfacing in the Markdown digest.
type Summary struct {
	Meta        report.Metadata
	Summaries   map[string]report.MetricSummary
	Resonance   *drift.StochasticResonanceResult
	Threshold   *drift.AttentionThresholdModel
	Comparisons []drift.ComparisonResult
	Failures    []string
}

// RenderMarkdown produces the human-readable run digest.
func RenderMarkdown(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Semantic Drift Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Report ID**: %s\n", s.Meta.ReportID.String())
	fmt.Fprintf(&b, "- **Generated**: %s\n", s.Meta.GeneratedAt.Time().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Seed**: %d\n", s.Meta.Parameters.Seed)
	fmt.Fprintf(&b, "- **Bootstrap iterations**: %d\n", s.Meta.Parameters.BootstrapIterations)
	fmt.Fprintf(&b, "- **Correction method**: %s\n\n", s.Meta.Parameters.CorrectionMethod)

	if len(s.Failures) > 0 {
		fmt.Fprintf(&b, "> **Warning**: categories failed: %s\n\n", strings.Join(s.Failures, ", "))
	}

	if len(s.Summaries) > 0 {
		b.WriteString("## Metric Summary\n\n")
		b.WriteString("| Metric | Mean | Median | Std | Min | Max |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, name := range sortedKeys(s.Summaries) {
			m := s.Summaries[name]
			fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				m.Metric, m.Mean, m.Median, m.Std, m.Min, m.Max)
		}
		b.WriteString("\n")
	}

	if s.Resonance != nil {
		b.WriteString("## Stochastic Resonance\n\n")
		verdict := "not detected"
		if s.Resonance.SRDetected {
			verdict = fmt.Sprintf("detected at %.0f%% noise (gain %.2fx, strength %s)",
				s.Resonance.OptimalNoiseLevel, s.Resonance.SRGain, s.Resonance.ResonanceStrength)
		}
		fmt.Fprintf(&b, "Resonance %s.\n\n%s\n\n", verdict, s.Resonance.Interpretation)
	}

	if s.Threshold != nil {
		b.WriteString("## Attention Threshold\n\n")
		if s.Threshold.Converged {
			fmt.Fprintf(&b, "Threshold near %.1f%% noise, saturation near %.1f%% (R2=%.3f).\n\n",
				s.Threshold.ThresholdEstimate, s.Threshold.SaturationPoint, s.Threshold.ModelFitR2)
		} else {
			b.WriteString("Sigmoid threshold model did not converge; default parameters reported.\n\n")
		}
		fmt.Fprintf(&b, "%s\n\n", s.Threshold.Interpretation)
	}

	if len(s.Comparisons) > 0 {
		b.WriteString("## Significant Pairwise Differences\n\n")
		any := false
		for _, c := range s.Comparisons {
			if !c.Significant {
				continue
			}
			any = true
			fmt.Fprintf(&b, "- %s vs %s: p=%.4g (corrected %.4g), effect %.3f (%s)\n",
				c.Group1Name, c.Group2Name, c.PValue, c.PValueCorrected,
				c.EffectSize, c.EffectBand)
		}
		if !any {
			b.WriteString("None survived correction.\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// WriteMarkdown renders the digest and writes it to path.
func WriteMarkdown(path string, s Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileError("failed to create output directory", err)
		}
	}
	if err := os.WriteFile(path, []byte(RenderMarkdown(s)), 0o644); err != nil {
		return errors.FileError("failed to write markdown summary", err)
	}
	return nil
}
