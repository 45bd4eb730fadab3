// Package export renders assembled analysis results to files other than the
// primary JSON reports: an XLSX workbook of the tabular results and a
// Markdown run summary.
package export

import (
	"sort"

	"github.com/xuri/excelize/v2"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
	"semdrift/internal/report"
)

// Tables collects the tabular slices of a finished run for workbook export.
type Tables struct {
	Summaries    map[string]report.MetricSummary
	Bootstrap    map[string]*drift.BootstrapResult
	Comparisons  []drift.ComparisonResult
	Correlations []drift.CorrelationResult
}

// WriteWorkbook writes one sheet per table to an XLSX file at path.
func WriteWorkbook(path string, tables Tables) error {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, tables.Summaries); err != nil {
		return err
	}
	if err := writeBootstrapSheet(f, tables.Bootstrap); err != nil {
		return err
	}
	if err := writeComparisonSheet(f, tables.Comparisons); err != nil {
		return err
	}
	if err := writeCorrelationSheet(f, tables.Correlations); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on Summary.
	if idx, err := f.GetSheetIndex("Summary"); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.FileError("failed to finalize workbook", err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.FileError("failed to write workbook", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return errors.FileError("failed to write cell "+cell, err)
		}
	}
	return nil
}

func newSheet(f *excelize.File, name string) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.FileError("failed to create sheet "+name, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summaries map[string]report.MetricSummary) error {
	const sheet = "Summary"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	header := []interface{}{"metric", "count", "mean", "median", "std", "min", "max"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, name := range sortedKeys(summaries) {
		s := summaries[name]
		values := []interface{}{s.Metric, s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeBootstrapSheet(f *excelize.File, results map[string]*drift.BootstrapResult) error {
	const sheet = "Bootstrap"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	header := []interface{}{
		"metric", "observed", "bootstrap_mean", "bootstrap_std", "bias",
		"ci_lower", "ci_upper", "iterations",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, name := range sortedKeys(results) {
		b := results[name]
		if b == nil {
			continue
		}
		values := []interface{}{
			b.MetricName, b.ObservedValue, b.BootstrapMean, b.BootstrapStd, b.Bias,
			b.Interval.Lower, b.Interval.Upper, b.NIterations,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeComparisonSheet(f *excelize.File, comparisons []drift.ComparisonResult) error {
	const sheet = "Pairwise"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	header := []interface{}{
		"group1", "group2", "statistic", "p_value", "p_corrected",
		"effect_size", "effect_band", "significant",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, c := range comparisons {
		values := []interface{}{
			c.Group1Name, c.Group2Name, c.TestStatistic, c.PValue, c.PValueCorrected,
			c.EffectSize, string(c.EffectBand), c.Significant,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeCorrelationSheet(f *excelize.File, correlations []drift.CorrelationResult) error {
	const sheet = "Correlations"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	header := []interface{}{
		"variable1", "variable2", "test", "coefficient", "p_value",
		"ci_lower", "ci_upper", "n",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, c := range correlations {
		values := []interface{}{
			c.Variable1, c.Variable2, c.TestName, c.Coefficient, c.PValue,
			c.Interval.Lower, c.Interval.Upper, c.NSamples,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}
