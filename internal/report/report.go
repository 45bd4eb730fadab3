// Package report assembles per-category analysis payloads into a single
// serializable document. A category that fails is recorded as a
// "<category>_error" string; the rest of the report is unaffected.
package report

import (
	"semdrift/domain/core"
	"semdrift/domain/drift"
)

// Parameters echoes the run configuration into the report so a reader can
// reproduce it.
type Parameters struct {
	Seed                int64                  `json:"seed"`
	BootstrapIterations int                    `json:"bootstrap_iterations"`
	ConfidenceLevel     float64                `json:"confidence_level"`
	Alpha               float64                `json:"alpha"`
	CorrectionMethod    drift.CorrectionMethod `json:"correction_method"`
}

// Metadata identifies a single analysis run.
type Metadata struct {
	ReportID     core.ReportID  `json:"report_id"`
	AnalysisType string         `json:"analysis_type"`
	GeneratedAt  core.Timestamp `json:"analysis_date"`
	Parameters   Parameters     `json:"parameters"`
}

type category struct {
	name    string
	payload interface{}
	errMsg  string
}

// Report accumulates categories and renders them as a flat document.
type Report struct {
	meta       Metadata
	categories []category
}

// New creates a report with fresh metadata.
func New(analysisType string, params Parameters) *Report {
	return &Report{
		meta: Metadata{
			ReportID:     core.ReportID(core.NewID()),
			AnalysisType: analysisType,
			GeneratedAt:  core.Now(),
			Parameters:   params,
		},
	}
}

// Metadata returns the report metadata.
func (r *Report) Metadata() Metadata {
	return r.meta
}

// Attach records a category outcome. When err is non-nil the payload is
// discarded and the error message is kept under "<name>_error".
func (r *Report) Attach(name string, payload interface{}, err error) {
	if err != nil {
		r.categories = append(r.categories, category{name: name, errMsg: err.Error()})
		return
	}
	r.categories = append(r.categories, category{name: name, payload: payload})
}

// Failures returns the names of categories that reported an error.
func (r *Report) Failures() []string {
	var failed []string
	for _, c := range r.categories {
		if c.errMsg != "" {
			failed = append(failed, c.name)
		}
	}
	return failed
}

// Document flattens the report into a map ready for serialization.
// Category order is attachment order; metadata always comes along.
func (r *Report) Document() map[string]interface{} {
	doc := make(map[string]interface{}, len(r.categories)+1)
	doc["metadata"] = r.meta
	for _, c := range r.categories {
		if c.errMsg != "" {
			doc[c.name+"_error"] = c.errMsg
			continue
		}
		doc[c.name] = c.payload
	}
	return doc
}
