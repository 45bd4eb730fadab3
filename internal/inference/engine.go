package inference

import (
	"semdrift/domain/drift"
)

// ============================================================================
// INFERENCE ENGINE
// ============================================================================
// Resampling and hypothesis-testing engine for metric series. All random
// draws flow through seeded generators so repeated runs produce identical
// reports.

// Engine carries the shared inference configuration.
type Engine struct {
	Seed                int64
	BootstrapIterations int
	ConfidenceLevel     float64
	Alpha               float64
	CorrectionMethod    drift.CorrectionMethod
}

// NewEngine returns an engine with the default configuration.
func NewEngine() *Engine {
	return &Engine{
		Seed:                42,
		BootstrapIterations: 10000,
		ConfidenceLevel:     0.95,
		Alpha:               0.05,
		CorrectionMethod:    drift.CorrectionHolm,
	}
}
