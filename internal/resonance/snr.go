package resonance

import (
	"math"
)

// ============================================================================
// STOCHASTIC RESONANCE DETECTOR
// ============================================================================

// Detector searches noise-vs-quality series for stochastic resonance, the
// regime where moderate input noise improves output quality. Randomized
// steps draw from a seeded source so detection is reproducible.
type Detector struct {
	Seed int64
}

// NewDetector returns a detector with the default seed.
func NewDetector() *Detector {
	return &Detector{Seed: 42}
}

// CalculateSNR converts a similarity measurement into a signal-to-noise
// ratio in decibels. Signal power is the squared preserved similarity;
// noise power combines squared drift with a scaled input-noise term and is
// floored to keep the ratio finite.
func CalculateSNR(noiseLevel, similarity float64) float64 {
	signalPower := similarity * similarity

	translationNoise := (1 - similarity) * (1 - similarity)
	inputNoiseEffect := (noiseLevel / 100) * (noiseLevel / 100) * 0.1

	noisePower := math.Max(translationNoise+inputNoiseEffect, 1e-10)
	return 10 * math.Log10(signalPower/noisePower)
}

// snrSeries computes the SNR at each noise level.
func snrSeries(noiseLevels, similarities []float64) []float64 {
	snr := make([]float64, len(noiseLevels))
	for i := range noiseLevels {
		snr[i] = CalculateSNR(noiseLevels[i], similarities[i])
	}
	return snr
}
