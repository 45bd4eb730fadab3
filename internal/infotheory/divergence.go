package infotheory

import (
	"math"

	"semdrift/domain/drift"
)

// KLDivergence measures distributional shift between the word distributions
// of two texts. Distributions are Laplace-smoothed over the union
// vocabulary, then renormalized. Divergences are in nats.
func (e *Estimator) KLDivergence(text1, text2, name1, name2 string) drift.KLDivergenceResult {
	words1 := words(text1)
	words2 := words(text2)

	counter1 := make(map[string]int)
	for _, w := range words1 {
		counter1[w]++
	}
	counter2 := make(map[string]int)
	for _, w := range words2 {
		counter2[w]++
	}

	vocab := make([]string, 0, len(counter1)+len(counter2))
	seen := make(map[string]bool)
	for _, w := range words1 {
		if !seen[w] {
			seen[w] = true
			vocab = append(vocab, w)
		}
	}
	for _, w := range words2 {
		if !seen[w] {
			seen[w] = true
			vocab = append(vocab, w)
		}
	}

	const alpha = 0.01
	p := make([]float64, len(vocab))
	q := make([]float64, len(vocab))
	denom1 := float64(len(words1)) + alpha*float64(len(vocab))
	denom2 := float64(len(words2)) + alpha*float64(len(vocab))
	for i, w := range vocab {
		p[i] = (float64(counter1[w]) + alpha) / denom1
		q[i] = (float64(counter2[w]) + alpha) / denom2
	}
	normalize(p)
	normalize(q)

	klPQ := relativeEntropy(p, q)
	klQP := relativeEntropy(q, p)

	m := make([]float64, len(vocab))
	for i := range m {
		m[i] = 0.5 * (p[i] + q[i])
	}
	js := 0.5*relativeEntropy(p, m) + 0.5*relativeEntropy(q, m)

	tv := 0.0
	for i := range p {
		tv += math.Abs(p[i] - q[i])
	}
	tv *= 0.5

	return drift.KLDivergenceResult{
		SourceName:     name1,
		TargetName:     name2,
		KLDivergence:   klPQ,
		ReverseKL:      klQP,
		JensenShannon:  js,
		TotalVariation: tv,
		Interpretation: interpretDivergence(js / math.Ln2),
	}
}

func normalize(p []float64) {
	var sum float64
	for _, v := range p {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range p {
		p[i] /= sum
	}
}

// relativeEntropy sums p*ln(p/q) elementwise.
func relativeEntropy(p, q []float64) float64 {
	var sum float64
	for i := range p {
		if p[i] > 0 && q[i] > 0 {
			sum += p[i] * math.Log(p[i]/q[i])
		}
	}
	return sum
}

func interpretDivergence(jsNormalized float64) string {
	switch {
	case jsNormalized < 0.1:
		return "Minimal divergence: distributions nearly identical"
	case jsNormalized < 0.3:
		return "Low divergence: minor distributional differences"
	case jsNormalized < 0.5:
		return "Moderate divergence: noticeable distribution shift"
	default:
		return "High divergence: significant distributional change"
	}
}
