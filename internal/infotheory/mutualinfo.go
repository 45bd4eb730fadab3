package infotheory

import (
	"math"

	"semdrift/domain/drift"
)

// MutualInformation estimates shared word-level information between two
// texts using I(X;Y) = H(X) + H(Y) - H(X,Y). Joint entropy is approximated
// from vocabulary overlap since the texts carry no parallel alignment:
// perfect overlap collapses H(X,Y) to H(X), disjoint vocabularies make it
// additive.
func (e *Estimator) MutualInformation(text1, text2, name1, name2 string) drift.MutualInformationResult {
	counter1 := wordCounts(text1)
	counter2 := wordCounts(text2)

	vocab := make(map[string]bool, len(counter1)+len(counter2))
	for w := range counter1 {
		vocab[w] = true
	}
	for w := range counter2 {
		vocab[w] = true
	}

	total1, total2 := 0, 0
	for _, c := range counter1 {
		total1 += c
	}
	for _, c := range counter2 {
		total2 += c
	}

	hX := clippedEntropy(counter1, total1, len(vocab))
	hY := clippedEntropy(counter2, total2, len(vocab))

	overlap := 0
	for w := range counter1 {
		if _, ok := counter2[w]; ok {
			overlap++
		}
	}
	overlapRatio := 0.0
	if len(vocab) > 0 {
		overlapRatio = float64(overlap) / float64(len(vocab))
	}

	hXY := hX + hY*(1-overlapRatio)

	mi := math.Max(0, hX+hY-hXY)

	normalizer := 1.0
	if hX > 0 && hY > 0 {
		normalizer = math.Sqrt(hX * hY)
	}
	nmi := 0.0
	if normalizer > 0 {
		nmi = math.Min(1, mi/normalizer)
	}

	return drift.MutualInformationResult{
		Text1Name:         name1,
		Text2Name:         name2,
		MutualInformation: mi,
		NormalizedMI:      nmi,
		EntropyText1:      hX,
		EntropyText2:      hY,
		JointEntropy:      hXY,
		InformationLoss:   hX - mi,
		Interpretation:    interpretMI(nmi),
	}
}

// clippedEntropy computes entropy over the shared vocabulary with
// probabilities clipped away from zero, so absent words contribute a
// vanishing but defined term.
func clippedEntropy(counts map[string]int, total, vocabSize int) float64 {
	if total == 0 || vocabSize == 0 {
		return 0
	}
	terms := make([]float64, 0, len(counts))
	for _, c := range counts {
		p := float64(c) / float64(total)
		if p < logEps {
			p = logEps
		}
		terms = append(terms, p*math.Log2(p))
	}
	h := -sumSorted(terms)
	// absent vocabulary entries clip to epsilon
	absent := vocabSize - len(counts)
	if absent > 0 {
		h -= float64(absent) * logEps * math.Log2(logEps)
	}
	return h
}

func interpretMI(nmi float64) string {
	switch {
	case nmi > 0.8:
		return "Excellent preservation: most original information retained"
	case nmi > 0.6:
		return "Good preservation: majority of information preserved"
	case nmi > 0.4:
		return "Moderate preservation: significant information loss"
	default:
		return "Poor preservation: substantial information loss occurred"
	}
}
