package infotheory

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"semdrift/domain/drift"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEntropy_UniformWords(t *testing.T) {
	e := NewEstimator()
	// four distinct words, each once: H = log2(4) = 2 bits
	result := e.Entropy("alpha beta gamma delta", LevelWord)
	if !almostEqual(result.ShannonEntropy, 2, 1e-6) {
		t.Errorf("expected ~2 bits, got %f", result.ShannonEntropy)
	}
	if !almostEqual(result.NormalizedEntropy, 1, 1e-6) {
		t.Errorf("uniform distribution should normalize to ~1, got %f", result.NormalizedEntropy)
	}
	if !almostEqual(result.Redundancy, 0, 1e-6) {
		t.Errorf("uniform distribution has no redundancy, got %f", result.Redundancy)
	}
}

func TestEntropy_SingleRepeatedWord(t *testing.T) {
	e := NewEstimator()
	result := e.Entropy("word word word word", LevelWord)
	if !almostEqual(result.ShannonEntropy, 0, 1e-6) {
		t.Errorf("single repeated word has zero entropy, got %f", result.ShannonEntropy)
	}
	if result.NormalizedEntropy != 0 {
		t.Errorf("degenerate vocabulary normalizes to 0, got %f", result.NormalizedEntropy)
	}
	if result.Redundancy != 1 {
		t.Errorf("expected full redundancy, got %f", result.Redundancy)
	}
}

func TestEntropy_Deterministic(t *testing.T) {
	e := NewEstimator()
	// large skewed vocabulary so a map-order-dependent float sum would
	// drift in its last bits between calls
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		for j := 0; j <= i%7; j++ {
			fmt.Fprintf(&sb, "word%02d ", i)
		}
	}
	text := sb.String()

	first := e.Entropy(text, LevelWord)
	firstMI := e.MutualInformation(text, "word00 word01 word02 unseen", "a", "b")
	for i := 0; i < 20; i++ {
		again := e.Entropy(text, LevelWord)
		if again.ShannonEntropy != first.ShannonEntropy {
			t.Fatalf("entropy drifted across runs: %v vs %v",
				again.ShannonEntropy, first.ShannonEntropy)
		}
		mi := e.MutualInformation(text, "word00 word01 word02 unseen", "a", "b")
		if mi.MutualInformation != firstMI.MutualInformation {
			t.Fatalf("mutual information drifted across runs: %v vs %v",
				mi.MutualInformation, firstMI.MutualInformation)
		}
	}
}

func TestEntropy_CharLevel(t *testing.T) {
	e := NewEstimator()
	result := e.Entropy("aabb", LevelChar)
	if !almostEqual(result.ShannonEntropy, 1, 1e-6) {
		t.Errorf("two equiprobable chars carry 1 bit, got %f", result.ShannonEntropy)
	}
	if result.TextName != "text_char" {
		t.Errorf("unexpected text name %q", result.TextName)
	}
}

func TestMutualInformation_IdenticalTexts(t *testing.T) {
	e := NewEstimator()
	text := "alpha beta gamma delta"
	result := e.MutualInformation(text, text, "a", "b")

	// full overlap: joint entropy collapses to H(X), MI = H(Y)
	if !almostEqual(result.JointEntropy, result.EntropyText1, 1e-6) {
		t.Errorf("identical texts: H(X,Y)=%f should equal H(X)=%f",
			result.JointEntropy, result.EntropyText1)
	}
	if !almostEqual(result.NormalizedMI, 1, 1e-6) {
		t.Errorf("identical texts should have NMI ~1, got %f", result.NormalizedMI)
	}
	if !almostEqual(result.InformationLoss, 0, 1e-6) {
		t.Errorf("identical texts lose no information, got %f", result.InformationLoss)
	}
}

func TestMutualInformation_DisjointTexts(t *testing.T) {
	e := NewEstimator()
	result := e.MutualInformation("alpha beta", "gamma delta", "a", "b")
	if !almostEqual(result.MutualInformation, 0, 1e-6) {
		t.Errorf("disjoint vocabularies share no information, got %f", result.MutualInformation)
	}
	if !almostEqual(result.JointEntropy, result.EntropyText1+result.EntropyText2, 1e-6) {
		t.Error("disjoint texts should have additive joint entropy")
	}
}

func TestMutualInformation_NeverNegative(t *testing.T) {
	e := NewEstimator()
	result := e.MutualInformation("one two three", "three four five six", "a", "b")
	if result.MutualInformation < 0 {
		t.Errorf("MI must be non-negative, got %f", result.MutualInformation)
	}
	if result.NormalizedMI < 0 || result.NormalizedMI > 1 {
		t.Errorf("NMI must be in [0,1], got %f", result.NormalizedMI)
	}
}

func TestKLDivergence_IdenticalTexts(t *testing.T) {
	e := NewEstimator()
	result := e.KLDivergence("same words here", "same words here", "a", "b")
	if !almostEqual(result.KLDivergence, 0, 1e-9) {
		t.Errorf("identical distributions diverge by 0, got %f", result.KLDivergence)
	}
	if !almostEqual(result.JensenShannon, 0, 1e-9) {
		t.Errorf("expected JS 0, got %f", result.JensenShannon)
	}
	if !almostEqual(result.TotalVariation, 0, 1e-9) {
		t.Errorf("expected TV 0, got %f", result.TotalVariation)
	}
}

func TestKLDivergence_Properties(t *testing.T) {
	e := NewEstimator()
	result := e.KLDivergence("alpha alpha beta", "beta gamma gamma", "a", "b")

	if result.KLDivergence <= 0 {
		t.Errorf("different distributions must diverge, got %f", result.KLDivergence)
	}
	// JS is symmetric and bounded by ln(2)
	reversed := e.KLDivergence("beta gamma gamma", "alpha alpha beta", "b", "a")
	if !almostEqual(result.JensenShannon, reversed.JensenShannon, 1e-9) {
		t.Error("Jensen-Shannon divergence must be symmetric")
	}
	if result.JensenShannon > math.Ln2+1e-9 {
		t.Errorf("JS divergence exceeds ln(2): %f", result.JensenShannon)
	}
	if result.TotalVariation < 0 || result.TotalVariation > 1 {
		t.Errorf("total variation must be in [0,1], got %f", result.TotalVariation)
	}
}

func TestBottleneckAnalysis(t *testing.T) {
	e := NewEstimator()

	t.Run("lossless chain", func(t *testing.T) {
		text := "alpha beta gamma delta epsilon"
		result := e.BottleneckAnalysis(text, []string{text}, text)
		if result.CompressionRate > 0.2 {
			t.Errorf("identity chain should barely compress, got %f", result.CompressionRate)
		}
		if result.RelevancePreserved < 0.8 {
			t.Errorf("identity chain should preserve relevance, got %f", result.RelevancePreserved)
		}
	})

	t.Run("destructive chain", func(t *testing.T) {
		result := e.BottleneckAnalysis(
			"alpha beta gamma delta epsilon",
			[]string{"unrelated words entirely"},
			"different output text",
		)
		if result.CompressionRate < 0.8 {
			t.Errorf("disjoint chain should compress heavily, got %f", result.CompressionRate)
		}
		if result.RelevancePreserved > 0.2 {
			t.Errorf("disjoint chain preserves little, got %f", result.RelevancePreserved)
		}
	})

	t.Run("beta capped", func(t *testing.T) {
		text := "alpha beta gamma delta epsilon"
		result := e.BottleneckAnalysis(text, []string{text}, text)
		if result.OptimalBeta > 100 {
			t.Errorf("beta must be capped at 100, got %f", result.OptimalBeta)
		}
	})
}

func TestTransferEntropy(t *testing.T) {
	e := NewEstimator()

	t.Run("insufficient data", func(t *testing.T) {
		result := e.TransferEntropy([]string{"only one"}, []string{"also one"}, "src", "tgt")
		if result.CausalStrength != drift.CausalInsufficientData {
			t.Errorf("expected insufficient_data, got %s", result.CausalStrength)
		}
		if result.TransferEntropy != 0 {
			t.Errorf("expected zero TE, got %f", result.TransferEntropy)
		}
	})

	t.Run("echoing target", func(t *testing.T) {
		// target repeats the source's previous output verbatim
		source := []string{"alpha beta gamma", "delta epsilon zeta", "eta theta iota"}
		target := []string{"noise", "alpha beta gamma", "delta epsilon zeta"}
		result := e.TransferEntropy(source, target, "src", "tgt")
		if result.TransferEntropy <= 0 {
			t.Errorf("echoing target should show positive transfer, got %f", result.TransferEntropy)
		}
		if result.EffectiveTransfer < 0 || result.EffectiveTransfer > 1 {
			t.Errorf("effective transfer must be in [0,1], got %f", result.EffectiveTransfer)
		}
	})

	t.Run("unrelated series", func(t *testing.T) {
		source := []string{"aa bb cc", "dd ee ff", "gg hh ii"}
		target := []string{"xx yy zz", "xx yy zz", "xx yy zz"}
		result := e.TransferEntropy(source, target, "src", "tgt")
		if result.CausalStrength != drift.CausalNegligible {
			t.Errorf("unrelated series should be negligible, got %s", result.CausalStrength)
		}
	})
}

func TestAnalyzeNoiseLevels(t *testing.T) {
	e := NewEstimator()
	record := &drift.ExperimentRecord{
		OriginalSentence: "the quick brown fox jumps over the lazy dog",
		FinalOutputs: map[int]string{
			0:  "the quick brown fox jumps over the lazy dog",
			50: "a fast brown fox leaps over a sleepy dog",
			90: "totally unrelated words appear in this sentence now",
		},
	}

	analysis, err := e.AnalyzeNoiseLevels(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := analysis.EntropyAnalysis["original"]; !ok {
		t.Error("original entropy must be included")
	}
	if len(analysis.MutualInformation) != 3 {
		t.Errorf("expected 3 MI entries, got %d", len(analysis.MutualInformation))
	}

	zeroNoise := analysis.MutualInformation["noise_0"]
	highNoise := analysis.MutualInformation["noise_90"]
	if zeroNoise.NormalizedMI <= highNoise.NormalizedMI {
		t.Errorf("identical output should share more information than unrelated output: %f vs %f",
			zeroNoise.NormalizedMI, highNoise.NormalizedMI)
	}

	if analysis.Summary.MeanNormalizedMI <= 0 {
		t.Errorf("expected positive mean NMI, got %f", analysis.Summary.MeanNormalizedMI)
	}
	if analysis.Summary.CorrelationNoiseMI >= 0 {
		t.Errorf("NMI should fall with noise, correlation %f", analysis.Summary.CorrelationNoiseMI)
	}
}
