package textmetrics

import (
	"math"
	"testing"

	"semdrift/domain/drift"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEmbedder_IdenticalTextsHaveZeroDistance(t *testing.T) {
	e := NewEmbedder()
	d, err := e.SemanticDistance("the quick brown fox jumps", "the quick brown fox jumps")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(d, 0, 1e-9) {
		t.Errorf("identical texts should have distance ~0, got %f", d)
	}
}

func TestEmbedder_DisjointTextsAreOrthogonal(t *testing.T) {
	e := NewEmbedder()
	d, err := e.SemanticDistance("alpha beta gamma", "delta epsilon zeta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(d, 1, 1e-9) {
		t.Errorf("disjoint vocabularies should be orthogonal (distance 1), got %f", d)
	}
}

func TestEmbedder_ParaphraseFartherThanIdentity(t *testing.T) {
	e := NewEmbedder()
	original := "the committee approved the new budget for the coming fiscal year"
	paraphrase := "next year's finances were signed off by the panel"

	identical, err := e.SemanticDistance(original, original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reworded, err := e.SemanticDistance(original, paraphrase)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reworded <= identical {
		t.Errorf("paraphrase distance %f should exceed identity distance %f", reworded, identical)
	}
}

func TestEmbedder_EmptyInputs(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.FitTransform(nil); err == nil {
		t.Error("empty corpus must be rejected")
	}
	// single-char tokens fall below the two-character token threshold
	if _, err := e.SemanticDistance("a b c", "d e f"); err == nil {
		t.Error("corpus with no valid tokens must be rejected")
	}
}

func TestEmbedder_VocabularyCap(t *testing.T) {
	e := &Embedder{MaxFeatures: 5, NGramMin: 1, NGramMax: 1}
	vectors, err := e.FitTransform([]string{
		"one two three four five six seven",
		"one two three four five six seven",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors[0]) != 5 {
		t.Errorf("expected 5-dimensional vectors under cap, got %d", len(vectors[0]))
	}
}

func TestEmbedder_UnitNorm(t *testing.T) {
	e := NewEmbedder()
	vectors, err := e.FitTransform([]string{"hello world again", "goodbye cruel world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, vec := range vectors {
		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		if !almostEqual(math.Sqrt(sum), 1, 1e-9) {
			t.Errorf("vector %d not unit norm: %f", i, math.Sqrt(sum))
		}
	}
}

func TestCosineDistance(t *testing.T) {
	t.Run("orthogonal", func(t *testing.T) {
		d, err := CosineDistance([]float64{1, 0, 0}, []float64{0, 1, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(d, 1, 1e-9) {
			t.Errorf("expected 1.0, got %f", d)
		}
	})

	t.Run("opposite", func(t *testing.T) {
		d, err := CosineDistance([]float64{1, 0}, []float64{-1, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(d, 2, 1e-9) {
			t.Errorf("expected 2.0, got %f", d)
		}
	})

	t.Run("zero vector", func(t *testing.T) {
		d, err := CosineDistance([]float64{0, 0}, []float64{1, 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d != 1 {
			t.Errorf("zero vector should yield distance 1, got %f", d)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		if _, err := CosineDistance([]float64{1}, []float64{1, 2}); err == nil {
			t.Error("expected dimension mismatch error")
		}
	})
}

func TestTextSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		if s := TextSimilarity("Hello World", "hello world"); !almostEqual(s, 1, 1e-9) {
			t.Errorf("case-insensitive identical texts should score 1.0, got %f", s)
		}
	})

	t.Run("single deletion", func(t *testing.T) {
		// 2*4/(5+4) = 0.888...
		s := TextSimilarity("hello", "helo")
		if !almostEqual(s, 8.0/9.0, 1e-9) {
			t.Errorf("expected %f, got %f", 8.0/9.0, s)
		}
	})

	t.Run("disjoint", func(t *testing.T) {
		if s := TextSimilarity("abc", "xyz"); s != 0 {
			t.Errorf("expected 0.0, got %f", s)
		}
	})

	t.Run("both empty", func(t *testing.T) {
		if s := TextSimilarity("", ""); s != 1 {
			t.Errorf("two empty strings are identical, got %f", s)
		}
	})

	t.Run("one empty", func(t *testing.T) {
		if s := TextSimilarity("abc", ""); s != 0 {
			t.Errorf("expected 0.0, got %f", s)
		}
	})
}

func TestWordOverlap(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		// shared {the, brown}, union {the, quick, brown, fox, lazy, dog} = 2/6
		s := WordOverlap("the quick brown fox", "the lazy brown dog")
		if !almostEqual(s, 2.0/6.0, 1e-9) {
			t.Errorf("expected %f, got %f", 2.0/6.0, s)
		}
	})

	t.Run("identical", func(t *testing.T) {
		if s := WordOverlap("a b c", "c b a"); s != 1 {
			t.Errorf("same word set should score 1.0, got %f", s)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if s := WordOverlap("", "hello"); s != 0 {
			t.Errorf("empty text should score 0.0, got %f", s)
		}
	})
}

func TestComputer_CachePassThrough(t *testing.T) {
	record := &drift.ExperimentRecord{
		ExperimentID:     "exp-cache",
		OriginalSentence: "the quick brown fox jumps over the lazy dog",
		FinalOutputs: map[int]string{
			0:  "the quick brown fox jumps over the lazy dog",
			50: "a speedy brown fox leaps over a sleepy dog",
		},
		SemanticDistances: map[int]float64{0: 0.123},
	}

	set, err := NewComputer().Compute(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, ok := set.SemanticDistance.At(0)
	if !ok || cached != 0.123 {
		t.Errorf("cached distance must pass through unchanged, got %f", cached)
	}
	computed, ok := set.SemanticDistance.At(50)
	if !ok || computed <= 0 {
		t.Errorf("uncached level must be computed, got %f", computed)
	}
	if overlap, _ := set.WordOverlap.At(0); overlap != 1 {
		t.Errorf("identical output should have word overlap 1.0, got %f", overlap)
	}
}

func TestComputer_SeriesOrdering(t *testing.T) {
	record := &drift.ExperimentRecord{
		OriginalSentence: "signal passes through noise",
		FinalOutputs: map[int]string{
			75: "noise overwhelms the signal",
			0:  "signal passes through noise",
			25: "signal moves through noise",
		},
	}

	set, err := NewComputer().Compute(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels, _ := set.SemanticDistance.Ordered()
	if len(levels) != 3 || levels[0] != 0 || levels[1] != 25 || levels[2] != 75 {
		t.Errorf("series must be ordered by ascending noise level, got %v", levels)
	}
}
