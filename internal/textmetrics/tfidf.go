package textmetrics

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"semdrift/internal/errors"
)

// ============================================================================
// TF-IDF EMBEDDER
// ============================================================================
// Texts are lowercased, tokenized into runs of two or more word characters,
// expanded into word n-grams of length 1 to 3, counted, weighted by smoothed
// inverse document frequency and L2-normalized per document.
// INVARIANTS:
// - Vocabulary is capped at MaxFeatures terms, kept by descending corpus
//   frequency with alphabetical tie-break
// - Every returned vector has unit L2 norm unless the document has no
//   in-vocabulary terms (then it is all zeros)

var tokenPattern = regexp.MustCompile(`\w\w+`)

// Embedder turns a corpus of texts into TF-IDF vectors over a shared
// vocabulary.
type Embedder struct {
	MaxFeatures int
	NGramMin    int
	NGramMax    int
}

// NewEmbedder returns an embedder with the default configuration.
func NewEmbedder() *Embedder {
	return &Embedder{MaxFeatures: 1000, NGramMin: 1, NGramMax: 3}
}

// FitTransform builds a vocabulary from texts and returns one weight vector
// per text. All vectors share the same dimensionality.
func (e *Embedder) FitTransform(texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, errors.InvalidInput("texts list cannot be empty")
	}

	docTerms := make([][]string, len(texts))
	for i, text := range texts {
		docTerms[i] = e.extractTerms(text)
	}

	vocab := e.buildVocabulary(docTerms)
	if len(vocab) == 0 {
		return nil, errors.InsufficientData("corpus produced an empty vocabulary")
	}

	// document frequency per vocabulary term
	df := make([]int, len(vocab))
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}
	for _, terms := range docTerms {
		seen := make(map[int]bool)
		for _, term := range terms {
			if i, ok := index[term]; ok && !seen[i] {
				df[i]++
				seen[i] = true
			}
		}
	}

	// smoothed idf
	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([][]float64, len(texts))
	for d, terms := range docTerms {
		vec := make([]float64, len(vocab))
		for _, term := range terms {
			if i, ok := index[term]; ok {
				vec[i]++
			}
		}
		for i := range vec {
			vec[i] *= idf[i]
		}
		if norm := floats.Norm(vec, 2); norm > 0 {
			floats.Scale(1/norm, vec)
		}
		vectors[d] = vec
	}
	return vectors, nil
}

// extractTerms tokenizes one text and expands tokens into n-grams.
func (e *Embedder) extractTerms(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	var terms []string
	for size := e.NGramMin; size <= e.NGramMax; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+size], " "))
		}
	}
	return terms
}

// buildVocabulary counts corpus term frequency and keeps the top
// MaxFeatures terms.
func (e *Embedder) buildVocabulary(docTerms [][]string) []string {
	counts := make(map[string]int)
	for _, terms := range docTerms {
		for _, term := range terms {
			counts[term]++
		}
	}

	vocab := make([]string, 0, len(counts))
	for term := range counts {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if counts[vocab[i]] != counts[vocab[j]] {
			return counts[vocab[i]] > counts[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})

	if e.MaxFeatures > 0 && len(vocab) > e.MaxFeatures {
		vocab = vocab[:e.MaxFeatures]
	}
	sort.Strings(vocab)
	return vocab
}
