package similarity

import (
	"context"
	"strings"
	"unicode"
)

// LexicalScorer compares bag-of-words term frequencies. It needs no model and
// is used when no embedding endpoint is configured.
type LexicalScorer struct{}

// Name implements Scorer.
func (LexicalScorer) Name() string { return "lexical" }

// Score implements Scorer.
func (LexicalScorer) Score(_ context.Context, a, b string) (float64, error) {
	ta, tb := termFreq(a), termFreq(b)

	vocab := make(map[string]int, len(ta)+len(tb))
	for t := range ta {
		vocab[t] = len(vocab)
	}
	for t := range tb {
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}

	va := make([]float64, len(vocab))
	vb := make([]float64, len(vocab))
	for t, i := range vocab {
		va[i] = ta[t]
		vb[i] = tb[t]
	}
	return toScore(cosine(va, vb)), nil
}

func termFreq(s string) map[string]float64 {
	tf := map[string]float64{}
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		tf[tok]++
	}
	return tf
}
