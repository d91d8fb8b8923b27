package engine

import (
	"math"
	"strings"
	"unicode"
)

// Tokenize lowercases and splits on anything that is not a letter, digit or
// hyphen. It is deliberately cheap; no learned model is involved at this
// layer.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" && f != "-" {
			out = append(out, f)
		}
	}
	return out
}

// SplitSentences breaks text into sentence-level spans on terminal
// punctuation (Latin and CJK) and newlines.
func SplitSentences(s string) []string {
	var sentences []string
	var b strings.Builder
	flush := func() {
		sent := strings.TrimSpace(b.String())
		if sent != "" {
			sentences = append(sentences, sent)
		}
		b.Reset()
	}
	for _, r := range s {
		switch r {
		case '.', '!', '?', '。', '！', '？':
			b.WriteRune(r)
			flush()
		case '\n':
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return sentences
}

// TokenCosine is a token-set cosine similarity: |A∩B| / sqrt(|A|·|B|).
func TokenCosine(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	aset := toSet(a)
	bset := toSet(b)
	inter := 0
	for t := range aset {
		if _, ok := bset[t]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0
	}
	return float64(inter) / math.Sqrt(float64(len(aset))*float64(len(bset)))
}

// TermOverlap is the fraction of query terms present in the text.
func TermOverlap(query, text []string) float64 {
	if len(query) == 0 {
		return 0
	}
	qset := toSet(query)
	tset := toSet(text)
	inter := 0
	for t := range qset {
		if _, ok := tset[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(qset))
}

// TextSimilarity compares two free-text strings by token-set cosine. Used
// for duplicate question suppression.
func TextSimilarity(a, b string) float64 {
	return TokenCosine(Tokenize(a), Tokenize(b))
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
