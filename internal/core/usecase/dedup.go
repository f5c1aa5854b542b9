package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// Deduplicator rejects candidates that duplicate an already-accepted chunk,
// either by stable document id or by near-duplicate text. The corpus holds
// many paraphrased variants of the same Q&A pair, so an identity check alone
// under-deduplicates.
type Deduplicator struct {
	threshold float64
}

func NewDeduplicator(threshold float64) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.55
	}
	return &Deduplicator{threshold: threshold}
}

// Accept reports whether candidate may join the accepted set. Accepted items
// are never re-evaluated or evicted within a request, so the decision is a
// pure function of (candidate, accepted).
func (d *Deduplicator) Accept(candidate domain.Chunk, accepted []domain.Chunk) bool {
	for _, prev := range accepted {
		if candidate.DocID != "" && candidate.DocID == prev.DocID {
			return false
		}
		if textSimilarity(candidate.Content, prev.Content) > d.threshold {
			return false
		}
	}
	return true
}

// textSimilarity is a symmetric character-level ratio in [0,1] built on the
// longest common subsequence: 2*LCS / (len(a)+len(b)), the same shape as
// difflib-style sequence matching.
func textSimilarity(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}
	lcs := edlib.LCS(a, b)
	return 2 * float64(lcs) / float64(la+lb)
}
