package usecase

import (
	"strings"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// matchVocabulary returns the first code whose terms hit any of the
// keywords. A term hits when the keyword equals it or contains it,
// case-insensitively; the first keyword that hits wins, no scoring across
// candidates.
func matchVocabulary(keywords []string, vocab []vocabEntry) string {
	for _, keyword := range keywords {
		lowered := strings.ToLower(keyword)
		for _, entry := range vocab {
			for _, term := range entry.Terms {
				t := strings.ToLower(term)
				if lowered == t || strings.Contains(lowered, t) {
					return entry.Code
				}
			}
		}
	}
	return ""
}

// PlanFilterCascade turns extracted keywords into an ordered list of filter
// specs, most to least restrictive. Preserving the occupation match is
// valued over preserving the intent match when only one can be kept; the
// unconditional empty filter terminates every cascade.
func PlanFilterCascade(keywords []string) []domain.FilterSpec {
	occupation := matchVocabulary(keywords, occupationVocab)
	intent := matchVocabulary(keywords, intentVocab)

	cascade := make([]domain.FilterSpec, 0, 4)
	if occupation != "" && intent != "" {
		cascade = append(cascade, domain.FilterSpec{
			domain.FilterOccupation:     occupation,
			domain.FilterQuestionIntent: intent,
		})
	}
	if occupation != "" {
		cascade = append(cascade, domain.FilterSpec{domain.FilterOccupation: occupation})
	}
	if intent != "" {
		cascade = append(cascade, domain.FilterSpec{domain.FilterQuestionIntent: intent})
	}
	cascade = append(cascade, domain.FilterSpec{})
	return cascade
}
