package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// Intent classification is deliberately deterministic: a binary decision
// with enumerable surface patterns does not warrant an oracle round-trip.

var recommendationPatterns = compilePatterns([]string{
	`질문.*추천`,
	`추천.*질문`,
	`어떤.*질문`,
	`질문.*알려`,
	`알려.*질문`,
	`예상.*질문`,
	`질문.*목록`,
	`면접.*예상`,
	`물어본다`,
	`물어볼`,
	`나오는.*질문`,
})

var feedbackPatterns = compilePatterns([]string{
	`어떻게.*대답`,
	`대답.*방법`,
	`답변.*하`,
	`말하면`,
	`어떻게.*하면`,
	`하는.*방법`,
	`하는.*게`,
	`좋은.*대답`,
	`적절한.*답변`,
	`조언`,
})

var (
	koreanWordRe  = regexp.MustCompile(`[가-힣]{2,}`)
	englishWordRe = regexp.MustCompile(`[A-Z][a-zA-Z]+|[a-z]{2,}`)
)

// keywordStopwords drops question scaffolding that never narrows a search.
var keywordStopwords = map[string]struct{}{
	"면접": {}, "질문": {}, "대답": {}, "주세요": {}, "알려": {}, "추천": {}, "하면": {}, "어떻게": {},
	"interview": {}, "question": {}, "answer": {},
}

const maxExtractedKeywords = 10

func compilePatterns(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// ClassifyQueryIntent decides between question recommendation and answer
// feedback for interview-domain questions, and extracts the keyword set that
// drives metadata filtering on the recommendation branch.
//
// Equal pattern scores default to the feedback branch. That tie-break is a
// preserved policy choice, not a derived necessity.
func ClassifyQueryIntent(question string) (domain.QueryIntent, []string, string) {
	recommendationScore := countMatches(question, recommendationPatterns)
	feedbackScore := countMatches(question, feedbackPatterns)

	switch {
	case recommendationScore > feedbackScore:
		keywords := ExtractKeywords(question)
		reason := fmt.Sprintf("question recommendation patterns matched (%d)", recommendationScore)
		return domain.IntentRecommendQuestions, keywords, reason
	case feedbackScore > recommendationScore:
		reason := fmt.Sprintf("answer feedback patterns matched (%d)", feedbackScore)
		return domain.IntentAnswerFeedback, nil, reason
	default:
		return domain.IntentAnswerFeedback, nil, "no decisive pattern, defaulting to answer feedback"
	}
}

func countMatches(question string, patterns []*regexp.Regexp) int {
	matched := 0
	for _, p := range patterns {
		if p.MatchString(question) {
			matched++
		}
	}
	return matched
}

// ExtractKeywords pulls at most 10 search-driving keywords from the
// question: known vocabulary terms first, then remaining Korean and English
// words minus stopwords. Order is deterministic (vocabulary order, then
// position in the question).
func ExtractKeywords(text string) []string {
	keywords := make([]string, 0, maxExtractedKeywords)
	seen := make(map[string]struct{})
	lowered := strings.ToLower(text)

	add := func(word string) {
		if len(keywords) >= maxExtractedKeywords {
			return
		}
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			return
		}
		if _, stop := keywordStopwords[key]; stop {
			return
		}
		seen[key] = struct{}{}
		keywords = append(keywords, word)
	}

	for _, vocab := range [][]vocabEntry{occupationVocab, intentVocab} {
		for _, entry := range vocab {
			for _, term := range entry.Terms {
				if strings.Contains(lowered, strings.ToLower(term)) {
					add(term)
				}
			}
		}
	}

	for _, word := range koreanWordRe.FindAllString(text, -1) {
		add(word)
	}
	for _, word := range englishWordRe.FindAllString(text, -1) {
		add(word)
	}
	return keywords
}
