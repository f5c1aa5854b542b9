package usecase

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// The oracles are asked for a strict JSON object but regularly answer with
// fenced code blocks, leading prose, or no JSON at all. Parsing therefore
// runs an ordered fallback chain and always resolves to a verdict: raw JSON,
// then fenced-block extraction, then brace slicing, then regex recovery,
// then the caller's default. Nothing in this file ever returns an error.

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	scoreFieldRe  = regexp.MustCompile(`(?i)"?score"?\s*[:=]\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	reasonFieldRe = regexp.MustCompile(`(?i)"?(?:reason|comment)"?\s*[:=]\s*"([^"]*)"`)
	bareReasonRe  = regexp.MustCompile(`(?i)"?(?:reason|comment)"?\s*[:=]\s*([^\n",}]+)`)
)

// ParseVerdict recovers a relevance verdict from raw oracle output,
// clamping the score to [0,1]. fallbackScore is the domain's neutral default
// used when no score can be recovered at all.
func ParseVerdict(raw string, fallbackScore float64) domain.RelevanceVerdict {
	if verdict, ok := parseScored(raw); ok {
		verdict.Score = clamp(verdict.Score, 0, 1)
		return verdict
	}
	return domain.RelevanceVerdict{
		Score:  clamp(fallbackScore, 0, 1),
		Reason: "parse failure: oracle output not recognized",
	}
}

// ParseVerification recovers an answer-verification result; the verifier
// rubric is a 0..100 scale.
func ParseVerification(raw string) domain.AnswerVerification {
	if verdict, ok := parseScored(raw); ok {
		return domain.AnswerVerification{
			Score:   clamp(verdict.Score, 0, 100),
			Comment: verdict.Reason,
		}
	}
	return domain.AnswerVerification{Score: 0, Comment: "parse failure: verifier output not recognized"}
}

func parseScored(raw string) (domain.RelevanceVerdict, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.RelevanceVerdict{}, false
	}

	if verdict, ok := unmarshalVerdict(raw); ok {
		return verdict, true
	}
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		if verdict, ok := unmarshalVerdict(m[1]); ok {
			return verdict, true
		}
	}
	if inner := braceSlice(raw); inner != "" {
		if verdict, ok := unmarshalVerdict(inner); ok {
			return verdict, true
		}
	}
	return regexVerdict(raw)
}

func unmarshalVerdict(raw string) (domain.RelevanceVerdict, bool) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.RelevanceVerdict{}, false
	}
	score, ok := coerceFloat(payload["score"])
	if !ok {
		return domain.RelevanceVerdict{}, false
	}
	reason, _ := payload["reason"].(string)
	if reason == "" {
		reason, _ = payload["comment"].(string)
	}
	return domain.RelevanceVerdict{Score: score, Reason: reason}, true
}

func regexVerdict(raw string) (domain.RelevanceVerdict, bool) {
	m := scoreFieldRe.FindStringSubmatch(raw)
	if m == nil {
		return domain.RelevanceVerdict{}, false
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.RelevanceVerdict{}, false
	}

	reason := ""
	if rm := reasonFieldRe.FindStringSubmatch(raw); rm != nil {
		reason = strings.TrimSpace(rm[1])
	} else if rm := bareReasonRe.FindStringSubmatch(raw); rm != nil {
		reason = strings.TrimSpace(rm[1])
	}
	return domain.RelevanceVerdict{Score: score, Reason: reason}, true
}

// braceSlice cuts the outermost {...} span out of surrounding prose.
func braceSlice(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
