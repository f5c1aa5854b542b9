package domain

// Chunk is one retrieved unit of corpus text. Distance is the raw vector
// distance from the store (lower = closer); EvalScore/EvalReason are filled
// in by the relevance evaluator after retrieval.
type Chunk struct {
	DocID      string            `json:"doc_id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Distance   float64           `json:"distance"`
	EvalScore  float64           `json:"eval_score,omitempty"`
	EvalReason string            `json:"eval_reason,omitempty"`
}

// FilterSpec is a set of ANDed equality predicates on chunk metadata.
// An empty spec means unrestricted, full-corpus search.
type FilterSpec map[string]string

const (
	FilterOccupation     = "occupation"
	FilterQuestionIntent = "question_intent"
)

// RelevanceVerdict is the evaluator's judgement for one (question, chunk)
// pair. Score is always within [0,1].
type RelevanceVerdict struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type Category string

const (
	CategoryInterview Category = "interview"
	CategoryCollege   Category = "college"
	CategoryUnrelated Category = "unrelated"
)

type QueryIntent string

const (
	IntentRecommendQuestions QueryIntent = "question_recommendation"
	IntentAnswerFeedback     QueryIntent = "answer_feedback"
)

// AnswerVerification is the post-generation check comparing the final answer
// against the original question. Score is on a 0..100 scale.
type AnswerVerification struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}
