package domain

// ConversationState is the mutable record threaded through the pipeline for
// one request. Created at request start, discarded at request end; nothing
// here survives across requests.
type ConversationState struct {
	Question          string
	RewrittenQuestion string
	UserProfile       string

	Category     Category
	Intent       QueryIntent
	Keywords     []string
	IntentReason string

	Chunks      []Chunk
	FinalChunks []Chunk

	RetryCount int

	Answer       string
	FellBack     bool
	Verification *AnswerVerification
}

func NewConversationState(userProfile, question string) *ConversationState {
	return &ConversationState{
		Question:    question,
		UserProfile: userProfile,
		Intent:      IntentAnswerFeedback,
	}
}

// ActiveQuestion is the query text the retrieval stages should use: the
// rewritten question once a rewrite happened, the raw question before that.
func (s *ConversationState) ActiveQuestion() string {
	if s.RewrittenQuestion != "" {
		return s.RewrittenQuestion
	}
	return s.Question
}

// TopEvalScore is the routing signal after evaluation. Zero when no chunk
// survived at all.
func (s *ConversationState) TopEvalScore() float64 {
	if len(s.FinalChunks) == 0 {
		return 0
	}
	return s.FinalChunks[0].EvalScore
}

// ChatResult is the user-facing outcome of one pipeline run.
type ChatResult struct {
	Answer       string              `json:"answer"`
	Category     Category            `json:"category"`
	Intent       QueryIntent         `json:"intent,omitempty"`
	Chunks       []Chunk             `json:"chunks"`
	Verification *AnswerVerification `json:"verification,omitempty"`
	Retries      int                 `json:"retries"`
	FellBack     bool                `json:"fell_back"`
}

// RetrievalPolicy is the per-domain tuning block for retrieval, dedup and
// evaluation. The two corpora deliberately keep separate thresholds.
type RetrievalPolicy struct {
	TopK               int
	OversampleFactor   int
	DuplicateThreshold float64
	MinRelevance       float64
	ProceedThreshold   float64
	ParseFailureScore  float64
	FinalCap           int
	MaxRetries         int
}

func (p RetrievalPolicy) Normalize() RetrievalPolicy {
	out := p
	if out.TopK <= 0 {
		out.TopK = 5
	}
	if out.OversampleFactor <= 0 {
		out.OversampleFactor = 5
	}
	if out.DuplicateThreshold <= 0 || out.DuplicateThreshold > 1 {
		out.DuplicateThreshold = 0.55
	}
	if out.MinRelevance <= 0 {
		out.MinRelevance = 0.4
	}
	if out.ProceedThreshold <= 0 {
		out.ProceedThreshold = 0.7
	}
	if out.ParseFailureScore <= 0 {
		out.ParseFailureScore = 0.5
	}
	if out.FinalCap <= 0 {
		out.FinalCap = 3
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 1
	}
	return out
}
