package ports

import (
	"context"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// Embedder builds a query vector for similarity search.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher performs nearest-neighbor search over one corpus.
// Results come back in ascending distance order, at most k entries.
// An empty filter means unrestricted search; excludeDocIDs drops rows whose
// stable document id was already accepted by the caller.
type VectorSearcher interface {
	Search(ctx context.Context, queryVector []float32, k int, filter domain.FilterSpec, excludeDocIDs []string) ([]domain.Chunk, error)
	SearchWithScore(ctx context.Context, queryVector []float32, k int) ([]domain.Chunk, error)
}

// DomainClassifier maps (user profile, question) onto the closed category
// set. Implementations must return CategoryUnrelated rather than guessing.
type DomainClassifier interface {
	ClassifyDomain(ctx context.Context, userProfile, question string) (domain.Category, error)
}

// QueryRewriter refines the user question into a retrieval-friendly query.
type QueryRewriter interface {
	Rewrite(ctx context.Context, userProfile string, category domain.Category, question string) (string, error)
}

// RelevanceOracle scores one (question, chunk) pair. The raw model output is
// returned untouched; the evaluator owns the defensive parsing.
type RelevanceOracle interface {
	ScoreChunk(ctx context.Context, question, chunkContent string) (string, error)
}

// AnswerGenerator produces the final user-facing answer from the accepted
// chunk set.
type AnswerGenerator interface {
	GenerateInterview(ctx context.Context, question string, intent domain.QueryIntent, dominantIntent string, chunks []domain.Chunk) (string, error)
	GenerateCollege(ctx context.Context, question string, chunks []domain.Chunk) (string, error)
}

// AnswerVerifier compares question and generated answer. Raw model output,
// parsed defensively by the caller; verification never fails a request.
type AnswerVerifier interface {
	VerifyAnswer(ctx context.Context, question, answer string) (string, error)
}
