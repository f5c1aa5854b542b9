package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
	"github.com/jhpark-lab/career-coach/internal/core/ports"
)

// RelevanceEvaluator scores every retrieved chunk against the question via
// the oracle, one blocking call per chunk, then filters and caps the set.
type RelevanceEvaluator struct {
	oracle   ports.RelevanceOracle
	policy   domain.RetrievalPolicy
	logger   *slog.Logger
	observer PipelineObserver
}

func NewRelevanceEvaluator(oracle ports.RelevanceOracle, policy domain.RetrievalPolicy, logger *slog.Logger, observer PipelineObserver) *RelevanceEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &RelevanceEvaluator{
		oracle:   oracle,
		policy:   policy.Normalize(),
		logger:   logger,
		observer: observer,
	}
}

// Evaluate returns the final chunk set, descending by eval score. Chunks
// below the minimum-relevance threshold are dropped; when that leaves
// nothing, the top scored chunks are kept unfiltered so generation is never
// starved of context. The set is capped at the policy's final size.
//
// Oracle failures (transport or parse) degrade to the domain's neutral
// default score; they never abort the request.
func (e *RelevanceEvaluator) Evaluate(ctx context.Context, question string, chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) == 0 {
		return nil
	}

	scored := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		verdict := e.scoreOne(ctx, question, chunk)
		chunk.EvalScore = verdict.Score
		chunk.EvalReason = verdict.Reason
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].EvalScore > scored[j].EvalScore
	})

	relevant := scored[:0:0]
	for _, chunk := range scored {
		if chunk.EvalScore >= e.policy.MinRelevance {
			relevant = append(relevant, chunk)
		}
	}
	if len(relevant) == 0 {
		// Nothing cleared the bar; fall back to the best-scored chunks
		// rather than handing the generator an empty context.
		relevant = scored
	}

	if len(relevant) > e.policy.FinalCap {
		relevant = relevant[:e.policy.FinalCap]
	}
	return relevant
}

func (e *RelevanceEvaluator) scoreOne(ctx context.Context, question string, chunk domain.Chunk) domain.RelevanceVerdict {
	raw, err := e.oracle.ScoreChunk(ctx, question, chunk.Content)
	if err != nil {
		e.logger.Warn("relevance_oracle_call_failed", "doc_id", chunk.DocID, "error", err)
		return domain.RelevanceVerdict{
			Score:  e.policy.ParseFailureScore,
			Reason: "oracle call failed",
		}
	}

	verdict, ok := parseScored(raw)
	if !ok {
		e.observer.OracleParseFailure("evaluate")
		e.logger.Warn("relevance_verdict_unparseable", "doc_id", chunk.DocID, "raw", truncate(raw, 200))
		return domain.RelevanceVerdict{
			Score:  e.policy.ParseFailureScore,
			Reason: "parse failure: oracle output not recognized",
		}
	}
	verdict.Score = clamp(verdict.Score, 0, 1)
	return verdict
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
