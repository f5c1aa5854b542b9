package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
	"github.com/jhpark-lab/career-coach/internal/core/ports"
)

// Retriever gathers a deduplicated candidate set from one corpus. Each
// search step oversamples by the policy factor to compensate for the
// near-duplicate removal that follows.
type Retriever struct {
	embedder ports.Embedder
	store    ports.VectorSearcher
	dedup    *Deduplicator
	policy   domain.RetrievalPolicy
	logger   *slog.Logger
	observer PipelineObserver
}

func NewRetriever(
	embedder ports.Embedder,
	store ports.VectorSearcher,
	policy domain.RetrievalPolicy,
	logger *slog.Logger,
	observer PipelineObserver,
) *Retriever {
	policy = policy.Normalize()
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		dedup:    NewDeduplicator(policy.DuplicateThreshold),
		policy:   policy,
		logger:   logger,
		observer: observer,
	}
}

// Retrieve runs a plain top-k nearest-neighbor search with near-duplicate
// suppression, surfacing raw vector distances.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.Chunk, error) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := r.store.SearchWithScore(ctx, vector, r.policy.TopK*r.policy.OversampleFactor)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "vector search", err)
	}
	return r.acceptUpTo(candidates, nil, r.policy.TopK), nil
}

// RetrieveFiltered runs the cascading metadata-filter search: the keyword
// cascade is walked most- to least-restrictive, each step asking only for
// what is still missing and excluding documents already accepted, until the
// target count is reached or the cascade ends at the unrestricted search.
func (r *Retriever) RetrieveFiltered(ctx context.Context, question string, keywords []string) ([]domain.Chunk, error) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	cascade := PlanFilterCascade(keywords)
	accepted := make([]domain.Chunk, 0, r.policy.TopK)
	depth := 0

	for _, filter := range cascade {
		if len(accepted) >= r.policy.TopK {
			break
		}
		depth++

		needed := r.policy.TopK - len(accepted)
		candidates, err := r.store.Search(ctx, vector, needed*r.policy.OversampleFactor, filter, docIDs(accepted))
		if err != nil {
			return nil, domain.WrapError(domain.ErrRetrieval, "filtered vector search", err)
		}
		accepted = r.acceptUpTo(candidates, accepted, r.policy.TopK)

		r.logger.Debug("cascade_step",
			"filter", map[string]string(filter),
			"accepted", len(accepted),
			"target", r.policy.TopK,
		)
	}

	r.observer.CascadeDepth(depth)
	return accepted, nil
}

func (r *Retriever) acceptUpTo(candidates, accepted []domain.Chunk, target int) []domain.Chunk {
	for _, candidate := range candidates {
		if len(accepted) >= target {
			break
		}
		if !r.dedup.Accept(candidate, accepted) {
			r.observer.DedupRejected()
			continue
		}
		accepted = append(accepted, candidate)
	}
	return accepted
}

func docIDs(chunks []domain.Chunk) []string {
	if len(chunks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.DocID != "" {
			ids = append(ids, chunk.DocID)
		}
	}
	return ids
}
