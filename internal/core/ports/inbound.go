package ports

import (
	"context"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// CoachService is the inbound contract for the question-answering pipeline.
type CoachService interface {
	Chat(ctx context.Context, userProfile, question string) (*domain.ChatResult, error)
}
