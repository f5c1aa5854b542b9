package openai

import (
	"context"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

// Oracle scores one (question, chunk) pair. It returns the model output raw;
// the evaluator owns the defensive parsing and the failure defaults.
type Oracle struct {
	client *Client
}

func NewOracle(client *Client) *Oracle {
	return &Oracle{client: client}
}

func (o *Oracle) ScoreChunk(ctx context.Context, question, chunkContent string) (string, error) {
	return o.client.complete(ctx, "openai.evaluate", o.client.evalModel, o.client.evalTemp,
		scoreSystemPrompt, buildScoreUserPrompt(question, chunkContent))
}

// Generator produces the final user-facing answer. Interview generation
// switches between question-recommendation and answer-feedback modes; the
// college mode is a plain context-grounded answer.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateInterview(ctx context.Context, question string, intent domain.QueryIntent, dominantIntent string, chunks []domain.Chunk) (string, error) {
	feedback := intent != domain.IntentRecommendQuestions
	system := buildInterviewRecommendSystemPrompt(dominantIntent)
	if feedback {
		system = buildInterviewFeedbackSystemPrompt(dominantIntent)
	}
	return g.client.complete(ctx, "openai.generate", g.client.genModel, g.client.genTemp,
		system, buildInterviewUserPrompt(question, dominantIntent, chunks, feedback))
}

func (g *Generator) GenerateCollege(ctx context.Context, question string, chunks []domain.Chunk) (string, error) {
	return g.client.complete(ctx, "openai.generate", g.client.genModel, g.client.genTemp,
		collegeSystemPrompt, buildCollegeUserPrompt(question, chunks))
}

// Verifier compares the final answer against the original question and
// returns the raw judgement JSON.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) VerifyAnswer(ctx context.Context, question, answer string) (string, error) {
	return v.client.complete(ctx, "openai.verify", v.client.verifyModel, 0,
		verifySystemPrompt, buildVerifyUserPrompt(question, answer))
}
