package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
	"github.com/jhpark-lab/career-coach/internal/core/ports"
)

// State names one step of the answering pipeline. The orchestrator is an
// explicit finite-state machine: an enumerated state set, a transition
// function per state, and pure routing predicates for the conditional
// edges, so the retry/threshold logic is unit-testable in isolation.
type State string

const (
	StateClassify       State = "classify"
	StateClassifyIntent State = "classify_intent"
	StateRetrieve       State = "retrieve"
	StateEvaluate       State = "evaluate"
	StateRewrite        State = "rewrite"
	StateGenerate       State = "generate"
	StateVerify         State = "verify"
	StateFallback       State = "fallback"
	StateEnd            State = "end"
)

// fallbackAnswer is the user-visible degradation: the pipeline always
// answers with text, never with a raw error.
const fallbackAnswer = "죄송합니다. 질문에 대한 충분한 자료를 찾지 못했습니다. " +
	"질문을 조금 더 구체적으로 작성해 주시면 다시 도와드리겠습니다."

// branch bundles the per-domain retrieval/evaluation pair with its policy.
type branch struct {
	retriever *Retriever
	evaluator *RelevanceEvaluator
	policy    domain.RetrievalPolicy
}

// Workflow sequences classification, retrieval, evaluation, bounded
// query-rewrite retries, generation and verification for one request.
// Execution is strictly sequential; every stage is a blocking call.
type Workflow struct {
	classifier ports.DomainClassifier
	rewriter   ports.QueryRewriter
	generator  ports.AnswerGenerator
	verifier   ports.AnswerVerifier

	interview branch
	college   branch

	logger   *slog.Logger
	observer PipelineObserver
}

type WorkflowDeps struct {
	Classifier ports.DomainClassifier
	Rewriter   ports.QueryRewriter
	Oracle     ports.RelevanceOracle
	Generator  ports.AnswerGenerator
	Verifier   ports.AnswerVerifier

	Embedder       ports.Embedder
	InterviewStore ports.VectorSearcher
	CollegeStore   ports.VectorSearcher

	InterviewPolicy domain.RetrievalPolicy
	CollegePolicy   domain.RetrievalPolicy

	Logger   *slog.Logger
	Observer PipelineObserver
}

func NewWorkflow(deps WorkflowDeps) *Workflow {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := deps.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	interviewPolicy := deps.InterviewPolicy.Normalize()
	collegePolicy := deps.CollegePolicy.Normalize()

	return &Workflow{
		classifier: deps.Classifier,
		rewriter:   deps.Rewriter,
		generator:  deps.Generator,
		verifier:   deps.Verifier,
		interview: branch{
			retriever: NewRetriever(deps.Embedder, deps.InterviewStore, interviewPolicy, logger, observer),
			evaluator: NewRelevanceEvaluator(deps.Oracle, interviewPolicy, logger, observer),
			policy:    interviewPolicy,
		},
		college: branch{
			retriever: NewRetriever(deps.Embedder, deps.CollegeStore, collegePolicy, logger, observer),
			evaluator: NewRelevanceEvaluator(deps.Oracle, collegePolicy, logger, observer),
			policy:    collegePolicy,
		},
		logger:   logger,
		observer: observer,
	}
}

// maxTransitions bounds the state loop; the retry budget keeps real runs far
// below it.
const maxTransitions = 32

// Chat runs the full pipeline for one question.
func (w *Workflow) Chat(ctx context.Context, userProfile, question string) (*domain.ChatResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat", fmt.Errorf("question is required"))
	}

	state := domain.NewConversationState(strings.TrimSpace(userProfile), strings.TrimSpace(question))
	current := StateClassify

	for i := 0; current != StateEnd; i++ {
		if i >= maxTransitions {
			return nil, fmt.Errorf("state machine exceeded %d transitions", maxTransitions)
		}

		started := time.Now()
		next, err := w.step(ctx, current, state)
		w.observer.StageCompleted(string(current), time.Since(started).Seconds())
		if err != nil {
			w.observer.RequestCompleted(string(state.Category), "error")
			return nil, err
		}
		w.logger.Debug("state_transition", "from", string(current), "to", string(next), "retries", state.RetryCount)
		current = next
	}

	outcome := "answered"
	if state.FellBack {
		outcome = "fallback"
	}
	w.observer.RequestCompleted(string(state.Category), outcome)

	return &domain.ChatResult{
		Answer:       state.Answer,
		Category:     state.Category,
		Intent:       state.Intent,
		Chunks:       state.FinalChunks,
		Verification: state.Verification,
		Retries:      state.RetryCount,
		FellBack:     state.FellBack,
	}, nil
}

func (w *Workflow) step(ctx context.Context, current State, state *domain.ConversationState) (State, error) {
	switch current {
	case StateClassify:
		return w.stepClassify(ctx, state), nil
	case StateClassifyIntent:
		return w.stepClassifyIntent(state), nil
	case StateRetrieve:
		return w.stepRetrieve(ctx, state)
	case StateEvaluate:
		return w.stepEvaluate(ctx, state), nil
	case StateRewrite:
		return w.stepRewrite(ctx, state), nil
	case StateGenerate:
		return w.stepGenerate(ctx, state), nil
	case StateVerify:
		return w.stepVerify(ctx, state), nil
	case StateFallback:
		return w.stepFallback(state), nil
	default:
		return StateEnd, fmt.Errorf("unknown state %q", current)
	}
}

func (w *Workflow) stepClassify(ctx context.Context, state *domain.ConversationState) State {
	category, err := w.classifier.ClassifyDomain(ctx, state.UserProfile, state.Question)
	if err != nil {
		// Classification failure degrades to the fallback answer instead of
		// failing the request.
		w.logger.Warn("domain_classification_failed", "error", err)
		state.Category = domain.CategoryUnrelated
		return StateFallback
	}
	state.Category = category

	switch category {
	case domain.CategoryInterview:
		return StateClassifyIntent
	case domain.CategoryCollege:
		return StateRetrieve
	default:
		return StateFallback
	}
}

func (w *Workflow) stepClassifyIntent(state *domain.ConversationState) State {
	intent, keywords, reason := ClassifyQueryIntent(state.Question)
	state.Intent = intent
	state.Keywords = keywords
	state.IntentReason = reason
	w.logger.Info("query_intent_classified", "intent", string(intent), "keywords", keywords, "reason", reason)
	return StateRetrieve
}

func (w *Workflow) stepRetrieve(ctx context.Context, state *domain.ConversationState) (State, error) {
	br := w.branchFor(state.Category)
	question := state.ActiveQuestion()

	var (
		chunks []domain.Chunk
		err    error
	)
	if state.Category == domain.CategoryInterview &&
		state.Intent == domain.IntentRecommendQuestions &&
		len(state.Keywords) > 0 {
		chunks, err = br.retriever.RetrieveFiltered(ctx, question, state.Keywords)
	} else {
		chunks, err = br.retriever.Retrieve(ctx, question)
	}
	if err != nil {
		return StateEnd, err
	}

	state.Chunks = chunks
	w.logger.Info("chunks_retrieved", "category", string(state.Category), "count", len(chunks), "retries", state.RetryCount)
	return StateEvaluate, nil
}

func (w *Workflow) stepEvaluate(ctx context.Context, state *domain.ConversationState) State {
	br := w.branchFor(state.Category)
	state.FinalChunks = br.evaluator.Evaluate(ctx, state.ActiveQuestion(), state.Chunks)
	next := routeAfterEvaluate(state.TopEvalScore(), state.RetryCount, br.policy)
	w.logger.Info("chunks_evaluated",
		"category", string(state.Category),
		"final_count", len(state.FinalChunks),
		"top_score", state.TopEvalScore(),
		"next", string(next),
	)
	return next
}

// routeAfterEvaluate is the conditional edge after evaluation: proceed to
// generation when the best chunk clears the domain threshold, otherwise
// spend the retry budget on a query rewrite, otherwise give up.
func routeAfterEvaluate(topScore float64, retryCount int, policy domain.RetrievalPolicy) State {
	if topScore >= policy.ProceedThreshold {
		return StateGenerate
	}
	if retryCount >= policy.MaxRetries {
		return StateFallback
	}
	return StateRewrite
}

func (w *Workflow) stepRewrite(ctx context.Context, state *domain.ConversationState) State {
	state.RetryCount++
	w.observer.RetryOccurred(string(state.Category))

	rewritten, err := w.rewriter.Rewrite(ctx, state.UserProfile, state.Category, state.Question)
	if err != nil || strings.TrimSpace(rewritten) == "" {
		// Rewrite failures retry retrieval with the original question.
		w.logger.Warn("query_rewrite_failed", "error", err)
		return StateRetrieve
	}
	state.RewrittenQuestion = strings.TrimSpace(rewritten)
	w.logger.Info("query_rewritten", "rewritten", state.RewrittenQuestion)
	return StateRetrieve
}

func (w *Workflow) stepGenerate(ctx context.Context, state *domain.ConversationState) State {
	var (
		answer string
		err    error
	)
	switch state.Category {
	case domain.CategoryInterview:
		answer, err = w.generator.GenerateInterview(
			ctx,
			state.ActiveQuestion(),
			state.Intent,
			dominantQuestionIntent(state.FinalChunks),
			state.FinalChunks,
		)
	default:
		answer, err = w.generator.GenerateCollege(ctx, state.ActiveQuestion(), state.FinalChunks)
	}
	if err != nil || strings.TrimSpace(answer) == "" {
		w.logger.Error("answer_generation_failed", "category", string(state.Category), "error", err)
		return StateFallback
	}
	state.Answer = strings.TrimSpace(answer)
	return StateVerify
}

func (w *Workflow) stepVerify(ctx context.Context, state *domain.ConversationState) State {
	raw, err := w.verifier.VerifyAnswer(ctx, state.Question, state.Answer)
	if err != nil {
		// Verification is advisory; a failed check never fails the request.
		w.logger.Warn("answer_verification_failed", "error", err)
		return StateEnd
	}
	verification := ParseVerification(raw)
	state.Verification = &verification
	return StateEnd
}

func (w *Workflow) stepFallback(state *domain.ConversationState) State {
	state.Answer = fallbackAnswer
	state.FellBack = true
	return StateEnd
}

func (w *Workflow) branchFor(category domain.Category) branch {
	if category == domain.CategoryCollege {
		return w.college
	}
	return w.interview
}

// dominantQuestionIntent returns the plurality question_intent among the
// final chunks, used to steer interview generation toward the corpus's own
// question typing.
func dominantQuestionIntent(chunks []domain.Chunk) string {
	counts := make(map[string]int)
	best := ""
	for _, chunk := range chunks {
		intent := chunk.Metadata[domain.FilterQuestionIntent]
		if intent == "" {
			continue
		}
		counts[intent]++
		if best == "" || counts[intent] > counts[best] {
			best = intent
		}
	}
	return best
}
