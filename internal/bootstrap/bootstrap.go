package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/jhpark-lab/career-coach/internal/config"
	"github.com/jhpark-lab/career-coach/internal/core/domain"
	"github.com/jhpark-lab/career-coach/internal/core/ports"
	"github.com/jhpark-lab/career-coach/internal/core/usecase"
	"github.com/jhpark-lab/career-coach/internal/infrastructure/llm/ollama"
	"github.com/jhpark-lab/career-coach/internal/infrastructure/llm/openai"
	"github.com/jhpark-lab/career-coach/internal/infrastructure/resilience"
	"github.com/jhpark-lab/career-coach/internal/infrastructure/vector/pgvector"
	"github.com/jhpark-lab/career-coach/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.ServerMetrics
	Coach   ports.CoachService

	closeFn func()
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := pgvector.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	interviewStore := pgvector.NewInterviewStore(db)
	collegeStore := pgvector.NewCollegeStore(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		ResilienceExecutor: executor,
	})
	classifier := ollama.NewClassifier(ollamaClient)
	rewriter := ollama.NewRewriter(ollamaClient)
	embedder := ollama.NewEmbedder(ollamaClient)

	openaiClient := openai.New(cfg.OpenAIAPIKey, openai.Options{
		EvalModel:          cfg.OpenAIEvalModel,
		GenModel:           cfg.OpenAIGenModel,
		VerifyModel:        cfg.OpenAIVerifyModel,
		EvalTemperature:    cfg.OpenAIEvalTemp,
		GenTemperature:     cfg.OpenAIGenTemp,
		RequestsPerSecond:  cfg.OpenAIRatePerSec,
		Burst:              cfg.OpenAIRateBurst,
		ResilienceExecutor: executor,
	})
	oracle := openai.NewOracle(openaiClient)
	generator := openai.NewGenerator(openaiClient)
	verifier := openai.NewVerifier(openaiClient)

	serverMetrics := metrics.NewServerMetrics("api")

	interviewPolicy := domain.RetrievalPolicy{
		TopK:               cfg.RetrievalTopK,
		OversampleFactor:   cfg.OversampleFactor,
		DuplicateThreshold: cfg.DuplicateThreshold,
		MinRelevance:       cfg.InterviewMinRelevance,
		ProceedThreshold:   cfg.ProceedThreshold,
		ParseFailureScore:  cfg.InterviewParseDefault,
		FinalCap:           cfg.InterviewFinalCap,
		MaxRetries:         cfg.MaxRewriteRetries,
	}
	collegePolicy := domain.RetrievalPolicy{
		TopK:               cfg.RetrievalTopK,
		OversampleFactor:   cfg.OversampleFactor,
		DuplicateThreshold: cfg.DuplicateThreshold,
		MinRelevance:       cfg.CollegeMinRelevance,
		ProceedThreshold:   cfg.ProceedThreshold,
		ParseFailureScore:  cfg.CollegeParseDefault,
		FinalCap:           cfg.CollegeFinalCap,
		MaxRetries:         cfg.MaxRewriteRetries,
	}

	workflow := usecase.NewWorkflow(usecase.WorkflowDeps{
		Classifier: classifier,
		Rewriter:   rewriter,
		Oracle:     oracle,
		Generator:  generator,
		Verifier:   verifier,

		Embedder:       embedder,
		InterviewStore: interviewStore,
		CollegeStore:   collegeStore,

		InterviewPolicy: interviewPolicy,
		CollegePolicy:   collegePolicy,

		Logger:   logger,
		Observer: serverMetrics,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: serverMetrics,
		Coach:   workflow,

		closeFn: func() {
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
