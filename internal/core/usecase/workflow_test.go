package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

type fakeClassifier struct {
	category domain.Category
	err      error
}

func (f *fakeClassifier) ClassifyDomain(context.Context, string, string) (domain.Category, error) {
	return f.category, f.err
}

type fakeRewriter struct {
	out   string
	err   error
	calls int
}

func (f *fakeRewriter) Rewrite(context.Context, string, domain.Category, string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeGenerator struct {
	interviewAnswer string
	collegeAnswer   string
	err             error

	gotIntent   domain.QueryIntent
	gotDominant string
	gotChunks   []domain.Chunk
}

func (f *fakeGenerator) GenerateInterview(_ context.Context, _ string, intent domain.QueryIntent, dominantIntent string, chunks []domain.Chunk) (string, error) {
	f.gotIntent = intent
	f.gotDominant = dominantIntent
	f.gotChunks = chunks
	return f.interviewAnswer, f.err
}

func (f *fakeGenerator) GenerateCollege(_ context.Context, _ string, chunks []domain.Chunk) (string, error) {
	f.gotChunks = chunks
	return f.collegeAnswer, f.err
}

type fakeVerifier struct {
	raw string
	err error
}

func (f *fakeVerifier) VerifyAnswer(context.Context, string, string) (string, error) {
	return f.raw, f.err
}

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type fakeStore struct {
	chunks []domain.Chunk
	err    error

	filteredCalls  []domain.FilterSpec
	withScoreCalls int
}

func (f *fakeStore) Search(_ context.Context, _ []float32, _ int, filter domain.FilterSpec, excludeDocIDs []string) ([]domain.Chunk, error) {
	f.filteredCalls = append(f.filteredCalls, filter)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Chunk, 0, len(f.chunks))
	for _, chunk := range f.chunks {
		excluded := false
		for _, id := range excludeDocIDs {
			if chunk.DocID == id {
				excluded = true
			}
		}
		if !excluded {
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchWithScore(context.Context, []float32, int) ([]domain.Chunk, error) {
	f.withScoreCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

func interviewCorpus() []domain.Chunk {
	return []domain.Chunk{
		{DocID: "d1", Content: "[질문] 리더십을 발휘한 경험을 말해 주세요\n\n[답변] 신규 서비스 런칭에서 팀 일정을 조율하며 출시를 이끌었습니다", Metadata: map[string]string{"question_intent": "leadership_ownership"}},
		{DocID: "d2", Content: "[질문] 동료와의 갈등을 어떻게 해결했나요\n\n[답변] 상대방의 관점을 먼저 듣고 절충안을 만들어 합의했습니다", Metadata: map[string]string{"question_intent": "leadership_ownership"}},
		{DocID: "d3", Content: "[질문] 우리 회사에 지원한 동기가 무엇인가요\n\n[답변] 커리어 데이터 기반의 서비스 방향에 공감했기 때문입니다", Metadata: map[string]string{"question_intent": "motivation_fit"}},
	}
}

func testPolicy() domain.RetrievalPolicy {
	return domain.RetrievalPolicy{
		TopK:               5,
		OversampleFactor:   5,
		DuplicateThreshold: 0.55,
		MinRelevance:       0.4,
		ProceedThreshold:   0.7,
		ParseFailureScore:  0.2,
		FinalCap:           3,
		MaxRetries:         1,
	}
}

func newTestWorkflow(deps WorkflowDeps) *Workflow {
	if deps.InterviewPolicy.TopK == 0 {
		deps.InterviewPolicy = testPolicy()
	}
	if deps.CollegePolicy.TopK == 0 {
		deps.CollegePolicy = testPolicy()
	}
	if deps.Embedder == nil {
		deps.Embedder = fakeEmbedder{}
	}
	return NewWorkflow(deps)
}

func TestChatInterviewRecommendationHappyPath(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	generator := &fakeGenerator{interviewAnswer: "추천 질문 목록입니다"}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryInterview},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{outputs: scoreAll(interviewCorpus(), 0.9)},
		Generator:      generator,
		Verifier:       &fakeVerifier{raw: `{"score": 90, "comment": "양호"}`},
		InterviewStore: store,
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "백엔드 취업 준비생", "백엔드 개발자 면접 예상 질문 추천해 주세요")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if result.Answer != "추천 질문 목록입니다" {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.Category != domain.CategoryInterview || result.Intent != domain.IntentRecommendQuestions {
		t.Errorf("category/intent = %v/%v", result.Category, result.Intent)
	}
	if result.FellBack || result.Retries != 0 {
		t.Errorf("FellBack = %v, Retries = %d", result.FellBack, result.Retries)
	}
	if result.Verification == nil || result.Verification.Score != 90 {
		t.Errorf("Verification = %+v", result.Verification)
	}
	if len(store.filteredCalls) == 0 {
		t.Fatalf("expected cascading filtered search for recommendation intent")
	}
	first := store.filteredCalls[0]
	if first[domain.FilterOccupation] != "ICT" {
		t.Errorf("first cascade step filter = %v", first)
	}
	if generator.gotIntent != domain.IntentRecommendQuestions {
		t.Errorf("generator intent = %v", generator.gotIntent)
	}
	if generator.gotDominant != "leadership_ownership" {
		t.Errorf("dominant intent = %q", generator.gotDominant)
	}
}

func TestChatFeedbackIntentUsesPlainRetrieval(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryInterview},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{outputs: scoreAll(interviewCorpus(), 0.8)},
		Generator:      &fakeGenerator{interviewAnswer: "피드백입니다"},
		Verifier:       &fakeVerifier{raw: `{"score": 80, "comment": "무난"}`},
		InterviewStore: store,
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "", "갈등 경험 질문에 어떻게 대답하면 좋을까요?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Intent != domain.IntentAnswerFeedback {
		t.Errorf("Intent = %v", result.Intent)
	}
	if store.withScoreCalls != 1 {
		t.Errorf("withScoreCalls = %d, want 1", store.withScoreCalls)
	}
	if len(store.filteredCalls) != 0 {
		t.Errorf("filteredCalls = %v, want none", store.filteredCalls)
	}
}

func TestChatRetriesOnceThenFallsBack(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	rewriter := &fakeRewriter{out: "재작성된 질문"}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryInterview},
		Rewriter:       rewriter,
		Oracle:         &scriptedOracle{outputs: scoreAll(interviewCorpus(), 0.2)},
		Generator:      &fakeGenerator{interviewAnswer: "호출되면 안 됨"},
		Verifier:       &fakeVerifier{},
		InterviewStore: store,
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "", "갈등 경험 질문에 어떻게 대답하면 좋을까요?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if !result.FellBack {
		t.Fatalf("expected fallback, got answer %q", result.Answer)
	}
	if result.Answer != fallbackAnswer {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.Retries != 1 {
		t.Errorf("Retries = %d, want 1", result.Retries)
	}
	if rewriter.calls != 1 {
		t.Errorf("rewriter calls = %d, want 1", rewriter.calls)
	}
	if result.Verification != nil {
		t.Errorf("fallback must not be verified, got %+v", result.Verification)
	}
}

func TestChatRewriteFailureRetriesWithOriginalQuestion(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryInterview},
		Rewriter:       &fakeRewriter{err: errors.New("rewriter down")},
		Oracle:         &scriptedOracle{outputs: scoreAll(interviewCorpus(), 0.2)},
		Generator:      &fakeGenerator{},
		Verifier:       &fakeVerifier{},
		InterviewStore: store,
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "", "갈등 경험 질문에 어떻게 대답하면 좋을까요?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.FellBack || result.Retries != 1 {
		t.Fatalf("FellBack = %v, Retries = %d", result.FellBack, result.Retries)
	}
	// First pass plus the post-rewrite retry.
	if store.withScoreCalls != 2 {
		t.Errorf("withScoreCalls = %d, want 2", store.withScoreCalls)
	}
}

func TestChatUnrelatedFallsBackWithoutRetrieval(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryUnrelated},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{},
		Generator:      &fakeGenerator{},
		Verifier:       &fakeVerifier{},
		InterviewStore: store,
		CollegeStore:   store,
	})

	result, err := workflow.Chat(context.Background(), "", "오늘 점심 뭐 먹을까?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.FellBack {
		t.Fatalf("expected fallback")
	}
	if store.withScoreCalls != 0 || len(store.filteredCalls) != 0 {
		t.Errorf("retrieval must not run for unrelated questions")
	}
}

func TestChatClassifierErrorFallsBack(t *testing.T) {
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{err: errors.New("ollama down")},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{},
		Generator:      &fakeGenerator{},
		Verifier:       &fakeVerifier{},
		InterviewStore: &fakeStore{},
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "", "아무 질문")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.FellBack {
		t.Fatalf("expected fallback on classifier failure")
	}
}

func TestChatCollegePath(t *testing.T) {
	collegeChunks := []domain.Chunk{
		{DocID: "m1", Content: "summary: 실용음악과는 보컬과 작곡 실기 중심의 교육과정을 운영한다"},
		{DocID: "m2", Content: "job: 음향 엔지니어, 공연 기획자 등 무대 제작 분야로 진출할 수 있다"},
	}
	store := &fakeStore{chunks: collegeChunks}
	generator := &fakeGenerator{collegeAnswer: "실용음악과를 추천합니다"}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryCollege},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{outputs: scoreAll(collegeChunks, 0.9)},
		Generator:      generator,
		Verifier:       &fakeVerifier{raw: `{"score": 88, "comment": "적절"}`},
		InterviewStore: &fakeStore{},
		CollegeStore:   store,
	})

	result, err := workflow.Chat(context.Background(), "고등학생", "노래를 좋아하는데 어떤 전공이 좋을까?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Category != domain.CategoryCollege {
		t.Errorf("Category = %v", result.Category)
	}
	if result.Answer != "실용음악과를 추천합니다" {
		t.Errorf("Answer = %q", result.Answer)
	}
	if store.withScoreCalls != 1 {
		t.Errorf("withScoreCalls = %d, want 1", store.withScoreCalls)
	}
}

func TestChatRetrievalErrorIsHardFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryCollege},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{},
		Generator:      &fakeGenerator{},
		Verifier:       &fakeVerifier{},
		InterviewStore: &fakeStore{},
		CollegeStore:   store,
	})

	_, err := workflow.Chat(context.Background(), "", "전공 추천해줘")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected retrieval kind, got %v", err)
	}
}

func TestChatGenerationFailureFallsBack(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryInterview},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{outputs: scoreAll(interviewCorpus(), 0.9)},
		Generator:      &fakeGenerator{err: errors.New("openai down")},
		Verifier:       &fakeVerifier{},
		InterviewStore: store,
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "", "갈등 경험 질문에 어떻게 대답하면 좋을까요?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.FellBack {
		t.Fatalf("expected fallback on generation failure")
	}
}

func TestChatVerificationFailureIsAdvisory(t *testing.T) {
	store := &fakeStore{chunks: interviewCorpus()}
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{category: domain.CategoryInterview},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{outputs: scoreAll(interviewCorpus(), 0.9)},
		Generator:      &fakeGenerator{interviewAnswer: "답변"},
		Verifier:       &fakeVerifier{err: errors.New("verifier down")},
		InterviewStore: store,
		CollegeStore:   &fakeStore{},
	})

	result, err := workflow.Chat(context.Background(), "", "갈등 경험 질문에 어떻게 대답하면 좋을까요?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Answer != "답변" || result.Verification != nil {
		t.Fatalf("Answer = %q, Verification = %+v", result.Answer, result.Verification)
	}
}

func TestChatRejectsEmptyQuestion(t *testing.T) {
	workflow := newTestWorkflow(WorkflowDeps{
		Classifier:     &fakeClassifier{},
		Rewriter:       &fakeRewriter{},
		Oracle:         &scriptedOracle{},
		Generator:      &fakeGenerator{},
		Verifier:       &fakeVerifier{},
		InterviewStore: &fakeStore{},
		CollegeStore:   &fakeStore{},
	})

	_, err := workflow.Chat(context.Background(), "프로필", "   ")
	if err == nil || !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestRouteAfterEvaluate(t *testing.T) {
	policy := testPolicy()
	tests := []struct {
		topScore float64
		retries  int
		want     State
	}{
		{0.9, 0, StateGenerate},
		{0.7, 1, StateGenerate},
		{0.5, 0, StateRewrite},
		{0.5, 1, StateFallback},
		{0, 0, StateRewrite},
	}
	for _, tt := range tests {
		if got := routeAfterEvaluate(tt.topScore, tt.retries, policy); got != tt.want {
			t.Errorf("routeAfterEvaluate(%v, %d) = %v, want %v", tt.topScore, tt.retries, got, tt.want)
		}
	}
}

func scoreAll(chunks []domain.Chunk, score float64) map[string]string {
	outputs := make(map[string]string, len(chunks))
	for _, chunk := range chunks {
		outputs[chunk.Content] = fmt.Sprintf(`{"score": %v, "reason": "scripted"}`, score)
	}
	return outputs
}
