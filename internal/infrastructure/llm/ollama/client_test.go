package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

func newGenerateServer(t *testing.T, response string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if capture != nil {
			*capture, _ = payload["prompt"].(string)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}))
}

func TestClassifyDomainNormalizesLabels(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Category
	}{
		{"면접", domain.CategoryInterview},
		{" '면접' ", domain.CategoryInterview},
		{"대학진로", domain.CategoryCollege},
		{"무관", domain.CategoryUnrelated},
		{"잘 모르겠습니다", domain.CategoryUnrelated},
	}

	for _, tt := range tests {
		server := newGenerateServer(t, tt.raw, nil)
		classifier := NewClassifier(New(server.URL, "gen", "embed"))
		got, err := classifier.ClassifyDomain(context.Background(), "취업 준비생", "자기소개 어떻게 하나요?")
		server.Close()
		if err != nil {
			t.Fatalf("ClassifyDomain(%q) error = %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ClassifyDomain(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassifyPromptCarriesProfileAndQuestion(t *testing.T) {
	var prompt string
	server := newGenerateServer(t, "면접", &prompt)
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "gen", "embed"))
	_, err := classifier.ClassifyDomain(context.Background(), "백엔드 취업 준비생", "이직 면접 준비 어떻게 하나요?")
	if err != nil {
		t.Fatalf("ClassifyDomain() error = %v", err)
	}
	if !strings.Contains(prompt, "백엔드 취업 준비생") || !strings.Contains(prompt, "이직 면접 준비") {
		t.Fatalf("unexpected prompt: %s", prompt)
	}
}

func TestRewriteTrimsModelOutput(t *testing.T) {
	server := newGenerateServer(t, "\n  백엔드 개발자 면접 질문 추천  \n", nil)
	defer server.Close()

	rewriter := NewRewriter(New(server.URL, "gen", "embed"))
	got, err := rewriter.Rewrite(context.Background(), "", domain.CategoryInterview, "면접 질문 좀")
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if got != "백엔드 개발자 면접 질문 추천" {
		t.Fatalf("Rewrite() = %q", got)
	}
}

func TestEmbedQueryIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "gen", "embed"))
	_, err := embedder.EmbedQuery(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected 502 to be wrapped as temporary, got %v", err)
	}
}
