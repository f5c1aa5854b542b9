package usecase

import (
	"testing"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

func TestAcceptFirstCandidateAlways(t *testing.T) {
	dedup := NewDeduplicator(0.55)
	if !dedup.Accept(domain.Chunk{DocID: "a", Content: "자기소개를 해주세요"}, nil) {
		t.Fatalf("first candidate must be accepted")
	}
}

func TestAcceptRejectsIdenticalContent(t *testing.T) {
	dedup := NewDeduplicator(0.55)
	accepted := []domain.Chunk{{DocID: "a", Content: "[질문] 자기소개를 해주세요\n\n[답변] 저는 3년차 개발자입니다"}}

	dup := domain.Chunk{DocID: "b", Content: "[질문] 자기소개를 해주세요\n\n[답변] 저는 3년차 개발자입니다"}
	if dedup.Accept(dup, accepted) {
		t.Fatalf("identical content must be rejected")
	}
}

func TestAcceptRejectsSameDocID(t *testing.T) {
	dedup := NewDeduplicator(0.55)
	accepted := []domain.Chunk{{DocID: "doc-1", Content: "완전히 다른 내용의 청크"}}

	if dedup.Accept(domain.Chunk{DocID: "doc-1", Content: "겹치지 않는 전혀 새로운 본문"}, accepted) {
		t.Fatalf("same doc id must be rejected regardless of content")
	}
}

func TestAcceptKeepsDistinctContent(t *testing.T) {
	dedup := NewDeduplicator(0.55)
	accepted := []domain.Chunk{{DocID: "a", Content: "리더십을 발휘한 경험을 말해주세요"}}

	distinct := domain.Chunk{DocID: "b", Content: "Docker 배포 파이프라인 구축 사례"}
	if !dedup.Accept(distinct, accepted) {
		t.Fatalf("distinct content must be accepted")
	}
}

func TestAcceptThresholdBoundary(t *testing.T) {
	a := "협업 갈등을 해결한 경험"
	b := "협업 갈등을 해결한 사례"
	sim := textSimilarity(a, b)
	if sim <= 0.55 {
		t.Fatalf("test premise broken: similarity(%q, %q) = %v", a, b, sim)
	}

	strict := NewDeduplicator(0.55)
	if strict.Accept(domain.Chunk{DocID: "b", Content: b}, []domain.Chunk{{DocID: "a", Content: a}}) {
		t.Fatalf("near-duplicate above threshold must be rejected")
	}

	lenient := NewDeduplicator(0.99)
	if !lenient.Accept(domain.Chunk{DocID: "b", Content: b}, []domain.Chunk{{DocID: "a", Content: a}}) {
		t.Fatalf("similarity below lenient threshold must be accepted")
	}
}

func TestTextSimilarityEdgeCases(t *testing.T) {
	if got := textSimilarity("", ""); got != 1 {
		t.Errorf("similarity of two empty strings = %v, want 1", got)
	}
	if got := textSimilarity("내용", ""); got != 0 {
		t.Errorf("similarity against empty string = %v, want 0", got)
	}
	if got := textSimilarity("동일한 문장", "동일한 문장"); got != 1 {
		t.Errorf("similarity of identical strings = %v, want 1", got)
	}
}

func TestNewDeduplicatorDefaultsInvalidThreshold(t *testing.T) {
	dedup := NewDeduplicator(0)
	if dedup.threshold != 0.55 {
		t.Fatalf("threshold = %v, want 0.55", dedup.threshold)
	}
	dedup = NewDeduplicator(1.5)
	if dedup.threshold != 0.55 {
		t.Fatalf("threshold = %v, want 0.55", dedup.threshold)
	}
}
