package ollama

import (
	"fmt"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

func buildClassifyPrompt(userProfile, question string) string {
	if userProfile == "" {
		userProfile = "제공되지 않음"
	}
	return fmt.Sprintf(
		"너는 사용자 요청을 '면접', '대학진로', '무관' 중 하나로만 분류하는 시스템입니다. "+
			"다음 정보를 참고하여 최종 카테고리를 결정하세요.\n"+
			"- 사용자 정보(배경/목표 등): %s\n"+
			"- 사용자 질문: %s\n\n"+
			"판단 기준:\n"+
			"1. 면접 준비, 인성/직무 면접 질문, 회사 지원 동기 등 채용 또는 취업 인터뷰에 관한 요구라면 '면접'으로 분류합니다.\n"+
			"2. 학과 선택, 대학 정보, 진학 전략, 전공/교과 관련 고민 등 진학이나 전공 탐색과 직접적으로 연결되면 '대학진로'로 분류합니다.\n"+
			"3. 사용자가 취업 준비생이라면 면접 쪽을 우선 고려하고, 고등학생이라면 대학진로를 우선 고려합니다.\n"+
			"4. 두 주제 모두와 관련이 없으면 '무관'으로 분류합니다.\n"+
			"5. 애매한 경우 질문에서 더 직접적으로 다루는 주제를 선택합니다.\n\n"+
			"출력 형식: 오직 '면접', '대학진로', '무관' 중 하나만 반환하세요.",
		userProfile, question,
	)
}

func buildRewritePrompt(userProfile string, category domain.Category, question string) string {
	if userProfile == "" {
		userProfile = "제공되지 않음"
	}
	categoryLabel := "일반"
	switch category {
	case domain.CategoryInterview:
		categoryLabel = "면접"
	case domain.CategoryCollege:
		categoryLabel = "대학진로"
	}
	return fmt.Sprintf(
		"너는 진로/취업 상담 챗봇의 질문 정제기다. "+
			"사용자의 배경과 의도를 살려 핵심이 명확한 검색 친화적 질문을 1개 작성하라. "+
			"불필요한 감탄사나 모호한 표현을 제거하고, 필요한 조건과 목표를 한 문단 안에 포함하라.\n\n"+
			"사용자 배경:\n%s\n\n"+
			"카테고리: %s\n\n"+
			"원본 질문:\n%s\n\n"+
			"위 정보를 기반으로 사용자의 의도를 해치지 않도록 질문 하나를 재생성하라. 질문 외의 다른 텍스트는 출력하지 마라.",
		userProfile, categoryLabel, question,
	)
}
