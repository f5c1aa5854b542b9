package openai

import (
	"fmt"
	"strings"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

const scoreSystemPrompt = "너는 사용자의 질문과 지식 청크 사이의 관련도를 평가하는 심사관이다. " +
	"각 청크가 질문에 답을 주는 데 얼마나 직접적으로 도움이 되는지를 0에서 1 사이의 점수로 산출하라. " +
	"점수 기준은 다음과 같다:\n" +
	"- 0.75~1.0: 질문 의도를 구체적으로 다루거나 답변의 핵심 근거가 된다.\n" +
	"- 0.4~0.74: 부분적으로 도움이 되거나 배경 지식 수준이다.\n" +
	"- 0.0~0.39: 거의 혹은 전혀 관련이 없다.\n" +
	"판단 시 질문의 요구사항, 키워드, 맥락을 모두 고려하고 추측으로 높은 점수를 주지 마라. " +
	"출력은 반드시 JSON 문자열로 반환하며, 형식은 " +
	`{"score": <0~1 사이 실수>, "reason": "간단한 근거"} 이어야 한다.`

func buildScoreUserPrompt(question, content string) string {
	return fmt.Sprintf(
		"질문: %s\n\n청크 내용:\n%s\n\n이 청크의 관련도를 평가해 주세요.",
		question, content,
	)
}

func buildInterviewRecommendSystemPrompt(dominantIntent string) string {
	prompt := "너는 면접 준비를 돕는 전문 컨설턴트이다. " +
		"사용자의 요청에 따라 적절한 면접 질문들을 추천해야 한다.\n\n" +
		"출력 규칙:\n" +
		"1. 질문만 추천하고, 답변은 포함하지 마라\n" +
		"2. 제공된 청크에서 question_intent를 분석하여 유사한 유형의 질문과 다른 유형의 질문을 추천하라\n" +
		"3. 총 5개 정도의 면접 질문을 추천하라\n" +
		"4. 각 질문은 번호를 매겨서 명확하게 구분하라\n" +
		"5. 질문 유형별로 그룹화하여 제시하라"
	if dominantIntent != "" {
		prompt += fmt.Sprintf(
			"\n주요 질문 유형: %s\n"+
				"- 이 유형과 유사한 질문을 5개 추천하라\n"+
				"- 추가로 다른 유형의 질문을 3개 추천하여 다양성을 제공하라",
			dominantIntent,
		)
	}
	return prompt
}

func buildInterviewFeedbackSystemPrompt(dominantIntent string) string {
	prompt := "너는 면접 답변을 평가하고 개선하는 전문 컨설턴트이다. " +
		"사용자의 면접 질문에 대한 적절한 답변을 제시하고, " +
		"참고 자료와 비교하여 차이점을 분석하라.\n\n" +
		"출력 형식:\n" +
		"1. 추천 답변: [구체적인 답변 내용]\n" +
		"2. 핵심 포인트: [중요한 키워드나 구조]\n" +
		"3. 참고 자료 분석:\n" +
		"   - 공통점: [참고 답변들에서 공통적으로 나타나는 요소]\n" +
		"   - 차이점: [각 답변들의 다른 접근 방식이나 강조점]\n" +
		"   - 개선 포인트: [더 나은 답변을 위한 제안]\n" +
		"4. 추가 연습 질문: [같은 유형 2~3개, 다른 유형 2~3개 추천]"
	if dominantIntent != "" {
		prompt += fmt.Sprintf(
			"\n참고 자료는 주로 '%s' 유형의 질문에 대한 답변들이다. "+
				"이 유형의 특성을 고려하여 답변을 작성하고, "+
				"마지막에 같은 유형의 유사 질문 2~3개와 다른 유형의 연습 질문 2~3개를 추천하라.",
			dominantIntent,
		)
	}
	return prompt
}

func buildInterviewUserPrompt(question, dominantIntent string, chunks []domain.Chunk, feedback bool) string {
	intentAnalysis := ""
	if dominantIntent != "" {
		intentAnalysis = fmt.Sprintf("\n검색된 답변의 주요 질문 유형: %s", dominantIntent)
	}

	request := "위 정보를 바탕으로 관련 면접 질문들을 추천해 주세요."
	label := "사용자 요청"
	if feedback {
		request = "위 정보를 바탕으로 적절한 답변을 작성하고, 참고 자료들을 분석하여 차이점과 개선 포인트를 제시해 주세요."
		label = "면접 질문"
	}

	return fmt.Sprintf(
		"%s: %s\n\n참고 자료:%s\n%s\n\n%s",
		label, question, intentAnalysis, joinChunks(chunks), request,
	)
}

const collegeSystemPrompt = `당신은 신뢰도 높은 전문가 어시스턴트입니다.
규칙:
- 제공된 '문맥' 안에서만 답변하되, 불명확하면 모르는 부분은 명시
- 근거는 문맥 표현을 요약/인용해 자연스럽게 녹여 설명
- 불필요한 반복 금지, 핵심부터 간결하게
- 항목이 여러 개면 번호/불릿으로 구조화
- 한국어로 답변`

func buildCollegeUserPrompt(question string, chunks []domain.Chunk) string {
	context := "(관련 컨텍스트 없음)"
	if len(chunks) > 0 {
		lines := make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			lines = append(lines, fmt.Sprintf("[%d] %s (score: %.2f)", i+1, strings.TrimSpace(chunk.Content), chunk.EvalScore))
		}
		context = strings.Join(lines, "\n\n")
	}
	return fmt.Sprintf(
		"[문맥]\n%s\n\n[질문]\n%s\n\n요청:\n- 위 문맥을 근거로 정확하고 간결한 최종 답변을 작성\n- 필요시 짧은 근거/사유를 함께 제시",
		context, question,
	)
}

const verifySystemPrompt = `너는 질문과 답변의 일치도를 평가하는 심사위원이다.
다음 기준으로 평가해라.

- score: 0~100 사이의 숫자 (질문 의도와 답변 내용이 얼마나 잘 맞는지)
- comment: 한국어로 간단한 설명 (어떤 점이 좋고, 어떤 점이 부족한지)

반드시 아래와 같은 JSON 형식으로만 답해라:

{
  "score": <숫자>,
  "comment": "<설명>"
}`

func buildVerifyUserPrompt(question, answer string) string {
	return fmt.Sprintf("[사용자 요청]\n\n%s\n\n[모델 최종 답변]\n\n%s", question, answer)
}

func joinChunks(chunks []domain.Chunk) string {
	lines := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		lines = append(lines, fmt.Sprintf("[청크 %d]\n%s", i+1, chunk.Content))
	}
	return strings.Join(lines, "\n\n")
}
