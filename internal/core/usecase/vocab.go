package usecase

// vocabEntry binds one metadata code to the surface terms that select it.
// Order matters: matching is first-hit within a vocabulary.
type vocabEntry struct {
	Code  string
	Terms []string
}

// occupationVocab covers the 7 occupation codes of the interview corpus.
var occupationVocab = []vocabEntry{
	{Code: "ARD", Terms: []string{"예술", "디자인", "UI", "UX", "그래픽"}},
	{Code: "BM", Terms: []string{"비즈니스", "경영", "전략", "PM", "PO", "프로젝트 매니저", "프로덕트 매니저"}},
	{Code: "ICT", Terms: []string{
		"개발자", "개발", "프로그래밍", "코딩", "프론트엔드", "백엔드", "풀스택",
		"소프트웨어", "Java", "Python", "JavaScript", "C++", "React", "Vue",
		"Spring", "Django", "Flask", "Docker", "Kubernetes", "AWS", "Azure", "GCP",
		"클라우드",
	}},
	{Code: "MM", Terms: []string{"재무", "회계", "재무관리", "회계사", "세무", "재정"}},
	{Code: "PS", Terms: []string{"생산", "제조", "생산관리", "품질관리", "공장", "공정", "생산성"}},
	{Code: "RND", Terms: []string{
		"연구", "연구개발", "R&D", "연구원", "기술개발", "신기술", "특허",
		"AI", "머신러닝", "데이터분석", "데이터 사이언스",
	}},
	{Code: "SM", Terms: []string{"영업", "판매", "마케팅", "세일즈", "영업관리", "고객"}},
}

// intentVocab covers the 16 question_intent codes, in tagger priority order.
var intentVocab = []vocabEntry{
	{Code: "motivation_fit", Terms: []string{
		"지원동기", "지원", "동기", "포부", "우리회사", "적합",
		"희망부서", "가고싶은", "선호부서",
	}},
	{Code: "self_reflection", Terms: []string{
		"후회", "강점", "약점", "장점", "단점", "자기소개",
		"스스로", "자신있는", "숙련", "반성", "성찰", "성장",
	}},
	{Code: "criteria_evaluation", Terms: []string{
		"기준", "평가척도", "평가", "판단기준", "선정기준",
		"품질기준", "중요하게", "기준점", "측정",
	}},
	{Code: "stakeholder_comm", Terms: []string{
		"협업", "갈등", "소통", "설득", "커뮤니케이션",
		"이해관계자", "조율", "협력", "팀워크",
	}},
	{Code: "behavioral_star", Terms: []string{
		"경험", "사례", "극복", "성과", "대응",
		"STAR", "경험담", "어떻게해결", "어떻게대응",
	}},
	{Code: "procedure_method", Terms: []string{
		"방법론", "절차", "프로세스", "순서", "단계", "지침", "절차서", "how to", "howto",
	}},
	{Code: "mechanism_reason", Terms: []string{
		"이유", "원인", "원리", "인과", "메커니즘", "작동원리",
		"OOP", "디자인패턴", "알고리즘", "자료구조", "네트워크", "데이터베이스", "기술면접",
	}},
	{Code: "compare_tradeoff", Terms: []string{
		"비교", "장단점", "대안", "차이", "vs", "trade-off", "tradeoff", "트레이드오프",
	}},
	{Code: "evidence_metric", Terms: []string{
		"지표", "수치", "근거", "성능", "정확도", "정밀도",
		"재현율", "F1", "AUC", "실험", "검증", "validation", "통계", "p-value", "신뢰구간",
	}},
	{Code: "leadership_ownership", Terms: []string{
		"리더십", "오너십", "주도", "책임", "권한", "위임", "주도적", "주인의식", "이끌어",
	}},
	{Code: "creativity_ideation", Terms: []string{
		"혁신", "아이디어", "창의", "창의성", "창의력", "브레인스토밍", "개선방안", "정책제안", "발상",
	}},
	{Code: "root_cause", Terms: []string{
		"원인분석", "근본원인", "재발방지", "재발", "트러블슈팅", "디버그", "문제해결",
	}},
	{Code: "ethics_compliance", Terms: []string{
		"윤리", "준법", "컴플라이언스", "IRB", "GDPR", "HIPAA", "개인정보", "보안정책", "법규", "규정", "준수",
	}},
	{Code: "application_transfer", Terms: []string{
		"적용", "현장", "전이", "use case", "usecase", "실무적용", "실무", "활용", "응용",
	}},
	{Code: "estimation_planning", Terms: []string{
		"추정", "일정", "계획", "납기", "스케줄", "리소스계획", "목표기간", "예측",
	}},
	{Code: "cost_resource", Terms: []string{
		"비용", "ROI", "예산", "원가", "투입대비", "가성비", "비용효율", "자원관리",
	}},
}
