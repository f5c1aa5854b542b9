package usecase

// PipelineObserver receives pipeline telemetry. The concrete implementation
// lives in observability/metrics; a no-op keeps the core testable without a
// registry.
type PipelineObserver interface {
	StageCompleted(stage string, seconds float64)
	RequestCompleted(category, outcome string)
	RetryOccurred(category string)
	OracleParseFailure(stage string)
	DedupRejected()
	CascadeDepth(depth int)
}

type noopObserver struct{}

func (noopObserver) StageCompleted(string, float64)  {}
func (noopObserver) RequestCompleted(string, string) {}
func (noopObserver) RetryOccurred(string)            {}
func (noopObserver) OracleParseFailure(string)       {}
func (noopObserver) DedupRejected()                  {}
func (noopObserver) CascadeDepth(int)                {}
