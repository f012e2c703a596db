package orchestrator

import (
	"ai-symptomcheck-be/pkg/evidence"
)

// Latency is the per-stage breakdown in milliseconds. Stages skipped on a
// given path stay zero.
type Latency struct {
	FeaturesMs  int64 `json:"features_ms"`
	GuardrailMs int64 `json:"guardrail_ms"`
	RetrieveMs  int64 `json:"retrieve_ms"`
	AssembleMs  int64 `json:"assemble_ms"`
	GenerateMs  int64 `json:"generate_ms"`
	TotalMs     int64 `json:"total_ms"`
}

// Outcome is the result of one finalized request.
type Outcome struct {
	TraceID     string              `json:"trace_id"`
	Answer      string              `json:"answer"`
	Citations   []evidence.Citation `json:"citations"`
	TriageLevel string              `json:"triage_level"`
	RedFlags    []string            `json:"red_flags"`
	Degraded    bool                `json:"degraded"`
	State       string              `json:"state"`
	Latency     Latency             `json:"latency"`
}
