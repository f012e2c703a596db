package dto

// MessageDTO is one conversation turn as sent by the client.
type MessageDTO struct {
	Role string `json:"role" validate:"required,oneof=user assistant"`
	Text string `json:"text" validate:"required"`
}

type SendChatRequest struct {
	SessionId string       `json:"session_id" validate:"required"`
	Messages  []MessageDTO `json:"messages" validate:"required,min=1,max=50,dive"`
}

type CitationDTO struct {
	Id     int    `json:"id"`
	DocId  string `json:"doc_id"`
	Title  string `json:"title"`
	Url    string `json:"url,omitempty"`
	Source string `json:"source"`
}

type LatencyDTO struct {
	FeaturesMs  int64 `json:"features_ms"`
	GuardrailMs int64 `json:"guardrail_ms"`
	RetrieveMs  int64 `json:"retrieve_ms"`
	AssembleMs  int64 `json:"assemble_ms"`
	GenerateMs  int64 `json:"generate_ms"`
	TotalMs     int64 `json:"total_ms"`
}

type SendChatResponse struct {
	TraceId     string        `json:"trace_id"`
	Answer      string        `json:"answer"`
	Citations   []CitationDTO `json:"citations"`
	TriageLevel string        `json:"triage_level"`
	RedFlags    []string      `json:"red_flags,omitempty"`
	Degraded    bool          `json:"degraded"`
	Latency     LatencyDTO    `json:"latency"`
}

type HistoryTurnDTO struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type GetHistoryResponse struct {
	SessionId string           `json:"session_id"`
	Turns     []HistoryTurnDTO `json:"turns"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
