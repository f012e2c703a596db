package service

import (
	"context"
	"time"

	"ai-symptomcheck-be/internal/dto"
	"ai-symptomcheck-be/pkg/orchestrator"
	"ai-symptomcheck-be/pkg/session"
)

// Pinger is implemented by backing stores that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IChatService defines the chat service interface
type IChatService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId string, limit int) (*dto.GetHistoryResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type chatService struct {
	pipeline *orchestrator.Orchestrator
	turns    session.TurnStore
	pingers  map[string]Pinger
}

func NewChatService(pipeline *orchestrator.Orchestrator, turns session.TurnStore, pingers map[string]Pinger) IChatService {
	return &chatService{
		pipeline: pipeline,
		turns:    turns,
		pingers:  pingers,
	}
}

func (s *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	turns := make([]session.Turn, 0, len(request.Messages))
	for _, m := range request.Messages {
		turns = append(turns, session.Turn{Role: m.Role, Text: m.Text})
	}

	outcome, err := s.pipeline.Run(ctx, request.SessionId, turns)
	if err != nil {
		return nil, err
	}

	citations := make([]dto.CitationDTO, 0, len(outcome.Citations))
	for _, c := range outcome.Citations {
		citations = append(citations, dto.CitationDTO{
			Id:     c.ID,
			DocId:  c.DocID,
			Title:  c.Title,
			Url:    c.URL,
			Source: c.Source,
		})
	}

	return &dto.SendChatResponse{
		TraceId:     outcome.TraceID,
		Answer:      outcome.Answer,
		Citations:   citations,
		TriageLevel: outcome.TriageLevel,
		RedFlags:    outcome.RedFlags,
		Degraded:    outcome.Degraded,
		Latency: dto.LatencyDTO{
			FeaturesMs:  outcome.Latency.FeaturesMs,
			GuardrailMs: outcome.Latency.GuardrailMs,
			RetrieveMs:  outcome.Latency.RetrieveMs,
			AssembleMs:  outcome.Latency.AssembleMs,
			GenerateMs:  outcome.Latency.GenerateMs,
			TotalMs:     outcome.Latency.TotalMs,
		},
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionId string, limit int) (*dto.GetHistoryResponse, error) {
	turns, err := s.turns.ReadRecent(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.HistoryTurnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, dto.HistoryTurnDTO{
			Role:      t.Role,
			Text:      t.Text,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.GetHistoryResponse{
		SessionId: sessionId,
		Turns:     out,
	}, nil
}

func (s *chatService) Health(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:     "ok",
		Components: make(map[string]string, len(s.pingers)),
	}

	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			res.Components[name] = "down: " + err.Error()
			res.Status = "degraded"
			continue
		}
		res.Components[name] = "ok"
	}

	return res
}
