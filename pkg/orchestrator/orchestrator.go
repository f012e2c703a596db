package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-symptomcheck-be/internal/pkg/logger"
	"ai-symptomcheck-be/pkg/evidence"
	"ai-symptomcheck-be/pkg/features"
	"ai-symptomcheck-be/pkg/generation"
	"ai-symptomcheck-be/pkg/llm"
	"ai-symptomcheck-be/pkg/prompt"
	"ai-symptomcheck-be/pkg/retrieval"
	"ai-symptomcheck-be/pkg/session"
	"ai-symptomcheck-be/pkg/triage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Config tunes one orchestrator instance. Zero values fall back to the
// production defaults.
type Config struct {
	Filters            retrieval.Filters
	TopK               int
	RRFK               int
	RerankTopN         int
	HistoryLimit       int
	EmergencyCitations int
	RequireEvidence    bool
	TraceTopic         string
}

func DefaultOrchestratorConfig() Config {
	return Config{
		Filters:            retrieval.Filters{Tenant: "CA-ON", Lang: "en"},
		TopK:               12,
		RRFK:               retrieval.DefaultRRFK,
		RerankTopN:         3,
		HistoryLimit:       10,
		EmergencyCitations: 2,
		TraceTopic:         "request.trace",
	}
}

// Orchestrator runs one request through the pipeline as an explicit state
// machine: extract features, check guardrails, then either render the
// canned emergency answer or retrieve/fuse/assemble/generate. Turns are
// appended to the session log only when the request finalizes.
type Orchestrator struct {
	extractor *features.Extractor
	matcher   *triage.Matcher
	retriever *retrieval.Gateway
	reranker  retrieval.Reranker // optional
	assembler *evidence.Assembler
	generator *generation.Gateway
	turns     session.TurnStore
	locks     *session.KeyedMutex
	publisher message.Publisher // optional
	logger    logger.ILogger
	cfg       Config
}

func NewOrchestrator(
	extractor *features.Extractor,
	matcher *triage.Matcher,
	retriever *retrieval.Gateway,
	reranker retrieval.Reranker,
	assembler *evidence.Assembler,
	generator *generation.Gateway,
	turns session.TurnStore,
	publisher message.Publisher,
	log logger.ILogger,
	cfg Config,
) *Orchestrator {
	def := DefaultOrchestratorConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.RRFK <= 0 {
		cfg.RRFK = def.RRFK
	}
	if cfg.RerankTopN <= 0 {
		cfg.RerankTopN = def.RerankTopN
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if cfg.EmergencyCitations <= 0 {
		cfg.EmergencyCitations = def.EmergencyCitations
	}
	if cfg.TraceTopic == "" {
		cfg.TraceTopic = def.TraceTopic
	}
	return &Orchestrator{
		extractor: extractor,
		matcher:   matcher,
		retriever: retriever,
		reranker:  reranker,
		assembler: assembler,
		generator: generator,
		turns:     turns,
		locks:     session.NewKeyedMutex(),
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
	}
}

// Run drives one request to a terminal state. On any error the session log
// is left untouched and the returned outcome is nil.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, turns []session.Turn) (*Outcome, error) {
	start := time.Now()
	state := StateStart

	userText, err := validateInput(sessionID, turns)
	if err != nil {
		return nil, err
	}

	out := &Outcome{TraceID: uuid.NewString()}

	// Feature extraction is pure; it cannot fail.
	t := time.Now()
	feats := o.extractor.Extract(userText)
	out.Latency.FeaturesMs = millisSince(t)
	state = advance(state, StateFeaturesExtracted)

	t = time.Now()
	decision := o.matcher.Match(feats.Tokens)
	out.RedFlags = o.matcher.MatchAll(feats.Tokens)
	out.TriageLevel = decision.Level
	out.Latency.GuardrailMs = millisSince(t)
	state = advance(state, StateGuardrailChecked)

	if decision.Level != triage.LevelPrimaryCare {
		state = advance(state, StateEmergencyFinalized)
		o.runEmergency(ctx, out, decision, feats)
	} else {
		state, err = o.runStandard(ctx, out, feats, sessionID, userText)
		if err != nil {
			o.logger.Error("orchestrator", "request failed", map[string]interface{}{
				"trace_id": out.TraceID,
				"state":    state.String(),
				"error":    err.Error(),
			})
			return nil, err
		}
	}

	state = advance(state, StateFinalized)
	out.State = state.String()
	o.appendTurns(ctx, sessionID, userText, out.Answer)
	out.Latency.TotalMs = millisSince(start)

	o.publishTrace(sessionID, out)
	return out, nil
}

// runEmergency renders the canned escalation answer. A single best-effort
// retrieval pass may attach a couple of citations; its failure is ignored
// and generation is never invoked on this path.
func (o *Orchestrator) runEmergency(ctx context.Context, out *Outcome, decision triage.Decision, feats *features.PatientFeatures) {
	t := time.Now()
	query := strings.Join(feats.QueryTerms, " ")
	if query != "" {
		result, err := o.retriever.Retrieve(ctx, query, o.cfg.Filters, o.cfg.EmergencyCitations)
		if err == nil {
			fused := retrieval.FuseRRF(result.Lists, o.cfg.RRFK)
			lookup := retrieval.HitLookup(result.Lists)
			a := evidence.NewAssembler(evidence.Options{
				MaxCandidates: o.cfg.EmergencyCitations,
				MaxPerSource:  o.cfg.EmergencyCitations,
			})
			out.Citations = a.Assemble(fused, lookup).Citations
		}
	}
	out.Latency.RetrieveMs = millisSince(t)

	out.Answer = prompt.BuildEmergencyAnswer(decision, out.RedFlags, out.Citations)
}

// runStandard is the retrieve -> fuse -> assemble -> generate path.
func (o *Orchestrator) runStandard(ctx context.Context, out *Outcome, feats *features.PatientFeatures, sessionID, userText string) (State, error) {
	state := StateGuardrailChecked

	query := strings.Join(feats.QueryTerms, " ")
	if query == "" {
		query = userText
	}

	t := time.Now()
	result, err := o.retriever.Retrieve(ctx, query, o.cfg.Filters, o.cfg.TopK)
	out.Latency.RetrieveMs = millisSince(t)
	if err != nil {
		return StateError, err
	}
	out.Degraded = result.Degraded
	state = advance(state, StateRetrieved)

	t = time.Now()
	fused := retrieval.FuseRRF(result.Lists, o.cfg.RRFK)
	lookup := retrieval.HitLookup(result.Lists)
	state = advance(state, StateFused)

	candidates := fused
	if o.reranker != nil && len(fused) > 0 {
		reranked, rerr := o.reranker.Rerank(ctx, query, fused, lookup, o.cfg.RerankTopN)
		if rerr != nil {
			// Reranking is an optimization; fused order stands.
			o.logger.Warn("orchestrator", "reranker failed, using fused order", map[string]interface{}{
				"trace_id": out.TraceID,
				"error":    rerr.Error(),
			})
		} else {
			candidates = reranked
		}
	}

	bundle := o.assembler.Assemble(candidates, lookup)
	out.Citations = bundle.Citations
	out.Latency.AssembleMs = millisSince(t)
	state = advance(state, StateAssembled)

	if bundle.Empty() && o.cfg.RequireEvidence {
		return StateError, retrieval.ErrRetrievalUnavailable
	}

	history := o.readHistory(ctx, sessionID, out.TraceID)
	userPrompt := prompt.NewBuilder(bundle, feats, userText).Build()

	t = time.Now()
	answer, err := o.generator.Generate(ctx, prompt.SystemPrompt, history, userPrompt)
	out.Latency.GenerateMs = millisSince(t)
	if err != nil {
		return StateError, err
	}
	out.Answer = answer
	state = advance(state, StateGenerated)

	return state, nil
}

// readHistory loads the recent prior turns for prompt context. A store
// failure degrades to an empty history rather than failing the request.
func (o *Orchestrator) readHistory(ctx context.Context, sessionID, traceID string) []llm.Message {
	turns, err := o.turns.ReadRecent(ctx, sessionID, o.cfg.HistoryLimit)
	if err != nil {
		o.logger.Warn("orchestrator", "history read failed, continuing without it", map[string]interface{}{
			"trace_id":   traceID,
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil
	}

	history := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Text})
	}
	return history
}

// appendTurns records the user/assistant pair under the per-session lock so
// concurrent requests on one session never interleave their pairs. Append
// failures lose history but never the already-produced answer.
func (o *Orchestrator) appendTurns(ctx context.Context, sessionID, userText, answer string) {
	unlock := o.locks.Lock(sessionID)
	defer unlock()

	now := time.Now()
	pair := []session.Turn{
		{Role: session.RoleUser, Text: userText, CreatedAt: now},
		{Role: session.RoleAssistant, Text: answer, CreatedAt: now},
	}
	for _, turn := range pair {
		if err := o.turns.Append(ctx, sessionID, turn); err != nil {
			o.logger.Error("orchestrator", "turn append failed", map[string]interface{}{
				"session_id": sessionID,
				"role":       turn.Role,
				"error":      err.Error(),
			})
			return
		}
	}
}

func (o *Orchestrator) publishTrace(sessionID string, out *Outcome) {
	if o.publisher == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"trace_id":   out.TraceID,
		"session_id": sessionID,
		"state":      out.State,
		"triage":     out.TriageLevel,
		"degraded":   out.Degraded,
		"citations":  len(out.Citations),
		"latency":    out.Latency,
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(out.TraceID, payload)
	if err := o.publisher.Publish(o.cfg.TraceTopic, msg); err != nil {
		o.logger.Warn("orchestrator", "trace publish failed", map[string]interface{}{
			"trace_id": out.TraceID,
			"error":    err.Error(),
		})
	}
}

func validateInput(sessionID string, turns []session.Turn) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: at least one turn is required", ErrInvalidInput)
	}
	for i, turn := range turns {
		if turn.Role != session.RoleUser && turn.Role != session.RoleAssistant {
			return "", fmt.Errorf("%w: turn %d has unknown role %q", ErrInvalidInput, i, turn.Role)
		}
		if strings.TrimSpace(turn.Text) == "" {
			return "", fmt.Errorf("%w: turn %d has empty text", ErrInvalidInput, i)
		}
	}

	last := turns[len(turns)-1]
	if last.Role != session.RoleUser {
		return "", fmt.Errorf("%w: conversation must end with a user turn", ErrInvalidInput)
	}
	return last.Text, nil
}

func millisSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
