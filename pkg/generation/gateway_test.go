package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-symptomcheck-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// scriptedProvider returns each scripted outcome in order, then repeats the
// last one. It records what it was asked.
type scriptedProvider struct {
	answers  []string
	errs     []error
	calls    int
	messages [][]llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	i := p.calls
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	p.calls++
	p.messages = append(p.messages, history)
	if p.errs[i] != nil {
		return "", p.errs[i]
	}
	return p.answers[i], nil
}

func fastConfig() Config {
	return Config{
		Deadline:    2 * time.Second,
		MaxRetries:  2,
		BackoffBase: 5 * time.Millisecond,
		Temperature: 0.2,
		MaxTokens:   128,
	}
}

func TestGenerateSuccessFirstAttempt(t *testing.T) {
	p := &scriptedProvider{answers: []string{"ok"}, errs: []error{nil}}
	g := NewGateway(p, fastConfig(), nopLogger{})

	answer, err := g.Generate(context.Background(), "system", []llm.Message{
		{Role: "user", Content: "earlier"},
		{Role: "assistant", Content: "reply"},
	}, "question")

	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, 1, p.calls)

	// system prompt first, history in the middle, rendered prompt last.
	msgs := p.messages[0]
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "earlier", msgs[1].Content)
	assert.Equal(t, "user", msgs[3].Role)
	assert.Equal(t, "question", msgs[3].Content)
}

func TestGenerateRetriesTransientThenSucceeds(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{"", "", "recovered"},
		errs:    []error{&llm.StatusError{Code: 503}, &llm.StatusError{Code: 429}, nil},
	}
	g := NewGateway(p, fastConfig(), nopLogger{})

	answer, err := g.Generate(context.Background(), "system", nil, "question")
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Equal(t, 3, p.calls)
}

func TestGenerateNonTransientNotRetried(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{""},
		errs:    []error{&llm.StatusError{Code: 400, Body: "bad prompt"}},
	}
	g := NewGateway(p, fastConfig(), nopLogger{})

	_, err := g.Generate(context.Background(), "system", nil, "question")
	require.ErrorIs(t, err, ErrGenerationFailure)
	assert.Equal(t, 1, p.calls)
}

func TestGenerateTransientExhaustsRetries(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{""},
		errs:    []error{&llm.StatusError{Code: 500}},
	}
	g := NewGateway(p, fastConfig(), nopLogger{})

	_, err := g.Generate(context.Background(), "system", nil, "question")
	require.ErrorIs(t, err, ErrGenerationFailure)
	assert.Equal(t, 3, p.calls) // first attempt + two retries
}

func TestGenerateDeadlineMapsToTimeout(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{""},
		errs:    []error{context.DeadlineExceeded},
	}
	cfg := fastConfig()
	cfg.Deadline = 30 * time.Millisecond
	cfg.BackoffBase = 100 * time.Millisecond // backoff never fits the budget
	g := NewGateway(p, cfg, nopLogger{})

	_, err := g.Generate(context.Background(), "system", nil, "question")
	require.ErrorIs(t, err, ErrGenerationTimeout)
	assert.Equal(t, 1, p.calls)
}

func TestGenerateNoRetryWhenBudgetExhausted(t *testing.T) {
	slow := &slowProvider{delay: 50 * time.Millisecond}
	cfg := fastConfig()
	cfg.Deadline = 60 * time.Millisecond
	cfg.BackoffBase = 40 * time.Millisecond
	g := NewGateway(slow, cfg, nopLogger{})

	start := time.Now()
	_, err := g.Generate(context.Background(), "system", nil, "question")
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrGenerationTimeout)
	// No pointless backoff-and-retry past the deadline.
	assert.Less(t, elapsed, 200*time.Millisecond)
}

type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(p.delay):
		return "", &llm.StatusError{Code: 503}
	}
}

func TestGenerateWrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("connection refused")
	p := &scriptedProvider{answers: []string{""}, errs: []error{underlying}}
	g := NewGateway(p, fastConfig(), nopLogger{})

	_, err := g.Generate(context.Background(), "system", nil, "question")
	require.ErrorIs(t, err, ErrGenerationFailure)
	assert.ErrorIs(t, err, underlying)
}
