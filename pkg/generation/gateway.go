package generation

import (
	"context"
	"errors"
	"net"
	"time"

	"ai-symptomcheck-be/internal/pkg/logger"
	"ai-symptomcheck-be/pkg/llm"
)

var (
	// ErrGenerationTimeout covers deadline expiry, including transient
	// failures that could not be retried before the deadline.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGenerationFailure covers non-transient provider rejections and
	// transient errors that survived every retry.
	ErrGenerationFailure = errors.New("generation failed")
)

// Config bounds one generation call.
type Config struct {
	Deadline    time.Duration // overall budget for the call including retries
	MaxRetries  int           // retries after the first attempt
	BackoffBase time.Duration // doubled per retry: 250ms, 500ms, ...
	Temperature float64
	MaxTokens   int
}

func DefaultConfig() Config {
	return Config{
		Deadline:    5 * time.Second,
		MaxRetries:  2,
		BackoffBase: 250 * time.Millisecond,
		Temperature: 0.2,
		MaxTokens:   512,
	}
}

// Gateway drives a bounded, retried call to the generation provider.
// Retries are sequential, only for transient failures, and only when the
// remaining deadline still allows the wait.
type Gateway struct {
	provider llm.LLMProvider
	cfg      Config
	logger   logger.ILogger
}

func NewGateway(provider llm.LLMProvider, cfg Config, log logger.ILogger) *Gateway {
	if cfg.Deadline <= 0 {
		cfg.Deadline = 5 * time.Second
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 250 * time.Millisecond
	}
	return &Gateway{
		provider: provider,
		cfg:      cfg,
		logger:   log,
	}
}

// Generate sends the system prompt, prior turns and the rendered user
// prompt to the provider. The caller's ctx is the umbrella deadline; the
// gateway additionally enforces its own configured deadline.
func (g *Gateway) Generate(ctx context.Context, systemPrompt string, history []llm.Message, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Deadline)
	defer cancel()

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := g.cfg.BackoffBase << (attempt - 1)
			deadline, ok := ctx.Deadline()
			if ok && time.Until(deadline) <= backoff {
				// Not enough budget left to wait and try again.
				return "", ErrGenerationTimeout
			}
			select {
			case <-ctx.Done():
				return "", ErrGenerationTimeout
			case <-time.After(backoff):
			}
			g.logger.Warn("generation", "retrying after transient failure", map[string]interface{}{
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}

		answer, err := g.provider.Chat(ctx, messages,
			llm.WithTemperature(g.cfg.Temperature),
			llm.WithMaxTokens(g.cfg.MaxTokens),
		)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		if isDeadline(err) {
			if ctx.Err() != nil {
				return "", ErrGenerationTimeout
			}
			continue // per-request timeout inside our budget: retry
		}
		if !isTransient(err) {
			return "", errors.Join(ErrGenerationFailure, err)
		}
	}

	if isDeadline(lastErr) {
		return "", ErrGenerationTimeout
	}
	return "", errors.Join(ErrGenerationFailure, lastErr)
}

func isDeadline(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTransient(err error) bool {
	if isDeadline(err) {
		return true
	}
	var statusErr *llm.StatusError
	return errors.As(err, &statusErr) && statusErr.Transient()
}
