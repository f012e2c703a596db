package retrieval

import (
	"context"
	"errors"
	"time"

	"ai-symptomcheck-be/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ErrRetrievalUnavailable is returned when every configured provider failed
// or timed out. Partial failure is not an error; it degrades the result.
var ErrRetrievalUnavailable = errors.New("retrieval unavailable: all providers failed")

// Result carries whatever the providers returned within their deadlines.
type Result struct {
	Lists    map[string][]Hit
	Degraded bool
	Failed   []string
}

// Gateway fans a query out to all configured providers concurrently, each
// under an independent timeout, and proceeds with whichever succeeded.
type Gateway struct {
	providers []Provider
	timeout   time.Duration
	logger    logger.ILogger
}

func NewGateway(providers []Provider, timeout time.Duration, log logger.ILogger) *Gateway {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Gateway{
		providers: providers,
		timeout:   timeout,
		logger:    log,
	}
}

// Retrieve issues all provider calls in parallel. A provider that errors or
// times out is dropped from the result map and recorded in Failed; the
// request only fails when nothing succeeded. The caller's ctx is the
// umbrella deadline: if it elapses, in-flight calls are cancelled and
// already-received lists are kept.
func (g *Gateway) Retrieve(ctx context.Context, query string, filters Filters, k int) (*Result, error) {
	if len(g.providers) == 0 {
		return nil, ErrRetrievalUnavailable
	}

	lists := make([][]Hit, len(g.providers))
	errs := make([]error, len(g.providers))

	// Each goroutine records its own slot; errors are collected, never
	// propagated through the group, so one slow provider cannot cancel
	// its siblings.
	eg := errgroup.Group{}
	for i, p := range g.providers {
		eg.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()

			hits, err := p.Search(callCtx, query, filters, k)
			if err != nil {
				errs[i] = err
				return nil
			}
			for j := range hits {
				hits[j].Rank = j + 1
			}
			lists[i] = hits
			return nil
		})
	}
	_ = eg.Wait()

	result := &Result{Lists: make(map[string][]Hit, len(g.providers))}
	for i, p := range g.providers {
		if errs[i] != nil {
			g.logger.Warn("retrieval", "provider failed, continuing degraded", map[string]interface{}{
				"provider": p.ID(),
				"error":    errs[i].Error(),
			})
			result.Failed = append(result.Failed, p.ID())
			continue
		}
		result.Lists[p.ID()] = lists[i]
	}

	if len(result.Lists) == 0 {
		return nil, ErrRetrievalUnavailable
	}
	result.Degraded = len(result.Failed) > 0

	return result, nil
}
