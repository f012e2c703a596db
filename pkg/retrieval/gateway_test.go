package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeProvider struct {
	id    string
	hits  []Hit
	err   error
	delay time.Duration
}

func (p *fakeProvider) ID() string { return p.id }

func (p *fakeProvider) Search(ctx context.Context, query string, filters Filters, k int) ([]Hit, error) {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.hits, nil
}

func TestGatewayAllProvidersSucceed(t *testing.T) {
	g := NewGateway([]Provider{
		&fakeProvider{id: "vector", hits: hitList("a", "b")},
		&fakeProvider{id: "keyword", hits: hitList("b", "c")},
	}, time.Second, nopLogger{})

	res, err := g.Retrieve(context.Background(), "query", Filters{}, 5)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Failed)
	assert.Len(t, res.Lists, 2)

	// Ranks are assigned from list positions.
	assert.Equal(t, 1, res.Lists["vector"][0].Rank)
	assert.Equal(t, 2, res.Lists["vector"][1].Rank)
}

func TestGatewayPartialFailureDegrades(t *testing.T) {
	g := NewGateway([]Provider{
		&fakeProvider{id: "vector", err: errors.New("index offline")},
		&fakeProvider{id: "keyword", hits: hitList("a")},
	}, time.Second, nopLogger{})

	res, err := g.Retrieve(context.Background(), "query", Filters{}, 5)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, []string{"vector"}, res.Failed)
	require.Len(t, res.Lists, 1)
	assert.Len(t, res.Lists["keyword"], 1)
}

func TestGatewayAllProvidersFail(t *testing.T) {
	g := NewGateway([]Provider{
		&fakeProvider{id: "vector", err: errors.New("down")},
		&fakeProvider{id: "keyword", err: errors.New("down too")},
	}, time.Second, nopLogger{})

	res, err := g.Retrieve(context.Background(), "query", Filters{}, 5)
	require.ErrorIs(t, err, ErrRetrievalUnavailable)
	assert.Nil(t, res)
}

func TestGatewayNoProviders(t *testing.T) {
	g := NewGateway(nil, time.Second, nopLogger{})

	_, err := g.Retrieve(context.Background(), "query", Filters{}, 5)
	require.ErrorIs(t, err, ErrRetrievalUnavailable)
}

func TestGatewaySlowProviderTimesOutAlone(t *testing.T) {
	g := NewGateway([]Provider{
		&fakeProvider{id: "vector", hits: hitList("a"), delay: 200 * time.Millisecond},
		&fakeProvider{id: "keyword", hits: hitList("b")},
	}, 50*time.Millisecond, nopLogger{})

	start := time.Now()
	res, err := g.Retrieve(context.Background(), "query", Filters{}, 5)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, []string{"vector"}, res.Failed)
	assert.Contains(t, res.Lists, "keyword")

	// The fast provider's result is not held hostage by the slow one
	// beyond the per-provider timeout.
	assert.Less(t, elapsed, 150*time.Millisecond)
}

func TestGatewayUmbrellaContextCancel(t *testing.T) {
	g := NewGateway([]Provider{
		&fakeProvider{id: "vector", hits: hitList("a"), delay: time.Second},
	}, 5*time.Second, nopLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := g.Retrieve(ctx, "query", Filters{}, 5)
	require.ErrorIs(t, err, ErrRetrievalUnavailable)
}
