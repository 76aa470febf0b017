package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name string
	resp Response
	err  error
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Complete(ctx context.Context, req Request) (Response, error) {
	return f.resp, f.err
}

func TestRouter_Complete_FirstProviderSucceeds(t *testing.T) {
	primary := &fakeProvider{name: "openai", resp: Response{Text: "hello", Provider: "openai"}}
	fallback := &fakeProvider{name: "anthropic", err: errors.New("should never be called")}

	router := NewRouter(zap.NewNop(), time.Second, primary, fallback)

	resp, err := router.Complete(context.Background(), Request{User: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, "openai", resp.Provider)
}

func TestRouter_Complete_FallsBackOnError(t *testing.T) {
	primary := &fakeProvider{name: "openai", err: errors.New("rate limited")}
	fallback := &fakeProvider{name: "anthropic", resp: Response{Text: "fallback text", Provider: "anthropic"}}

	router := NewRouter(zap.NewNop(), time.Second, primary, fallback)

	resp, err := router.Complete(context.Background(), Request{User: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "fallback text", resp.Text)
}

func TestRouter_Complete_AllProvidersFail(t *testing.T) {
	primary := &fakeProvider{name: "openai", err: errors.New("down")}
	fallback := &fakeProvider{name: "anthropic", err: errors.New("also down")}

	router := NewRouter(zap.NewNop(), time.Second, primary, fallback)

	_, err := router.Complete(context.Background(), Request{User: "hi"})

	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestRouter_Complete_NoProvidersConfigured(t *testing.T) {
	router := NewRouter(zap.NewNop(), time.Second)

	_, err := router.Complete(context.Background(), Request{User: "hi"})

	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}
