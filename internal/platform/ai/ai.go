// Package ai provides a provider-agnostic completion interface used by the
// intent resolver (C6), cover-letter synthesis, and ATS-style scoring (C8).
// A primary OpenAI-compatible provider and an Anthropic fallback provider
// both implement Provider; Router tries the primary first and falls back on
// any error so a single vendor outage never blocks the conversational flow.
package ai

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Request is a single completion call: a system prompt establishing the
// task, a user prompt carrying the actual content, and a JSONMode flag
// (both providers are asked to return raw JSON when it is set).
type Request struct {
	System    string
	User      string
	JSONMode  bool
	MaxTokens int
}

// Response is a provider's raw text completion.
type Response struct {
	Text     string
	Provider string
}

// Provider is satisfied by each concrete AI backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Response, error)
}

// ErrAllProvidersFailed is returned when both the primary and the fallback
// provider fail.
var ErrAllProvidersFailed = errors.New("ai: all providers failed")

// Router tries providers in order, returning the first success.
type Router struct {
	providers []Provider
	log       *zap.Logger
	timeout   time.Duration
}

// NewRouter builds a Router over providers, tried in the given order.
func NewRouter(log *zap.Logger, timeout time.Duration, providers ...Provider) *Router {
	return &Router{providers: providers, log: log, timeout: timeout}
}

// Complete calls each provider in order until one succeeds.
func (r *Router) Complete(ctx context.Context, req Request) (Response, error) {
	var lastErr error
	for _, p := range r.providers {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		resp, err := p.Complete(callCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		r.log.Warn("ai provider failed, trying next", zap.String("provider", p.Name()), zap.Error(err))
	}
	if lastErr != nil {
		return Response{}, errors.Join(ErrAllProvidersFailed, lastErr)
	}
	return Response{}, ErrAllProvidersFailed
}
