package intent

import (
	"context"

	"github.com/smartcvnaija/jobbroker/internal/platform/ai"
	"go.uber.org/zap"
)

// Resolver ties the two stages together: resolveStage1 handles the cheap,
// deterministic cases locally; anything it can't classify falls through to
// the AI-backed resolveStage2.
type Resolver struct {
	router *ai.Router
	log    *zap.Logger
}

func NewResolver(router *ai.Router, log *zap.Logger) *Resolver {
	return &Resolver{router: router, log: log}
}

// Resolve classifies a single inbound message given the rolling
// conversation window (oldest first, newest last).
func (r *Resolver) Resolve(ctx context.Context, text string, history []Turn) *Intent {
	if in, ok := resolveStage1(text, history); ok {
		return in
	}
	return resolveStage2(ctx, r.router, r.log, text, history)
}
