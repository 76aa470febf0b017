package mailer

import (
	"context"
	"testing"

	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		User:     "recruiter@example.com",
		Pass:     "secret",
		FromName: "Job Broker",
		FromAddr: "recruiter@example.com",
	}
}

// SendBatched's only branch that doesn't require a live SMTP relay is the
// cancelled-context short-circuit: when ctx is already done, every message
// is recorded as failed without Identity.Send ever dialing out.
func TestSendBatched_CancelledContextSkipsEverySend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	identity := NewIdentity(testSMTPConfig())
	messages := []Message{
		{To: "one@example.com"},
		{To: "two@example.com"},
		{To: "three@example.com"},
		{To: "four@example.com"},
	}

	results := SendBatched(ctx, identity, messages, zap.NewNop())

	require.Len(t, results, len(messages))
	for i, r := range results {
		assert.Equal(t, messages[i].To, r.To)
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}
