package mailer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BatchSize and BatchPause govern the recruiter fan-out rhythm (C8): sending
// applications in small batches with a pause between them keeps the
// identity's send rate well under the kind of burst that gets an SMTP
// relay's reputation flagged.
const (
	BatchSize  = 3
	BatchPause = 1500 * time.Millisecond
)

// BatchResult records one recipient's outcome within a fan-out.
type BatchResult struct {
	To    string
	Error error
}

// SendBatched sends messages from identity in groups of BatchSize, pausing
// BatchPause between groups, and returns every recipient's outcome.
func SendBatched(ctx context.Context, identity *Identity, messages []Message, log *zap.Logger) []BatchResult {
	results := make([]BatchResult, 0, len(messages))

	for i := 0; i < len(messages); i += BatchSize {
		end := i + BatchSize
		if end > len(messages) {
			end = len(messages)
		}
		batch := messages[i:end]

		for _, msg := range batch {
			if ctx.Err() != nil {
				results = append(results, BatchResult{To: msg.To, Error: ctx.Err()})
				continue
			}
			err := identity.Send(msg)
			if err != nil {
				log.Warn("mailer: recruiter send failed", zap.String("to", msg.To), zap.Error(err))
			}
			results = append(results, BatchResult{To: msg.To, Error: err})
		}

		if end < len(messages) {
			select {
			case <-ctx.Done():
			case <-time.After(BatchPause):
			}
		}
	}

	return results
}
