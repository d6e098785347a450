package events

import (
	"context"
	"fmt"

	"github.com/serroba/shortkey/internal/shortener"
	"go.uber.org/zap"
)

// Replicator copies bindings from KeyBound events into a replica repository.
// TryInsert is idempotent, so redelivered events are harmless.
type Replicator struct {
	replica shortener.Repository
	logger  *zap.Logger
}

// NewReplicator creates a replicator writing into replica.
func NewReplicator(replica shortener.Repository, logger *zap.Logger) *Replicator {
	return &Replicator{
		replica: replica,
		logger:  logger,
	}
}

// Handle applies one KeyBound event. A replica that already binds the key to
// another URL is reported and skipped; retrying could never succeed.
func (r *Replicator) Handle(ctx context.Context, event *KeyBound) error {
	ok, err := r.replica.TryInsert(ctx, event.Key, event.URL)
	if err != nil {
		return fmt.Errorf("replicate key %s: %w", event.Key, err)
	}

	if !ok {
		r.logger.Error("replica binds key to a different url",
			zap.String("key", event.Key),
			zap.String("event_id", event.ID),
		)

		return nil
	}

	r.logger.Debug("replicated key",
		zap.String("key", event.Key),
		zap.String("event_id", event.ID),
	)

	return nil
}
