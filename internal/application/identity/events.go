package identity

import (
	"go.uber.org/zap"

	"github.com/workforce/backend/internal/domain/shared"
)

// auditEvents writes the events an aggregate recorded during a
// mutation to the audit log and clears them. Called after the
// aggregate has been persisted so the log never shows changes that
// were rolled back.
func auditEvents(logger *zap.Logger, agg shared.AggregateRoot) {
	for _, ev := range agg.GetDomainEvents() {
		logger.Info("Audit event",
			zap.String("event", ev.GetEventType()),
			zap.String("aggregate_id", ev.GetAggregateID().String()),
			zap.Time("occurred_at", ev.GetOccurredAt()))
	}
	agg.ClearDomainEvents()
}
