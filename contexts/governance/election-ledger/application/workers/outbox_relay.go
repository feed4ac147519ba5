package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	application "psephos/contexts/governance/election-ledger/application"
	"psephos/contexts/governance/election-ledger/ports"
)

// OutboxRelay publishes persisted ledger audit events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Source    string
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending audit rows and marks each row
// published only after the bus accepts it. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingEvents(ctx, limit)
	if err != nil {
		logger.Error("ledger outbox list failed",
			"event", "ledger_outbox_list_failed",
			"module", "governance/election-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("ledger outbox relay found no pending rows",
			"event", "ledger_outbox_relay_noop",
			"module", "governance/election-ledger",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		event := ports.EventEnvelope{
			EventID:       row.MessageID,
			EventType:     row.EventType,
			SourceService: r.Source,
			OccurredAt:    row.OccurredAt,
			EntityType:    "election",
			EntityID:      strconv.FormatUint(row.ElectionID, 10),
			Payload:       json.RawMessage(row.Payload),
		}
		if err := r.Publisher.Publish(ctx, row.EventType, event); err != nil {
			logger.Error("ledger outbox publish failed",
				"event", "ledger_outbox_publish_failed",
				"module", "governance/election-ledger",
				"layer", "worker",
				"message_id", row.MessageID,
				"event_type", row.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkEventPublished(ctx, row.MessageID, now); err != nil {
			logger.Error("ledger outbox mark published failed",
				"event", "ledger_outbox_mark_published_failed",
				"module", "governance/election-ledger",
				"layer", "worker",
				"message_id", row.MessageID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("ledger outbox relay cycle completed",
		"event", "ledger_outbox_relay_completed",
		"module", "governance/election-ledger",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
