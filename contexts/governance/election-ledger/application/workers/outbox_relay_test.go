package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"psephos/contexts/governance/election-ledger/adapters/memory"
	"psephos/contexts/governance/election-ledger/application/workers"
	"psephos/contexts/governance/election-ledger/ports"
)

type capturingPublisher struct {
	topics    []string
	envelopes []ports.EventEnvelope
	failAfter int
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAfter > 0 && len(p.envelopes) >= p.failAfter {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func seedOutbox(t *testing.T, store *memory.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := store.AppendEvent(context.Background(), ports.OutboxMessage{
			MessageID:  id,
			EventType:  "vote.cast",
			ElectionID: 3,
			Payload:    []byte(`{"weight":10}`),
			Status:     "pending",
			OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("seed append failed: %v", err)
		}
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "msg-1", "msg-2")
	publisher := &capturingPublisher{}

	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     fixedClock{now: time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)},
		Source:    "psephos",
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected 2 published envelopes, got %d", len(publisher.envelopes))
	}
	first := publisher.envelopes[0]
	if first.EventID != "msg-1" || first.EventType != "vote.cast" {
		t.Fatalf("unexpected envelope: %+v", first)
	}
	if first.SourceService != "psephos" || first.EntityType != "election" || first.EntityID != "3" {
		t.Fatalf("unexpected envelope routing fields: %+v", first)
	}
	if publisher.topics[0] != "vote.cast" {
		t.Fatalf("expected event type as topic, got %s", publisher.topics[0])
	}

	pending, err := store.ListPendingEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after relay, got %d", len(pending))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "msg-1", "msg-2", "msg-3")
	publisher := &capturingPublisher{failAfter: 1}

	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     fixedClock{now: time.Now().UTC()},
		Source:    "psephos",
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected relay to surface publish failure")
	}

	// The published row is marked, the failed and later rows stay pending.
	pending, err := store.ListPendingEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows after failure, got %d", len(pending))
	}
}

func TestOutboxRelayNoPending(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}

	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     fixedClock{now: time.Now().UTC()},
		Source:    "psephos",
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 0 {
		t.Fatalf("expected no publishes, got %d", len(publisher.envelopes))
	}
}
