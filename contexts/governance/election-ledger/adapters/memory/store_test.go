package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"psephos/contexts/governance/election-ledger/adapters/memory"
	"psephos/contexts/governance/election-ledger/domain/entities"
	domainerrors "psephos/contexts/governance/election-ledger/domain/errors"
	"psephos/contexts/governance/election-ledger/ports"
)

func TestStoreAssignsSequentialCandidateIDs(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	election, err := store.InsertElection(ctx, entities.Election{Name: "council", Active: true})
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}

	for i, nominator := range []string{"0xa", "0xb", "0xc"} {
		candidate, err := store.InsertCandidate(ctx, entities.Candidate{
			ElectionID: election.ElectionID,
			Nominator:  nominator,
			Name:       nominator,
		})
		if err != nil {
			t.Fatalf("insert candidate failed: %v", err)
		}
		if candidate.CandidateID != uint64(i+1) {
			t.Fatalf("expected candidate id %d, got %d", i+1, candidate.CandidateID)
		}
	}

	other, err := store.InsertElection(ctx, entities.Election{Name: "board", Active: true})
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}
	candidate, err := store.InsertCandidate(ctx, entities.Candidate{ElectionID: other.ElectionID, Nominator: "0xd", Name: "d"})
	if err != nil {
		t.Fatalf("insert candidate failed: %v", err)
	}
	if candidate.CandidateID != 1 {
		t.Fatalf("candidate ids must restart per election, got %d", candidate.CandidateID)
	}
}

func TestStoreWithinTxSeesOwnWrites(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		election, err := tx.InsertElection(ctx, entities.Election{Name: "council", Active: true})
		if err != nil {
			return err
		}
		loaded, err := tx.GetElection(ctx, election.ElectionID)
		if err != nil {
			return err
		}
		loaded.TotalVotes = 10
		return tx.UpdateElection(ctx, loaded)
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	election, err := store.GetElection(ctx, 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if election.TotalVotes != 10 {
		t.Fatalf("expected committed total 10, got %d", election.TotalVotes)
	}
}

func TestStoreUnknownElection(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if _, err := store.GetElection(ctx, 7); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.UpdateElection(ctx, entities.Election{ElectionID: 7}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestStoreOutboxLifecycle(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	for _, id := range []string{"msg-1", "msg-2", "msg-3"} {
		err := store.AppendEvent(ctx, ports.OutboxMessage{
			MessageID:  id,
			ElectionID: 1,
			EventType:  "vote.cast",
			Payload:    []byte(`{}`),
			Status:     "pending",
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	pending, err := store.ListPendingEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(pending))
	}

	if err := store.MarkEventPublished(ctx, "msg-1", time.Now().UTC()); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	remaining, err := store.ListPendingEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 still pending, got %d", len(remaining))
	}
	for _, row := range remaining {
		if row.MessageID == "msg-1" {
			t.Fatal("published message should not be listed as pending")
		}
	}
}

func TestStoreWithinTxRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		if _, err := tx.InsertElection(ctx, entities.Election{Name: "council", Active: true}); err != nil {
			return err
		}
		appendErr := tx.AppendEvent(ctx, ports.OutboxMessage{
			MessageID:  "msg-rolled-back",
			ElectionID: 1,
			EventType:  "election.created",
			Payload:    []byte(`{}`),
			Status:     "pending",
			OccurredAt: time.Now().UTC(),
		})
		if appendErr != nil {
			return appendErr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error back, got %v", err)
	}

	if _, err := store.GetElection(ctx, 1); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected rolled-back election to be gone, got %v", err)
	}
	pending, err := store.ListPendingEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected rolled-back events to be gone, got %d", len(pending))
	}

	// The id sequence rewinds with the rollback.
	election, err := store.InsertElection(ctx, entities.Election{Name: "board", Active: true})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if election.ElectionID != 1 {
		t.Fatalf("expected id 1 after rollback, got %d", election.ElectionID)
	}
}
