package commands

import (
	"context"
	"encoding/json"
	"time"

	"psephos/contexts/governance/election-ledger/ports"
)

const (
	EventElectionCreated     = "election.created"
	EventElectionDeactivated = "election.deactivated"
	EventCandidateNominated  = "candidate.nominated"
	EventVoterRegistered     = "voter.registered"
	EventVoteCast            = "vote.cast"
)

// appendLedgerEvent writes one audit event row through the transactional
// repository handle so the event commits with the state change it describes.
func appendLedgerEvent(
	ctx context.Context,
	tx ports.LedgerRepository,
	idGen ports.IDGenerator,
	eventType string,
	electionID uint64,
	occurredAt time.Time,
	payload any,
) error {
	messageID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.AppendEvent(ctx, ports.OutboxMessage{
		MessageID:  messageID,
		EventType:  eventType,
		ElectionID: electionID,
		Payload:    body,
		Status:     "pending",
		OccurredAt: occurredAt,
	})
}
