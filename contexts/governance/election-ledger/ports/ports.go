package ports

import (
	"context"
	"time"

	"psephos/contexts/governance/election-ledger/domain/entities"
	"psephos/internal/shared/events"
)

// LedgerRepository is the single shared store behind the four sub-models.
// Mutating use cases run their read-validate-write sequence inside WithinTx;
// the repository guarantees the callback executes as one serializable,
// all-or-nothing transaction with the rows it reads protected from
// concurrent writers until commit.
type LedgerRepository interface {
	// InsertElection assigns the next monotonic election ID and persists the
	// record. IDs are never reused.
	InsertElection(ctx context.Context, election entities.Election) (entities.Election, error)
	GetElection(ctx context.Context, electionID uint64) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	UpdateElection(ctx context.Context, election entities.Election) error

	// InsertCandidate assigns the next per-election candidate ID (starting
	// at 1) and persists the record.
	InsertCandidate(ctx context.Context, candidate entities.Candidate) (entities.Candidate, error)
	GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error)
	GetCandidateByNominator(ctx context.Context, electionID uint64, nominator string) (entities.Candidate, bool, error)
	ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error)
	UpdateCandidate(ctx context.Context, candidate entities.Candidate) error

	GetVoter(ctx context.Context, electionID uint64, address string) (entities.VoterRecord, bool, error)
	SaveVoter(ctx context.Context, voter entities.VoterRecord) error

	// AppendEvent adds an audit event row that commits atomically with the
	// state change it describes.
	AppendEvent(ctx context.Context, message OutboxMessage) error

	WithinTx(ctx context.Context, fn func(tx LedgerRepository) error) error
}

// OutboxMessage is an audit event row ready to relay to the message bus.
type OutboxMessage struct {
	MessageID   string
	EventType   string
	ElectionID  uint64
	Payload     []byte
	Status      string
	OccurredAt  time.Time
	PublishedAt *time.Time
}

type OutboxRepository interface {
	ListPendingEvents(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkEventPublished(ctx context.Context, messageID string, publishedAt time.Time) error
}

// EventEnvelope reuses the canonical cross-module envelope contract.
type EventEnvelope = events.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// BalanceSource is the external token-ledger collaborator. The returned
// balance must be non-negative and stable for the duration of a single
// castVote transaction.
type BalanceSource interface {
	BalanceOf(ctx context.Context, address string) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
