package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"psephos/contexts/governance/election-ledger/domain/entities"
	domainerrors "psephos/contexts/governance/election-ledger/domain/errors"
	"psephos/contexts/governance/election-ledger/ports"

	"github.com/google/uuid"
)

type voterKey struct {
	electionID uint64
	address    string
}

// Store is the in-memory LedgerRepository used by tests and local wiring.
// One store-wide mutex serializes transactions: WithinTx holds the lock for
// the whole callback, which is exactly the "read eligibility, then write
// effect" indivisibility the ballot path needs.
type Store struct {
	mu sync.Mutex

	nextElectionID uint64
	elections      map[uint64]entities.Election
	candidates     map[uint64][]entities.Candidate
	voters         map[voterKey]entities.VoterRecord
	outbox         []ports.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		nextElectionID: 1,
		elections:      make(map[uint64]entities.Election),
		candidates:     make(map[uint64][]entities.Candidate),
		voters:         make(map[voterKey]entities.VoterRecord),
	}
}

// WithinTx runs fn under the store lock against an unlocked session view.
// The store state is snapshotted before fn runs; when fn returns an error
// every write made inside it is rolled back, matching the postgres adapter.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.LedgerRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.snapshot()
	if err := fn(&session{store: s}); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

type storeSnapshot struct {
	nextElectionID uint64
	elections      map[uint64]entities.Election
	candidates     map[uint64][]entities.Candidate
	voters         map[voterKey]entities.VoterRecord
	outboxLen      int
}

// snapshot copies the maps and candidate slices. Entity values are copied by
// assignment; the pointer fields on VoterRecord are set once at cast time and
// never mutated in place afterwards, so a shallow copy is enough.
func (s *Store) snapshot() storeSnapshot {
	saved := storeSnapshot{
		nextElectionID: s.nextElectionID,
		elections:      make(map[uint64]entities.Election, len(s.elections)),
		candidates:     make(map[uint64][]entities.Candidate, len(s.candidates)),
		voters:         make(map[voterKey]entities.VoterRecord, len(s.voters)),
		outboxLen:      len(s.outbox),
	}
	for id, election := range s.elections {
		saved.elections[id] = election
	}
	for id, roster := range s.candidates {
		saved.candidates[id] = append([]entities.Candidate(nil), roster...)
	}
	for key, voter := range s.voters {
		saved.voters[key] = voter
	}
	return saved
}

func (s *Store) restore(saved storeSnapshot) {
	s.nextElectionID = saved.nextElectionID
	s.elections = saved.elections
	s.candidates = saved.candidates
	s.voters = saved.voters
	s.outbox = s.outbox[:saved.outboxLen]
}

func (s *Store) InsertElection(ctx context.Context, election entities.Election) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).InsertElection(ctx, election)
}

func (s *Store) GetElection(ctx context.Context, electionID uint64) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).GetElection(ctx, electionID)
}

func (s *Store) ListElections(ctx context.Context) ([]entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).ListElections(ctx)
}

func (s *Store) UpdateElection(ctx context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).UpdateElection(ctx, election)
}

func (s *Store) InsertCandidate(ctx context.Context, candidate entities.Candidate) (entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).InsertCandidate(ctx, candidate)
}

func (s *Store) GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).GetCandidate(ctx, electionID, candidateID)
}

func (s *Store) GetCandidateByNominator(ctx context.Context, electionID uint64, nominator string) (entities.Candidate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).GetCandidateByNominator(ctx, electionID, nominator)
}

func (s *Store) ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).ListCandidates(ctx, electionID)
}

func (s *Store) UpdateCandidate(ctx context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).UpdateCandidate(ctx, candidate)
}

func (s *Store) GetVoter(ctx context.Context, electionID uint64, address string) (entities.VoterRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).GetVoter(ctx, electionID, address)
}

func (s *Store) SaveVoter(ctx context.Context, voter entities.VoterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).SaveVoter(ctx, voter)
}

func (s *Store) AppendEvent(ctx context.Context, message ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).AppendEvent(ctx, message)
}

func (s *Store) ListPendingEvents(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]ports.OutboxMessage, 0, limit)
	for _, message := range s.outbox {
		if message.Status != "pending" {
			continue
		}
		pending = append(pending, message)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkEventPublished(_ context.Context, messageID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].MessageID == messageID {
			at := publishedAt
			s.outbox[i].Status = "published"
			s.outbox[i].PublishedAt = &at
			return nil
		}
	}
	return nil
}

// session operates on the store maps without taking the lock. It backs both
// the public Store methods (which lock per call) and WithinTx bodies (which
// hold the lock across the callback).
type session struct {
	store *Store
}

func (t *session) WithinTx(ctx context.Context, fn func(tx ports.LedgerRepository) error) error {
	// Already inside the store lock; nested boundaries collapse.
	return fn(t)
}

func (t *session) InsertElection(_ context.Context, election entities.Election) (entities.Election, error) {
	election.ElectionID = t.store.nextElectionID
	t.store.nextElectionID++
	t.store.elections[election.ElectionID] = election
	return election, nil
}

func (t *session) GetElection(_ context.Context, electionID uint64) (entities.Election, error) {
	election, ok := t.store.elections[electionID]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (t *session) ListElections(_ context.Context) ([]entities.Election, error) {
	items := make([]entities.Election, 0, len(t.store.elections))
	for _, election := range t.store.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ElectionID < items[j].ElectionID
	})
	return items, nil
}

func (t *session) UpdateElection(_ context.Context, election entities.Election) error {
	if _, ok := t.store.elections[election.ElectionID]; !ok {
		return domainerrors.ErrElectionNotFound
	}
	t.store.elections[election.ElectionID] = election
	return nil
}

func (t *session) InsertCandidate(_ context.Context, candidate entities.Candidate) (entities.Candidate, error) {
	roster := t.store.candidates[candidate.ElectionID]
	candidate.CandidateID = uint64(len(roster)) + 1
	t.store.candidates[candidate.ElectionID] = append(roster, candidate)
	return candidate, nil
}

func (t *session) GetCandidate(_ context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error) {
	for _, candidate := range t.store.candidates[electionID] {
		if candidate.CandidateID == candidateID {
			return candidate, true, nil
		}
	}
	return entities.Candidate{}, false, nil
}

func (t *session) GetCandidateByNominator(_ context.Context, electionID uint64, nominator string) (entities.Candidate, bool, error) {
	nominator = strings.TrimSpace(nominator)
	for _, candidate := range t.store.candidates[electionID] {
		if strings.EqualFold(candidate.Nominator, nominator) {
			return candidate, true, nil
		}
	}
	return entities.Candidate{}, false, nil
}

func (t *session) ListCandidates(_ context.Context, electionID uint64) ([]entities.Candidate, error) {
	roster := t.store.candidates[electionID]
	items := make([]entities.Candidate, len(roster))
	copy(items, roster)
	return items, nil
}

func (t *session) UpdateCandidate(_ context.Context, candidate entities.Candidate) error {
	roster := t.store.candidates[candidate.ElectionID]
	for i := range roster {
		if roster[i].CandidateID == candidate.CandidateID {
			roster[i] = candidate
			return nil
		}
	}
	return domainerrors.ErrUnknownCandidate
}

func (t *session) GetVoter(_ context.Context, electionID uint64, address string) (entities.VoterRecord, bool, error) {
	voter, ok := t.store.voters[voterKey{electionID: electionID, address: entities.NormalizeAddress(address)}]
	return voter, ok, nil
}

func (t *session) SaveVoter(_ context.Context, voter entities.VoterRecord) error {
	voter.Address = entities.NormalizeAddress(voter.Address)
	t.store.voters[voterKey{electionID: voter.ElectionID, address: voter.Address}] = voter
	return nil
}

func (t *session) AppendEvent(_ context.Context, message ports.OutboxMessage) error {
	if message.MessageID == "" {
		message.MessageID = uuid.NewString()
	}
	t.store.outbox = append(t.store.outbox, message)
	return nil
}

// SystemClock is the production time source.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator issues ids for audit event rows.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
