package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"psephos/contexts/governance/election-ledger/domain/entities"
	domainerrors "psephos/contexts/governance/election-ledger/domain/errors"
	"psephos/contexts/governance/election-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository implements LedgerRepository over gorm. WithinTx hands the use
// case a transactional copy whose row reads take FOR UPDATE locks, so two
// concurrent casts from one address serialize on the voter row and exactly
// one observes the untripped latch.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
	inTx   bool
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the ledger tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func (r *Repository) WithinTx(ctx context.Context, fn func(tx ports.LedgerRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger, inTx: true})
	})
}

// query applies FOR UPDATE row locking inside transactions so validated rows
// cannot change before the effect block commits.
func (r *Repository) query(ctx context.Context) *gorm.DB {
	tx := r.db.WithContext(ctx)
	if r.inTx {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (r *Repository) InsertElection(ctx context.Context, election entities.Election) (entities.Election, error) {
	row := electionModelFromEntity(election)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Election{}, r.logError("ledger_repo_insert_election_failed", err,
			"name", election.Name,
			"creator", election.Creator,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetElection(ctx context.Context, electionID uint64) (entities.Election, error) {
	var row electionModel
	err := r.query(ctx).
		Where("id = ?", electionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("ledger_repo_get_election_failed", err, "election_id", electionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_elections_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"total_votes": row.TotalVotes,
			"active":      row.Active,
			"updated_at":  row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_update_election_failed", result.Error, "election_id", row.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) InsertCandidate(ctx context.Context, candidate entities.Candidate) (entities.Candidate, error) {
	row := candidateModelFromEntity(candidate)
	row.Nominator = entities.NormalizeAddress(row.Nominator)
	var maxID uint64
	err := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("election_id = ?", row.ElectionID).
		Select("COALESCE(MAX(candidate_id), 0)").
		Scan(&maxID).
		Error
	if err != nil {
		return entities.Candidate{}, r.logError("ledger_repo_candidate_seq_failed", err, "election_id", row.ElectionID)
	}
	row.CandidateID = maxID + 1
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Candidate{}, domainerrors.ErrDuplicateCandidacy
		}
		return entities.Candidate{}, r.logError("ledger_repo_insert_candidate_failed", err,
			"election_id", row.ElectionID,
			"nominator", row.Nominator,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error) {
	var row candidateModel
	err := r.query(ctx).
		Where("election_id = ?", electionID).
		Where("candidate_id = ?", candidateID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, false, nil
		}
		return entities.Candidate{}, false, r.logError("ledger_repo_get_candidate_failed", err,
			"election_id", electionID,
			"candidate_id", candidateID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetCandidateByNominator(ctx context.Context, electionID uint64, nominator string) (entities.Candidate, bool, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Where("LOWER(nominator) = LOWER(?)", strings.TrimSpace(nominator)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, false, nil
		}
		return entities.Candidate{}, false, r.logError("ledger_repo_get_candidate_by_nominator_failed", err,
			"election_id", electionID,
			"nominator", strings.TrimSpace(nominator),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("candidate_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_candidates_failed", err, "election_id", electionID)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	result := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("election_id = ?", row.ElectionID).
		Where("candidate_id = ?", row.CandidateID).
		Updates(map[string]any{
			"vote_count": row.VoteCount,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_update_candidate_failed", result.Error,
			"election_id", row.ElectionID,
			"candidate_id", row.CandidateID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnknownCandidate
	}
	return nil
}

func (r *Repository) GetVoter(ctx context.Context, electionID uint64, address string) (entities.VoterRecord, bool, error) {
	var row voterModel
	err := r.query(ctx).
		Where("election_id = ?", electionID).
		Where("address = ?", entities.NormalizeAddress(address)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoterRecord{}, false, nil
		}
		return entities.VoterRecord{}, false, r.logError("ledger_repo_get_voter_failed", err,
			"election_id", electionID,
			"address", strings.TrimSpace(address),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveVoter(ctx context.Context, voter entities.VoterRecord) error {
	row := voterModelFromEntity(voter)
	row.Address = entities.NormalizeAddress(row.Address)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}, {Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"registered":          row.Registered,
			"has_voted":           row.HasVoted,
			"voted_candidate_id":  row.VotedCandidateID,
			"weight_at_vote_time": row.WeightAtVoteTime,
			"updated_at":          row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("ledger_repo_save_voter_failed", err,
			"election_id", row.ElectionID,
			"address", row.Address,
		)
	}
	return nil
}

func (r *Repository) AppendEvent(ctx context.Context, message ports.OutboxMessage) error {
	if message.MessageID == "" {
		message.MessageID = uuid.NewString()
	}
	row := outboxModel{
		ID:          message.MessageID,
		EventType:   message.EventType,
		ElectionID:  message.ElectionID,
		Payload:     message.Payload,
		Status:      message.Status,
		OccurredAt:  message.OccurredAt,
		PublishedAt: message.PublishedAt,
	}
	if row.Status == "" {
		row.Status = outboxStatusPending
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_append_event_failed", err,
			"event_type", row.EventType,
			"election_id", row.ElectionID,
		)
	}
	return nil
}

func (r *Repository) ListPendingEvents(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("occurred_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_pending_events_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkEventPublished(ctx context.Context, messageID string, publishedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", messageID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt,
		}).
		Error
	if err != nil {
		return r.logError("ledger_repo_mark_event_published_failed", err, "message_id", messageID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/election-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// SystemClock is the production time source.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator issues ids for audit event rows.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
