package postgresadapter

import (
	"time"

	"psephos/contexts/governance/election-ledger/domain/entities"
	"psephos/contexts/governance/election-ledger/ports"
)

type electionModel struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description"`
	Creator         string    `gorm:"column:creator;not null;index"`
	NominationStart time.Time `gorm:"column:nomination_start;not null"`
	NominationEnd   time.Time `gorm:"column:nomination_end;not null"`
	VotingStart     time.Time `gorm:"column:voting_start;not null"`
	VotingEnd       time.Time `gorm:"column:voting_end;not null"`
	TotalVotes      int64     `gorm:"column:total_votes;not null;default:0"`
	Active          bool      `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string { return "elections" }

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:      m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Creator:         m.Creator,
		NominationStart: m.NominationStart,
		NominationEnd:   m.NominationEnd,
		VotingStart:     m.VotingStart,
		VotingEnd:       m.VotingEnd,
		TotalVotes:      m.TotalVotes,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func electionModelFromEntity(e entities.Election) electionModel {
	return electionModel{
		ID:              e.ElectionID,
		Name:            e.Name,
		Description:     e.Description,
		Creator:         e.Creator,
		NominationStart: e.NominationStart,
		NominationEnd:   e.NominationEnd,
		VotingStart:     e.VotingStart,
		VotingEnd:       e.VotingEnd,
		TotalVotes:      e.TotalVotes,
		Active:          e.Active,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

type candidateModel struct {
	ElectionID   uint64    `gorm:"column:election_id;primaryKey;autoIncrement:false;uniqueIndex:idx_candidates_election_nominator"`
	CandidateID  uint64    `gorm:"column:candidate_id;primaryKey;autoIncrement:false"`
	Nominator    string    `gorm:"column:nominator;not null;uniqueIndex:idx_candidates_election_nominator"`
	Name         string    `gorm:"column:name;not null"`
	ManifestoURI string    `gorm:"column:manifesto_uri"`
	VoteCount    int64     `gorm:"column:vote_count;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string { return "candidates" }

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ElectionID:   m.ElectionID,
		CandidateID:  m.CandidateID,
		Nominator:    m.Nominator,
		Name:         m.Name,
		ManifestoURI: m.ManifestoURI,
		VoteCount:    m.VoteCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func candidateModelFromEntity(c entities.Candidate) candidateModel {
	return candidateModel{
		ElectionID:   c.ElectionID,
		CandidateID:  c.CandidateID,
		Nominator:    c.Nominator,
		Name:         c.Name,
		ManifestoURI: c.ManifestoURI,
		VoteCount:    c.VoteCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type voterModel struct {
	ElectionID       uint64    `gorm:"column:election_id;primaryKey;autoIncrement:false"`
	Address          string    `gorm:"column:address;primaryKey"`
	Registered       bool      `gorm:"column:registered;not null;default:false"`
	HasVoted         bool      `gorm:"column:has_voted;not null;default:false"`
	VotedCandidateID *uint64   `gorm:"column:voted_candidate_id"`
	WeightAtVoteTime *int64    `gorm:"column:weight_at_vote_time"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (voterModel) TableName() string { return "voters" }

func (m voterModel) toEntity() entities.VoterRecord {
	return entities.VoterRecord{
		ElectionID:       m.ElectionID,
		Address:          m.Address,
		Registered:       m.Registered,
		HasVoted:         m.HasVoted,
		VotedCandidateID: m.VotedCandidateID,
		WeightAtVoteTime: m.WeightAtVoteTime,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func voterModelFromEntity(v entities.VoterRecord) voterModel {
	return voterModel{
		ElectionID:       v.ElectionID,
		Address:          v.Address,
		Registered:       v.Registered,
		HasVoted:         v.HasVoted,
		VotedCandidateID: v.VotedCandidateID,
		WeightAtVoteTime: v.WeightAtVoteTime,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type;not null;index"`
	ElectionID  uint64     `gorm:"column:election_id;not null;index"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status;not null;index"`
	OccurredAt  time.Time  `gorm:"column:occurred_at;not null"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "ledger_outbox" }

func (m outboxModel) toMessage() ports.OutboxMessage {
	return ports.OutboxMessage{
		MessageID:   m.ID,
		EventType:   m.EventType,
		ElectionID:  m.ElectionID,
		Payload:     m.Payload,
		Status:      m.Status,
		OccurredAt:  m.OccurredAt,
		PublishedAt: m.PublishedAt,
	}
}

// Models lists the ledger row models for migration: the three spec tables
// plus the audit outbox.
func Models() []any {
	return []any{
		&electionModel{},
		&candidateModel{},
		&voterModel{},
		&outboxModel{},
	}
}
