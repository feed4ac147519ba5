package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"psephos/contexts/governance/token-ledger/domain/entities"
	"psephos/contexts/governance/token-ledger/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountModel struct {
	Address   string    `gorm:"column:address;primaryKey"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "token_accounts" }

// Repository implements AccountRepository over gorm with FOR UPDATE locks on
// account rows inside transactions.
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

// AutoMigrate creates the token account table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&accountModel{})
}

func (r *Repository) WithinTx(ctx context.Context, fn func(tx ports.AccountRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger, inTx: true})
	})
}

func (r *Repository) GetAccount(ctx context.Context, address string) (entities.Account, bool, error) {
	tx := r.db.WithContext(ctx)
	if r.inTx {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row accountModel
	err := tx.
		Where("address = ?", entities.NormalizeAddress(address)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, false, nil
		}
		r.logger.Error("token repository account read failed",
			"event", "token_repo_get_account_failed",
			"module", "governance/token-ledger",
			"layer", "adapter",
			"address", entities.NormalizeAddress(address),
			"error", err.Error(),
		)
		return entities.Account{}, false, err
	}
	return entities.Account{
		Address:   row.Address,
		Balance:   row.Balance,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *Repository) SaveAccount(ctx context.Context, account entities.Account) error {
	row := accountModel{
		Address:   entities.NormalizeAddress(account.Address),
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance":    row.Balance,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		r.logger.Error("token repository account save failed",
			"event", "token_repo_save_account_failed",
			"module", "governance/token-ledger",
			"layer", "adapter",
			"address", row.Address,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (r *Repository) TotalSupply(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).
		Error
	if err != nil {
		r.logger.Error("token repository supply read failed",
			"event", "token_repo_total_supply_failed",
			"module", "governance/token-ledger",
			"layer", "adapter",
			"error", err.Error(),
		)
		return 0, err
	}
	return total, nil
}

// SystemClock is the production time source.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
