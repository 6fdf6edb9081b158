package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Store persists balance samples
type Store interface {
	Insert(ctx context.Context, sample *Sample) error
	List(ctx context.Context, limit int) ([]*Sample, error)
}

// SampleDao is the database model for a balance sample
type SampleDao struct {
	bun.BaseModel `bun:"table:relayer_balance_history,alias:rbh"`
	ID            int64     `bun:"id,pk,autoincrement"`
	BalanceWei    string    `bun:"balance_wei,notnull,type:numeric(78,0)"`
	BalanceEth    string    `bun:"balance_eth,notnull,type:varchar(96)"`
	ChangeReason  string    `bun:"change_reason,type:varchar(255)"`
	RecordedAt    time.Time `bun:"recorded_at,nullzero,notnull,default:current_timestamp"`
}

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the balance store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Insert(ctx context.Context, sample *Sample) error {
	dao := &SampleDao{
		BalanceWei:   sample.BaseUnits.String(),
		BalanceEth:   sample.Decimal,
		ChangeReason: sample.Reason,
	}
	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, recorded_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert balance sample: %w", err)
	}
	sample.ID = dao.ID
	sample.RecordedAt = dao.RecordedAt
	return nil
}

func (s *pgStore) List(ctx context.Context, limit int) ([]*Sample, error) {
	if limit <= 0 {
		limit = 100
	}
	var daos []SampleDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("recorded_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance samples: %w", err)
	}

	samples := make([]*Sample, 0, len(daos))
	for i := range daos {
		sample, err := toSample(&daos[i])
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
