package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the ledger store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) RecordAttempt(ctx context.Context, attempt Attempt) (*Entry, error) {
	dao := &EntryDao{
		AttemptID:             uuid.NewString(),
		TxType:                string(attempt.Type),
		FromAddress:           attempt.From,
		ToAddress:             attempt.To,
		Status:                string(StatusPending),
		RelatedNotificationID: attempt.RelatedNotificationID,
	}

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	return toEntry(dao), nil
}

func (s *pgStore) AttachHash(ctx context.Context, id int64, txHash string) error {
	res, err := s.db.NewUpdate().
		Model((*EntryDao)(nil)).
		Set("tx_hash = ?", txHash).
		Where("id = ?", id).
		Where("tx_hash IS NULL").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateHash, txHash)
		}
		return fmt.Errorf("failed to attach hash: %w", err)
	}
	if affected(res) == 1 {
		return nil
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.TxHash == txHash {
		return nil
	}
	return fmt.Errorf("%w: entry %d has %s", ErrHashImmutable, id, existing.TxHash)
}

func (s *pgStore) MarkFailed(ctx context.Context, id int64, errText string) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*EntryDao)(nil)).
		Set("status = ?", StatusFailed).
		Set("error_message = ?", errText).
		Set("confirmed_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to mark entry failed: %w", err)
	}
	if affected(res) == 1 {
		return true, nil
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing.Status == StatusFailed && existing.ErrorMessage == errText {
		return false, nil
	}
	return false, fmt.Errorf("%w: entry %d is %s, cannot fail", ErrInvalidTransition, id, existing.Status)
}

func (s *pgStore) MarkConfirmed(ctx context.Context, id int64, blockNumber, gasUsed uint64) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*EntryDao)(nil)).
		Set("status = ?", StatusConfirmed).
		Set("block_number = ?", int64(blockNumber)).
		Set("gas_used = ?", int64(gasUsed)).
		Set("confirmed_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Where("tx_hash IS NOT NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to mark entry confirmed: %w", err)
	}
	if affected(res) == 1 {
		return true, nil
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing.Status == StatusConfirmed &&
		existing.BlockNumber != nil && *existing.BlockNumber == blockNumber &&
		existing.GasUsed != nil && *existing.GasUsed == gasUsed {
		return false, nil
	}
	return false, fmt.Errorf("%w: entry %d is %s, cannot confirm at block %d", ErrInvalidTransition, id, existing.Status, blockNumber)
}

func (s *pgStore) ListPending(ctx context.Context) ([]*Entry, error) {
	var daos []EntryDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", StatusPending).
		Where("tx_hash IS NOT NULL").
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending entries: %w", err)
	}
	return toEntries(daos), nil
}

func (s *pgStore) ListForNotification(ctx context.Context, notificationID int64) ([]*Entry, error) {
	var daos []EntryDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("related_notification_id = ?", notificationID).
		Order("created_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for notification %d: %w", notificationID, err)
	}
	return toEntries(daos), nil
}

func (s *pgStore) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	var daos []EntryDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC", "id DESC").
		Limit(ClampLimit(limit)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return toEntries(daos), nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Entry, error) {
	dao := new(EntryDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return toEntry(dao), nil
}

func affected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
