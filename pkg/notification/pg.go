package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the notification store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Create(ctx context.Context, n *Notification) error {
	dao := toNotificationDao(n)
	_, err := s.db.NewInsert().
		Model(dao).
		ExcludeColumn("id").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	*n = *toNotification(dao)
	return nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Notification, error) {
	return s.get(ctx, s.db, id)
}

func (s *pgStore) get(ctx context.Context, db bun.IDB, id int64) (*Notification, error) {
	dao := new(NotificationDao)
	err := db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return toNotification(dao), nil
}

func (s *pgStore) BeginSubmission(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*NotificationDao)(nil)).
		Set("status = ?", StatusSubmitting).
		Set("submission_started_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Where("blockchain_tx_hash IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin submission: %w", err)
	}
	return s.expectOne(ctx, s.db, res, id)
}

func (s *pgStore) AbortSubmission(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Model((*NotificationDao)(nil)).
		Set("status = ?", StatusPending).
		Set("submission_started_at = NULL").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", StatusSubmitting).
		Where("blockchain_tx_hash IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to abort submission: %w", err)
	}
	return s.expectOne(ctx, s.db, res, id)
}

func (s *pgStore) CompleteSubmission(ctx context.Context, id int64, txHash string, actorID int64, relayer string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*NotificationDao)(nil)).
			Set("blockchain_tx_hash = ?", txHash).
			Set("blockchain_confirmed = false").
			Set("status = ?", StatusSubmitted).
			Set("submission_started_at = NULL").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id).
			Where("status = ?", StatusSubmitting).
			Where("blockchain_tx_hash IS NULL").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to store transaction hash: %w", err)
		}
		if err := s.expectOne(ctx, tx, res, id); err != nil {
			return err
		}

		return insertAudit(ctx, tx, &AuditDao{
			UserID:     &actorID,
			Action:     AuditActionSubmit,
			EntityType: AuditEntityNotification,
			EntityID:   id,
			NewValues: map[string]any{
				"txHash":         txHash,
				"relayerAddress": relayer,
			},
		})
	})
}

func (s *pgStore) MarkConfirmed(ctx context.Context, id int64, txHash string, onChainID *int64) (bool, error) {
	changed := false
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*NotificationDao)(nil)).
			Set("blockchain_confirmed = true").
			Set("status = ?", StatusConfirmed).
			Set("blockchain_notification_id = COALESCE(?, blockchain_notification_id)", onChainID).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id).
			Where("blockchain_tx_hash = ?", txHash).
			Where("blockchain_confirmed = false").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to confirm notification: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		changed = true

		newValues := map[string]any{"txHash": txHash}
		if onChainID != nil {
			newValues["blockchainNotificationId"] = *onChainID
		}
		return insertAudit(ctx, tx, &AuditDao{
			Action:     AuditActionConfirm,
			EntityType: AuditEntityNotification,
			EntityID:   id,
			NewValues:  newValues,
		})
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (s *pgStore) ListStalled(ctx context.Context, cutoff time.Time) ([]*Notification, error) {
	var daos []NotificationDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", StatusSubmitting).
		Where("submission_started_at < ?", cutoff).
		Order("submission_started_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled notifications: %w", err)
	}
	out := make([]*Notification, len(daos))
	for i := range daos {
		out[i] = toNotification(&daos[i])
	}
	return out, nil
}

func (s *pgStore) ListUnconfirmed(ctx context.Context) ([]*Notification, error) {
	var daos []NotificationDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", StatusSubmitted).
		Where("blockchain_tx_hash IS NOT NULL").
		Where("blockchain_confirmed = false").
		Order("updated_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unconfirmed notifications: %w", err)
	}
	out := make([]*Notification, len(daos))
	for i := range daos {
		out[i] = toNotification(&daos[i])
	}
	return out, nil
}

func (s *pgStore) ListAudit(ctx context.Context, entityID int64) ([]*AuditEntry, error) {
	var daos []AuditDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("entity_type = ?", AuditEntityNotification).
		Where("entity_id = ?", entityID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	out := make([]*AuditEntry, len(daos))
	for i := range daos {
		out[i] = toAuditEntry(&daos[i])
	}
	return out, nil
}

func insertAudit(ctx context.Context, db bun.IDB, dao *AuditDao) error {
	if _, err := db.NewInsert().Model(dao).Exec(ctx); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// expectOne maps a conditional update that matched nothing to ErrNotFound or ErrSubmissionConflict.
func (s *pgStore) expectOne(ctx context.Context, db bun.IDB, res sql.Result, id int64) error {
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return nil
	}
	if _, err := s.get(ctx, db, id); err != nil {
		return err
	}
	return ErrSubmissionConflict
}
