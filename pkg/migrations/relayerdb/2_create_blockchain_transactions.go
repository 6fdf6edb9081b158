package relayerdb

import (
	"context"
	"log"

	"github.com/corneanet/notification-relayer/pkg/ledger"
	mghelper "github.com/corneanet/notification-relayer/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating blockchain_transactions table...")
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := mghelper.CreateSchema(ctx, tx, &ledger.EntryDao{}); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE blockchain_transactions
				ADD CONSTRAINT fk_blockchain_transactions_notification
				FOREIGN KEY (related_notification_id) REFERENCES death_notifications (id) ON DELETE SET NULL`,
			); err != nil {
				return err
			}
			return mghelper.CreateModelIndexes(ctx, tx, &ledger.EntryDao{}, "status", "related_notification_id", "created_at")
		})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping blockchain_transactions table...")
		return mghelper.DropTables(ctx, db, &ledger.EntryDao{})
	})
}
