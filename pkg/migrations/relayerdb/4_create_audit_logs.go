package relayerdb

import (
	"context"
	"log"

	"github.com/corneanet/notification-relayer/pkg/notification"
	mghelper "github.com/corneanet/notification-relayer/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating audit_logs table...")
		if err := mghelper.CreateSchema(ctx, db, &notification.AuditDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &notification.AuditDao{}, "entity_id", "action")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping audit_logs table...")
		return mghelper.DropTables(ctx, db, &notification.AuditDao{})
	})
}
