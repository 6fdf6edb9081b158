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
		log.Println("creating death_notifications table...")
		if err := mghelper.CreateSchema(ctx, db, &notification.NotificationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &notification.NotificationDao{}, "status", "patient_hash")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping death_notifications table...")
		return mghelper.DropTables(ctx, db, &notification.NotificationDao{})
	})
}
