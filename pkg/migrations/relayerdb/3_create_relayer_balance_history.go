package relayerdb

import (
	"context"
	"log"

	"github.com/corneanet/notification-relayer/pkg/balance"
	mghelper "github.com/corneanet/notification-relayer/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating relayer_balance_history table...")
		if err := mghelper.CreateSchema(ctx, db, &balance.SampleDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &balance.SampleDao{}, "recorded_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping relayer_balance_history table...")
		return mghelper.DropTables(ctx, db, &balance.SampleDao{})
	})
}
