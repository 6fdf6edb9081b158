package ledger

import (
	"time"

	"github.com/uptrace/bun"
)

// EntryDao is the database model for a ledger entry
type EntryDao struct {
	bun.BaseModel         `bun:"table:blockchain_transactions,alias:bt"`
	ID                    int64      `bun:"id,pk,autoincrement"`
	AttemptID             string     `bun:"attempt_id,notnull,unique,type:uuid"`
	TxType                string     `bun:"tx_type,notnull,type:varchar(32)"`
	TxHash                *string    `bun:"tx_hash,unique,type:varchar(66)"`
	FromAddress           string     `bun:"from_address,notnull,type:varchar(42)"`
	ToAddress             string     `bun:"to_address,notnull,type:varchar(42)"`
	Status                string     `bun:"status,notnull,type:varchar(16),default:'pending'"`
	BlockNumber           *int64     `bun:"block_number"`
	GasUsed               *int64     `bun:"gas_used"`
	ErrorMessage          *string    `bun:"error_message,type:text"`
	RelatedNotificationID *int64     `bun:"related_notification_id"`
	CreatedAt             time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ConfirmedAt           *time.Time `bun:"confirmed_at"`
}

func toEntry(dao *EntryDao) *Entry {
	e := &Entry{
		ID:                    dao.ID,
		AttemptID:             dao.AttemptID,
		Type:                  Type(dao.TxType),
		From:                  dao.FromAddress,
		To:                    dao.ToAddress,
		Status:                Status(dao.Status),
		RelatedNotificationID: dao.RelatedNotificationID,
		CreatedAt:             dao.CreatedAt,
		ConfirmedAt:           dao.ConfirmedAt,
	}
	if dao.TxHash != nil {
		e.TxHash = *dao.TxHash
	}
	if dao.BlockNumber != nil {
		v := uint64(*dao.BlockNumber)
		e.BlockNumber = &v
	}
	if dao.GasUsed != nil {
		v := uint64(*dao.GasUsed)
		e.GasUsed = &v
	}
	if dao.ErrorMessage != nil {
		e.ErrorMessage = *dao.ErrorMessage
	}
	return e
}

func toEntries(daos []EntryDao) []*Entry {
	entries := make([]*Entry, len(daos))
	for i := range daos {
		entries[i] = toEntry(&daos[i])
	}
	return entries
}
