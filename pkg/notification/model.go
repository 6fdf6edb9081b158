package notification

import (
	"time"

	"github.com/uptrace/bun"
)

// NotificationDao is the database model for a death notification
type NotificationDao struct {
	bun.BaseModel       `bun:"table:death_notifications,alias:dn"`
	ID                  int64      `bun:"id,pk,autoincrement"`
	PatientHash         string     `bun:"patient_hash,notnull,type:varchar(66)"`
	DeathDatetime       time.Time  `bun:"death_datetime,notnull"`
	InstitutionID       *int64     `bun:"institution_id"`
	NotifiedBy          *int64     `bun:"notified_by"`
	Status              string     `bun:"status,notnull,type:varchar(16),default:'pending'"`
	TxHash              *string    `bun:"blockchain_tx_hash,unique,type:varchar(66)"`
	Confirmed           bool       `bun:"blockchain_confirmed,notnull,default:false"`
	OnChainID           *int64     `bun:"blockchain_notification_id"`
	IPFSHash            *string    `bun:"ipfs_hash,type:text"`
	SubmissionStartedAt *time.Time `bun:"submission_started_at"`
	CreatedAt           time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt           time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// AuditDao is the database model for an audit log row
type AuditDao struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`
	ID            int64          `bun:"id,pk,autoincrement"`
	UserID        *int64         `bun:"user_id"`
	Action        string         `bun:"action,notnull,type:varchar(64)"`
	EntityType    string         `bun:"entity_type,notnull,type:varchar(64)"`
	EntityID      int64          `bun:"entity_id,notnull"`
	OldValues     map[string]any `bun:"old_values,type:jsonb"`
	NewValues     map[string]any `bun:"new_values,type:jsonb"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toNotificationDao(n *Notification) *NotificationDao {
	dao := &NotificationDao{
		ID:            n.ID,
		PatientHash:   n.PatientHash,
		DeathDatetime: n.DeathDatetime,
		InstitutionID: n.InstitutionID,
		NotifiedBy:    n.NotifiedBy,
		Status:        string(n.Status),
		Confirmed:     n.Confirmed,
		OnChainID:     n.OnChainID,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
	if dao.Status == "" {
		dao.Status = string(StatusPending)
	}
	if n.TxHash != "" {
		dao.TxHash = &n.TxHash
	}
	if n.IPFSHash != "" {
		dao.IPFSHash = &n.IPFSHash
	}
	return dao
}

func toNotification(dao *NotificationDao) *Notification {
	n := &Notification{
		ID:            dao.ID,
		PatientHash:   dao.PatientHash,
		DeathDatetime: dao.DeathDatetime,
		InstitutionID: dao.InstitutionID,
		NotifiedBy:    dao.NotifiedBy,
		Status:        Status(dao.Status),
		Confirmed:     dao.Confirmed,
		OnChainID:     dao.OnChainID,
		CreatedAt:     dao.CreatedAt,
		UpdatedAt:     dao.UpdatedAt,
	}
	if dao.TxHash != nil {
		n.TxHash = *dao.TxHash
	}
	if dao.IPFSHash != nil {
		n.IPFSHash = *dao.IPFSHash
	}
	return n
}

func toAuditEntry(dao *AuditDao) *AuditEntry {
	return &AuditEntry{
		ID:         dao.ID,
		UserID:     dao.UserID,
		Action:     dao.Action,
		EntityType: dao.EntityType,
		EntityID:   dao.EntityID,
		OldValues:  dao.OldValues,
		NewValues:  dao.NewValues,
		CreatedAt:  dao.CreatedAt,
	}
}
