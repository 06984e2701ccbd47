package model

import "time"

type SyncAction string

const (
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
)

type SyncDirection string

const (
	SyncDirectionLocalToFudo SyncDirection = "local_to_fudo"
	SyncDirectionFudoToLocal SyncDirection = "fudo_to_local"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
)

// SyncLogEntry is write-once: rows are inserted and never updated.
type SyncLogEntry struct {
	ID           string        `db:"id" json:"id"`
	ProductID    string        `db:"product_id" json:"product_id"`
	Action       SyncAction    `db:"action" json:"action"`
	Direction    SyncDirection `db:"direction" json:"direction"`
	Details      *string       `db:"details" json:"details"`
	Status       SyncStatus    `db:"status" json:"status"`
	ErrorMessage *string       `db:"error_message" json:"error_message,omitempty"`
	PerformedBy  string        `db:"performed_by" json:"performed_by"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}
