package models

import "time"

const ActivityLogTable = "inv_activity_log"

// 动作类型，写进审计流水
const (
	ActionScan       = "scan"
	ActionScanReset  = "scan_reset"
	ActionLoanCreate = "loan_create"
	ActionReturn     = "return"
	ActionReturnBulk = "return_bulk"
	ActionImport     = "import"
)

// ActivityLog 只追加的操作流水，正常运行不改不删
type ActivityLog struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	Actor      string `gorm:"size:200;not null" json:"actor"`
	Action     string `gorm:"size:40;not null;index" json:"action"`
	EntityType string `gorm:"size:40;not null" json:"entityType"`
	EntityID   string `gorm:"size:120;index" json:"entityId"`
	Detail     string `gorm:"type:text" json:"detail,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ActivityLog) TableName() string { return ActivityLogTable }
