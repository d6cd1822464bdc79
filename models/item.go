package models

import "time"

const ItemTable = "inv_items"

// ItemStatus 物品状态：可借 / 借出中 / 已盘点
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemOnLoan    ItemStatus = "on_loan"
	ItemScanned   ItemStatus = "scanned"
)

// Item 唯一件物品，条码是业务主键
// 状态只能由 Scan/Loan/Return 三条路径改写；
// ScanTimestamp 与 scanned 状态同生同灭（同一条 UPDATE 里设置/清除）
type Item struct {
	ID       string     `gorm:"type:uuid;primaryKey" json:"id"`
	Barcode  string     `gorm:"size:120;uniqueIndex;not null" json:"barcode"`
	Name     string     `gorm:"size:200;not null" json:"name"`
	Brand    string     `gorm:"size:120" json:"brand,omitempty"`
	Color    string     `gorm:"size:60" json:"color,omitempty"`
	Size     string     `gorm:"size:60" json:"size,omitempty"`
	Price    int64      `gorm:"not null;default:0" json:"price"` // 最小货币单位
	Category string     `gorm:"size:120;index" json:"category,omitempty"`
	Status   ItemStatus `gorm:"size:20;not null;default:'available';index" json:"status"`

	ScanTimestamp *time.Time `gorm:"index" json:"scanTimestamp,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
