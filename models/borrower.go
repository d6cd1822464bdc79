package models

import "time"

const BorrowerTable = "inv_borrowers"

// Borrower 借用人，NationalID 是唯一键（upsert 入口）
// Loan 只存借用时的姓名快照，删除 Borrower 不影响历史单据
type Borrower struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	NationalID string `gorm:"size:60;uniqueIndex;not null" json:"nationalId"`
	Name       string `gorm:"size:200;not null" json:"name"`
	Phone      string `gorm:"size:40" json:"phone,omitempty"`
	Email      string `gorm:"size:200" json:"email,omitempty"`
	Unit       string `gorm:"size:200" json:"unit,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Borrower) TableName() string { return BorrowerTable }
