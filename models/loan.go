package models

import "time"

const LoanTable = "inv_loans"
const LoanItemTable = "inv_loan_items"
const InvoiceCounterTable = "inv_invoice_counters"

type LoanStatus string

const (
	LoanOpen      LoanStatus = "open"
	LoanCompleted LoanStatus = "completed"
)

type LoanItemStatus string

const (
	LoanItemOnLoan   LoanItemStatus = "on_loan"
	LoanItemReturned LoanItemStatus = "returned"
)

// Loan 借用单（事务头），与它的 LoanItem 同一事务创建
// Status 是派生字段：所有明细归还即 completed，归还路径写回，不单独可设
type Loan struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNo    string `gorm:"size:40;uniqueIndex;not null" json:"invoiceNo"`
	BorrowerID   string `gorm:"size:60;index;not null" json:"borrowerId"`
	BorrowerName string `gorm:"size:200;not null" json:"borrowerName"` // 借用时快照
	Inputter     string `gorm:"size:200;not null" json:"inputter"`
	Program      string `gorm:"size:255" json:"program,omitempty"`
	Reason       string `gorm:"type:text" json:"reason,omitempty"`
	Signature    []byte `gorm:"type:bytea" json:"-"`

	DueDate time.Time  `gorm:"not null" json:"dueDate"`
	Status  LoanStatus `gorm:"size:20;not null;default:'open';index" json:"status"`

	Items []LoanItem `gorm:"foreignKey:LoanID" json:"items,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoanItem 借用明细。一张单里同一条码只出现一次（复合唯一索引），
// 全库同一条码最多一条未归还明细（部分唯一索引，见 db.Migrate）
type LoanItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	LoanID  string `gorm:"type:uuid;index;not null;uniqueIndex:uniq_loan_barcode" json:"loanId"`
	Barcode string `gorm:"size:120;index;not null;uniqueIndex:uniq_loan_barcode" json:"barcode"`

	Status     LoanItemStatus `gorm:"size:20;not null;default:'on_loan';index" json:"status"`
	ReturnedAt *time.Time     `gorm:"index" json:"returnedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceCounter 每日发票流水：Day = "YYYYMMDD"
// 事务里 UPDATE seq = seq + 1 抢行锁，天然串行化同日并发开单
type InvoiceCounter struct {
	Day string `gorm:"size:8;primaryKey" json:"day"`
	Seq int64  `gorm:"not null;default:0" json:"seq"`
}

func (Loan) TableName() string           { return LoanTable }
func (LoanItem) TableName() string       { return LoanItemTable }
func (InvoiceCounter) TableName() string { return InvoiceCounterTable }
