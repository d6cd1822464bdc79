package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmptyLoan = errors.New("loan needs at least one item")
var ErrDuplicateBarcode = errors.New("duplicate barcode in loan")
var ErrBadLoanPeriod = errors.New("loan period must be positive")

// ItemUnavailableError：预订失败（物品不存在或不是 available），带条码好让前端刷新
type ItemUnavailableError struct{ Barcode string }

func (e ItemUnavailableError) Error() string {
	return fmt.Sprintf("item %s is not available for loan", e.Barcode)
}

type CreateLoanInput struct {
	BorrowerID   string
	BorrowerName string
	Inputter     string
	Program      string
	Reason       string
	Signature    []byte
	Barcodes     []string
	PeriodDays   int
}

// nextInvoiceNo 发票号 INV-YYYYMMDD-NNN，按日重置、当日递增。
// 不能数行再插（count-then-insert 在并发下会撞号）：
// 先 ON CONFLICT DO NOTHING 兜底建计数行，再 UPDATE seq = seq + 1——
// UPDATE 抢到行锁后，同日并发的开单事务在这里排队，一人一号。
// invoice_no 上的唯一索引是最后一道保险。
func nextInvoiceNo(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")
	if err := tx.Exec(
		`INSERT INTO `+models.InvoiceCounterTable+` (day, seq) VALUES (?, 0) ON CONFLICT (day) DO NOTHING`,
		day).Error; err != nil {
		return "", err
	}
	if err := tx.Exec(
		`UPDATE `+models.InvoiceCounterTable+` SET seq = seq + 1 WHERE day = ?`,
		day).Error; err != nil {
		return "", err
	}
	var seq int64
	if err := tx.Raw(
		`SELECT seq FROM `+models.InvoiceCounterTable+` WHERE day = ?`,
		day).Scan(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%03d", day, seq), nil
}

// CreateLoan 开借用单：一个事务里完成 发票号分配 → 单头插入 →
// 逐条码 CAS available→on_loan → 明细插入 → 流水。
// 任何一个条码占不到（不存在或不可借）整单回滚，绝不出半张单。
func (r *Repo) CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	if len(in.Barcodes) == 0 {
		return nil, ErrEmptyLoan
	}
	seen := make(map[string]bool, len(in.Barcodes))
	for _, b := range in.Barcodes {
		if seen[b] {
			return nil, ErrDuplicateBarcode
		}
		seen[b] = true
	}
	// 借期是调用方的决定（HTTP 层有可配置默认值），这里不偷偷兜底
	if in.PeriodDays <= 0 {
		return nil, ErrBadLoanPeriod
	}

	now := time.Now().UTC()
	loan := &models.Loan{
		ID:           uuid.NewString(),
		BorrowerID:   in.BorrowerID,
		BorrowerName: in.BorrowerName,
		Inputter:     in.Inputter,
		Program:      in.Program,
		Reason:       in.Reason,
		Signature:    in.Signature,
		DueDate:      now.AddDate(0, 0, in.PeriodDays),
		Status:       models.LoanOpen,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		no, err := nextInvoiceNo(tx, now)
		if err != nil {
			return err
		}
		loan.InvoiceNo = no

		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		lines := make([]models.LoanItem, 0, len(in.Barcodes))
		for _, b := range in.Barcodes {
			n, err := casStatus(tx, b, models.ItemAvailable, models.ItemOnLoan, nil)
			if err != nil {
				return err
			}
			if n == 0 {
				return ItemUnavailableError{Barcode: b}
			}
			lines = append(lines, models.LoanItem{
				LoanID:  loan.ID,
				Barcode: b,
				Status:  models.LoanItemOnLoan,
			})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		loan.Items = lines

		return logActivity(tx, in.Inputter, models.ActionLoanCreate, "loan", loan.InvoiceNo,
			fmt.Sprintf("%d items loaned to %s", len(lines), in.BorrowerName))
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *Repo) FindLoanByInvoice(ctx context.Context, invoiceNo string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).Preload("Items").
		First(&l, "invoice_no = ?", invoiceNo).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) ListLoans(ctx context.Context, status string, limit int) ([]models.Loan, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Items").
		Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ls []models.Loan
	err := q.Find(&ls).Error
	return ls, err
}
