package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrNotOnLoan = errors.New("item is not on loan")

type BulkReturnResult struct {
	ReturnedCount int      `json:"returnedCount"`
	NotFound      []string `json:"notFound"`
	Errors        []string `json:"errors"`
}

// ReturnOne 单件归还：明细 on_loan→returned、物品回 available、
// 父单没有剩余在借明细就收成 completed，三笔写同一事务提交。
func (r *Repo) ReturnOne(ctx context.Context, barcode, actor string) (*models.LoanItem, error) {
	return r.returnOne(ctx, barcode, actor, true)
}

func (r *Repo) returnOne(ctx context.Context, barcode, actor string, logEntry bool) (*models.LoanItem, error) {
	var line models.LoanItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barcode = ? AND status = ?", barcode, models.LoanItemOnLoan).
			First(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotOnLoan
			}
			return err
		}

		now := time.Now().UTC()

		// 先写一笔单头抢行锁：同一张单的并发归还在这里排队，
		// 后到的事务重新计数时已看得到先到的提交——不锁的话
		// 两边各还各的明细、各数到对方还没还，整单永远收不成 completed
		if err := tx.Model(&models.Loan{}).
			Where("id = ?", line.LoanID).
			Update("updated_at", now).Error; err != nil {
			return err
		}
		var loan models.Loan
		if err := tx.First(&loan, "id = ?", line.LoanID).Error; err != nil {
			return err
		}

		// 条件更新挡并发归还：两个同时还，只有一条改得到行
		res := tx.Model(&models.LoanItem{}).
			Where("id = ? AND status = ?", line.ID, models.LoanItemOnLoan).
			Updates(map[string]any{
				"status":      models.LoanItemReturned,
				"returned_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotOnLoan
		}
		line.Status = models.LoanItemReturned
		line.ReturnedAt = &now

		// 物品回到可借。若盘点先把它扫成 scanned 则 CAS 落空，
		// 保留盘点状态，明细照常关闭
		if _, err := casStatus(tx, barcode, models.ItemOnLoan, models.ItemAvailable, nil); err != nil {
			return err
		}

		// 派生字段：没有剩余在借明细 → 整单 completed
		var remaining int64
		if err := tx.Model(&models.LoanItem{}).
			Where("loan_id = ? AND status = ?", line.LoanID, models.LoanItemOnLoan).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Model(&models.Loan{}).
				Where("id = ?", line.LoanID).
				Update("status", models.LoanCompleted).Error; err != nil {
				return err
			}
		}

		if logEntry {
			return logActivity(tx, actor, models.ActionReturn, "loan", loan.InvoiceNo,
				fmt.Sprintf("returned %s", barcode))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ReturnMany 批量归还：逐条码独立走单件逻辑，失败收集不致命——
// 不在借进 notFound，其他错误带条码进 errors，剩下的继续。
// 与开单的 all-or-nothing 相反，这里是 best-effort。
func (r *Repo) ReturnMany(ctx context.Context, barcodes []string, actor string) (*BulkReturnResult, error) {
	out := &BulkReturnResult{NotFound: []string{}, Errors: []string{}}
	for _, b := range barcodes {
		_, err := r.returnOne(ctx, b, actor, false)
		switch {
		case err == nil:
			out.ReturnedCount++
		case errors.Is(err, ErrNotOnLoan):
			out.NotFound = append(out.NotFound, b)
		default:
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", b, err))
		}
	}

	detail := fmt.Sprintf("%d returned, %d not on loan, %d errors",
		out.ReturnedCount, len(out.NotFound), len(out.Errors))
	if len(out.NotFound) > 0 {
		detail += " [not on loan: " + strings.Join(out.NotFound, ",") + "]"
	}
	// 明细事务都已各自落库，审计写不进去也不能把结果吞掉
	if err := logActivity(r.DB.WithContext(ctx), actor, models.ActionReturnBulk, "loan", "batch", detail); err != nil {
		log.Printf("return bulk audit entry failed: %v", err)
	}
	return out, nil
}
