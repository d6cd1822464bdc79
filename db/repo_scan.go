package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAlreadyScanned = errors.New("item already scanned")
var ErrScanConflict = errors.New("concurrent scan conflict")

// ScanItem 盘点扫描：available/on_loan → scanned，至多一次。
// 预检只是快速路径（区分 NotFound / AlreadyScanned 的报错），
// 真正防双扫的是带 status <> 'scanned' 谓词的那条 UPDATE——
// 并发扫同一条码时只有一条语句能改到行，输家拿 ErrScanConflict。
func (r *Repo) ScanItem(ctx context.Context, barcode, actor string) (*models.Item, error) {
	it, err := r.FindItemByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if it.Status == models.ItemScanned {
		return nil, ErrAlreadyScanned
	}

	now := time.Now().UTC()
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("barcode = ? AND status <> ?", barcode, models.ItemScanned).
			Updates(map[string]any{
				"status":         models.ItemScanned,
				"scan_timestamp": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 预检之后被别人抢先扫掉了
			return ErrScanConflict
		}
		return logActivity(tx, actor, models.ActionScan, "item", barcode, "stocktake scan")
	})
	if err != nil {
		return nil, err
	}

	it.Status = models.ItemScanned
	it.ScanTimestamp = &now
	return it, nil
}

// ResetScans 盘点复位：scanned → available，清 scan_timestamp。
// barcode 为空串时清全部。幂等批量清除，不需要竞争保护。
func (r *Repo) ResetScans(ctx context.Context, barcode, actor string) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Item{}).Where("status = ?", models.ItemScanned)
		if barcode != "" {
			q = q.Where("barcode = ?", barcode)
		}
		res := q.Updates(map[string]any{
			"status":         models.ItemAvailable,
			"scan_timestamp": nil,
		})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		target := barcode
		if target == "" {
			target = "all"
		}
		return logActivity(tx, actor, models.ActionScanReset, "item", target, "scan reset")
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
