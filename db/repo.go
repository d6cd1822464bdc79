package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var ErrItemNotFound = errors.New("item not found")

// casStatus 条件写原语：状态等于预期才翻转，返回受影响行数。
// 读-改-写压成一条 UPDATE，跨请求竞争全部交给数据库裁决，
// Loan（available→on_loan）和 Return（on_loan→available）都走这里。
func casStatus(tx *gorm.DB, barcode string, expected, next models.ItemStatus, fields map[string]any) (int64, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["status"] = next
	res := tx.Model(&models.Item{}).
		Where("barcode = ? AND status = ?", barcode, expected).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// Items

func (r *Repo) FindItemByBarcode(ctx context.Context, barcode string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// 模糊搜索可借物品（条码/名称）
func (r *Repo) ListAvailableItems(ctx context.Context, search string, limit int) ([]models.Item, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("status = ?", models.ItemAvailable)
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(barcode) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	var items []models.Item
	err := q.Order("name").Limit(limit).Find(&items).Error
	return items, err
}

func (r *Repo) ListItems(ctx context.Context, status string) ([]models.Item, error) {
	q := r.DB.WithContext(ctx).Model(&models.Item{}).Order("updated_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.Item
	err := q.Find(&items).Error
	return items, err
}

// BulkUpsertItems 导入路径：按条码 upsert，描述性字段后写覆盖。
// 状态和盘点时间戳不动——导入不得碰借还状态机。
// 行已由上游校验过（条码非空、价格数字化），这里不再查。
func (r *Repo) BulkUpsertItems(ctx context.Context, items []models.Item, actor string) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].Status == "" {
			items[i].Status = models.ItemAvailable
		}
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "barcode"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "brand", "color", "size", "price", "category", "updated_at",
			}),
		}).Create(&items).Error; err != nil {
			return err
		}
		return logActivity(tx, actor, models.ActionImport, "item", "",
			fmt.Sprintf("%d rows upserted", len(items)))
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
