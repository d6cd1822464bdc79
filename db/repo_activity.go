package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// logActivity 在当前事务里追加一条流水。只在成功路径调用：
// 失败的操作会随事务一起回滚，不会留下“已完成”的假记录。
func logActivity(tx *gorm.DB, actor, action, entityType, entityID, detail string) error {
	entry := &models.ActivityLog{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *Repo) ListActivity(ctx context.Context, action string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := r.DB.WithContext(ctx).Model(&models.ActivityLog{}).
		Order("created_at DESC").Limit(limit)
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var rows []models.ActivityLog
	err := q.Find(&rows).Error
	return rows, err
}
