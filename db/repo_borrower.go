package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBorrowerNotFound = errors.New("borrower not found")

// UpsertBorrower 按证件号 upsert，后写覆盖联系信息
func (r *Repo) UpsertBorrower(ctx context.Context, b *models.Borrower) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "national_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "phone", "email", "unit", "updated_at",
		}),
	}).Create(b).Error
}

func (r *Repo) FindBorrowerByNationalID(ctx context.Context, nationalID string) (*models.Borrower, error) {
	var b models.Borrower
	if err := r.DB.WithContext(ctx).First(&b, "national_id = ?", nationalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowerNotFound
		}
		return nil, err
	}
	return &b, nil
}
