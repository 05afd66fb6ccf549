package bulkdiscounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListActive returns active tiers ordered by threshold, lowest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.BulkDiscount, error) {
	var rows []models.BulkDiscount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("min_quantity ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) List(ctx context.Context) ([]models.BulkDiscount, error) {
	var rows []models.BulkDiscount
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.BulkDiscount, error) {
	var row models.BulkDiscount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, row *models.BulkDiscount) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.BulkDiscount{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.BulkDiscount{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
