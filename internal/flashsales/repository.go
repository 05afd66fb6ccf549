package flashsales

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.FlashSale, error) {
	var rows []models.FlashSale
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

// FindLive returns the newest active sale whose window contains now.
func (r *Repository) FindLive(ctx context.Context, now time.Time) (*models.FlashSale, error) {
	var sale models.FlashSale
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("created_at DESC").
		Order("id DESC").
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.FlashSale, error) {
	var sale models.FlashSale
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *Repository) Create(ctx context.Context, sale *models.FlashSale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.FlashSale{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.FlashSale{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
