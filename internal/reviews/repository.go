package reviews

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

func (r *Repository) List(ctx context.Context) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

// ListApprovedByProduct returns the reviews shown on a product page, newest first.
func (r *Repository) ListApprovedByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *Repository) Approve(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("is_approved", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
