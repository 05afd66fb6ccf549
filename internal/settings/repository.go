package settings

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	var row models.SiteSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetMany returns the values for keys that exist.
func (r *Repository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []models.SiteSetting
	if err := r.db.WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *Repository) List(ctx context.Context) ([]models.SiteSetting, error) {
	var rows []models.SiteSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	return rows, err
}

// Upsert writes value under key, replacing any existing value.
func (r *Repository) Upsert(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	row := models.SiteSetting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, key)
}
