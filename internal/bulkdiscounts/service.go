package bulkdiscounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pricing"
	"github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

const activeCacheTTL = 5 * time.Minute

// Service serves bulk discount tiers. The active list is read-through cached
// and dropped on every admin write.
type Service interface {
	ListActive(ctx context.Context) ([]BulkDiscountDTO, error)
	ActiveRules(ctx context.Context) ([]pricing.BulkDiscountRule, error)
	List(ctx context.Context) ([]BulkDiscountDTO, error)
	Create(ctx context.Context, input CreateInput) (*BulkDiscountDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*BulkDiscountDTO, error)
	Delete(ctx context.Context, id int64) error
}

type BulkDiscountDTO struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	MinQuantity     int             `json:"minQuantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type CreateInput struct {
	Name            string
	MinQuantity     int
	DiscountPercent decimal.Decimal
	IsActive        bool
}

type UpdateInput struct {
	Name            *string
	MinQuantity     *int
	DiscountPercent *decimal.Decimal
	IsActive        *bool
}

type service struct {
	repo  *Repository
	cache redis.Cache
	logg  *logger.Logger
}

// NewService builds the service. cache may be nil, in which case every read
// goes to the database.
func NewService(repo *Repository, cache redis.Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bulk discount repository required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

func (s *service) cacheKey() string {
	return s.cache.CacheKey("bulk_discounts", "active")
}

func (s *service) ListActive(ctx context.Context) ([]BulkDiscountDTO, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.cacheKey())
		switch {
		case err == nil:
			var cached []BulkDiscountDTO
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		case !errors.Is(err, redis.Nil):
			s.warn(ctx, "bulk discount cache read failed", err)
		}
	}

	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bulk discounts")
	}
	out := make([]BulkDiscountDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}

	if s.cache != nil {
		if body, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, s.cacheKey(), body, activeCacheTTL); err != nil {
				s.warn(ctx, "bulk discount cache write failed", err)
			}
		}
	}
	return out, nil
}

func (s *service) ActiveRules(ctx context.Context) ([]pricing.BulkDiscountRule, error) {
	active, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]pricing.BulkDiscountRule, 0, len(active))
	for _, tier := range active {
		rules = append(rules, pricing.BulkDiscountRule{
			Name:        tier.Name,
			MinQuantity: tier.MinQuantity,
			Percent:     tier.DiscountPercent,
			Active:      tier.IsActive,
		})
	}
	return rules, nil
}

func (s *service) List(ctx context.Context) ([]BulkDiscountDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bulk discounts")
	}
	out := make([]BulkDiscountDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*BulkDiscountDTO, error) {
	row := models.BulkDiscount{
		Name:            strings.TrimSpace(input.Name),
		MinQuantity:     input.MinQuantity,
		DiscountPercent: input.DiscountPercent,
		IsActive:        input.IsActive,
	}
	if err := validate(row); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bulk discount")
	}
	s.invalidate(ctx)
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*BulkDiscountDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Bulk discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bulk discount")
	}

	updates := map[string]any{}
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
		updates["name"] = row.Name
	}
	if input.MinQuantity != nil {
		row.MinQuantity = *input.MinQuantity
		updates["min_quantity"] = row.MinQuantity
	}
	if input.DiscountPercent != nil {
		row.DiscountPercent = *input.DiscountPercent
		updates["discount_percent"] = row.DiscountPercent
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
		updates["is_active"] = row.IsActive
	}
	if err := validate(*row); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bulk discount")
		}
		s.invalidate(ctx)
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete bulk discount")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Bulk discount not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cacheKey()); err != nil {
		s.warn(ctx, "bulk discount cache invalidation failed", err)
	}
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}

func validate(row models.BulkDiscount) error {
	if row.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if row.MinQuantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minQuantity must be at least 1")
	}
	if !row.DiscountPercent.IsPositive() || row.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountPercent must be between 0 and 100")
	}
	return nil
}

func toDTO(row models.BulkDiscount) BulkDiscountDTO {
	return BulkDiscountDTO{
		ID:              row.ID,
		Name:            row.Name,
		MinQuantity:     row.MinQuantity,
		DiscountPercent: row.DiscountPercent,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
	}
}
