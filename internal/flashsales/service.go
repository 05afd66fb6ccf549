package flashsales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

// Service manages the homepage flash sale banner.
type Service interface {
	Active(ctx context.Context) (*FlashSaleDTO, error)
	List(ctx context.Context) ([]FlashSaleDTO, error)
	Create(ctx context.Context, input CreateInput) (*FlashSaleDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*FlashSaleDTO, error)
	Delete(ctx context.Context, id int64) error
}

type FlashSaleDTO struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	BannerImage     *string         `json:"bannerImage,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type CreateInput struct {
	Title           string
	Description     string
	BannerImage     *string
	DiscountPercent decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	IsActive        bool
}

type UpdateInput struct {
	Title           *string
	Description     *string
	BannerImage     *string
	DiscountPercent *decimal.Decimal
	StartDate       *time.Time
	EndDate         *time.Time
	IsActive        *bool
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(repo *Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("flash sale repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

// Active returns nil, nil when no sale is running.
func (s *service) Active(ctx context.Context) (*FlashSaleDTO, error) {
	sale, err := s.repo.FindLive(ctx, s.now().UTC())
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load flash sale")
	}
	dto := toDTO(*sale)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]FlashSaleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list flash sales")
	}
	out := make([]FlashSaleDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*FlashSaleDTO, error) {
	sale := models.FlashSale{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		BannerImage:     input.BannerImage,
		DiscountPercent: input.DiscountPercent,
		StartDate:       input.StartDate.UTC(),
		EndDate:         input.EndDate.UTC(),
		IsActive:        input.IsActive,
	}
	if err := validate(sale); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &sale); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create flash sale")
	}
	dto := toDTO(sale)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*FlashSaleDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Flash sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load flash sale")
	}

	merged := *current
	updates := map[string]any{}
	if input.Title != nil {
		merged.Title = strings.TrimSpace(*input.Title)
		updates["title"] = merged.Title
	}
	if input.Description != nil {
		merged.Description = strings.TrimSpace(*input.Description)
		updates["description"] = merged.Description
	}
	if input.BannerImage != nil {
		merged.BannerImage = input.BannerImage
		updates["banner_image"] = *input.BannerImage
	}
	if input.DiscountPercent != nil {
		merged.DiscountPercent = *input.DiscountPercent
		updates["discount_percent"] = *input.DiscountPercent
	}
	if input.StartDate != nil {
		merged.StartDate = input.StartDate.UTC()
		updates["start_date"] = merged.StartDate
	}
	if input.EndDate != nil {
		merged.EndDate = input.EndDate.UTC()
		updates["end_date"] = merged.EndDate
	}
	if input.IsActive != nil {
		merged.IsActive = *input.IsActive
		updates["is_active"] = *input.IsActive
	}
	if err := validate(merged); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if _, err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update flash sale")
		}
	}
	dto := toDTO(merged)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete flash sale")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Flash sale not found")
	}
	return nil
}

func validate(sale models.FlashSale) error {
	if sale.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !sale.DiscountPercent.IsPositive() || sale.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountPercent must be between 0 and 100")
	}
	if sale.StartDate.IsZero() || sale.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "startDate and endDate are required")
	}
	if !sale.EndDate.After(sale.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "endDate must be after startDate")
	}
	return nil
}

func toDTO(f models.FlashSale) FlashSaleDTO {
	return FlashSaleDTO{
		ID:              f.ID,
		Title:           f.Title,
		Description:     f.Description,
		BannerImage:     f.BannerImage,
		DiscountPercent: f.DiscountPercent,
		StartDate:       f.StartDate,
		EndDate:         f.EndDate,
		IsActive:        f.IsActive,
		CreatedAt:       f.CreatedAt,
	}
}
