package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	dbtypes "github.com/abhinavyadav-ai/asset-manager/pkg/db/types"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// Service exposes catalog reads for shoppers and catalog management for admins.
type Service interface {
	ListActive(ctx context.Context) ([]PublicProductDTO, error)
	Get(ctx context.Context, id int64) (*PublicProductDTO, error)
	ListAll(ctx context.Context) ([]ProductDTO, error)
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
	SeedCatalog(ctx context.Context) (int, error)
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	CostPrice     *decimal.Decimal
	MarginPercent *decimal.Decimal
	Stock         int
	Category      string
	Images        []string
	IsActive      bool
}

// UpdateInput carries optional fields; nil leaves the column untouched.
type UpdateInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CostPrice     *decimal.Decimal
	MarginPercent *decimal.Decimal
	Stock         *int
	Category      *string
	Images        *[]string
	IsActive      *bool
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListActive(ctx context.Context) ([]PublicProductDTO, error) {
	rows, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]PublicProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPublicDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*PublicProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toPublicDTO(*product)
	return &dto, nil
}

func (s *service) ListAll(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	product := models.Product{
		Name:          name,
		Description:   input.Description,
		Price:         input.Price.Round(2),
		CostPrice:     input.CostPrice,
		MarginPercent: input.MarginPercent,
		Stock:         input.Stock,
		Category:      strings.TrimSpace(input.Category),
		Images:        dbtypes.JSONSlice[string](imagesOrEmpty(input.Images)),
		IsActive:      input.IsActive,
	}
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := toDTO(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*ProductDTO, error) {
	updates, err := input.columns()
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		found, err := s.repo.Update(ctx, id, updates)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDTO(*product)
	return &dto, nil
}

func (in UpdateInput) columns() (map[string]any, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = in.Price.Round(2)
	}
	if in.CostPrice != nil {
		updates["cost_price"] = *in.CostPrice
	}
	if in.MarginPercent != nil {
		updates["margin_percent"] = *in.MarginPercent
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		updates["stock"] = *in.Stock
	}
	if in.Category != nil {
		updates["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Images != nil {
		updates["images"] = dbtypes.JSONSlice[string](imagesOrEmpty(*in.Images))
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	return updates, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return nil
}
