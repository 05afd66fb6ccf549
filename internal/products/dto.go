package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
)

// ProductDTO is the catalog payload returned to the storefront and admin.
type ProductDTO struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	CostPrice     *decimal.Decimal `json:"costPrice,omitempty"`
	MarginPercent *decimal.Decimal `json:"marginPercent,omitempty"`
	Stock         int              `json:"stock"`
	Category      string           `json:"category"`
	Images        []string         `json:"images"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PublicProductDTO hides cost and margin from shoppers.
type PublicProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		MarginPercent: p.MarginPercent,
		Stock:         p.Stock,
		Category:      p.Category,
		Images:        imagesOrEmpty(p.Images),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPublicDTO(p models.Product) PublicProductDTO {
	return PublicProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Images:      imagesOrEmpty(p.Images),
		CreatedAt:   p.CreatedAt,
	}
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
