package products

import (
	"context"

	"github.com/shopspring/decimal"

	dbtypes "github.com/abhinavyadav-ai/asset-manager/pkg/db/types"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

type seedProduct struct {
	name, description, category, image string
	price, cost, margin                string
	stock                              int
}

var starterCatalog = []seedProduct{
	{
		name:        "Midnight Jasmine",
		description: "A soothing blend of jasmine and sandalwood. Perfect for relaxing evenings and creating a tranquil atmosphere in your home.",
		category:    "Floral",
		image:       "https://images.unsplash.com/photo-1603006905003-be475563bc59?auto=format&fit=crop&q=80&w=1000",
		price:       "29.99", cost: "12.00", margin: "150", stock: 50,
	},
	{
		name:        "Vanilla Bean",
		description: "Rich, creamy vanilla with a hint of musk. A classic favorite that brings warmth and comfort to any space.",
		category:    "Sweet",
		image:       "https://images.unsplash.com/photo-1570823635306-250abb06d453?auto=format&fit=crop&q=80&w=1000",
		price:       "24.99", cost: "10.00", margin: "150", stock: 75,
	},
	{
		name:        "Ocean Breeze",
		description: "Fresh, crisp, and clean. Reminiscent of a day at the beach with notes of sea salt and driftwood.",
		category:    "Fresh",
		image:       "https://images.unsplash.com/photo-1602825389660-3f58693cc541?auto=format&fit=crop&q=80&w=1000",
		price:       "27.99", cost: "11.50", margin: "143", stock: 60,
	},
	{
		name:        "Rose Garden",
		description: "Elegant rose petals with hints of peony and soft musk. A sophisticated floral experience.",
		category:    "Floral",
		image:       "https://images.unsplash.com/photo-1602874801007-bd458bb1b8b6?auto=format&fit=crop&q=80&w=1000",
		price:       "34.99", cost: "14.00", margin: "150", stock: 40,
	},
	{
		name:        "Cedar & Sage",
		description: "Earthy cedarwood balanced with aromatic sage. Perfect for creating a grounding, meditative atmosphere.",
		category:    "Woody",
		image:       "https://images.unsplash.com/photo-1608181831718-c9ffd8685a63?auto=format&fit=crop&q=80&w=1000",
		price:       "32.99", cost: "13.00", margin: "154", stock: 45,
	},
	{
		name:        "Lavender Dreams",
		description: "Calming French lavender with subtle notes of chamomile. Ideal for bedrooms and relaxation spaces.",
		category:    "Floral",
		image:       "https://images.unsplash.com/photo-1599751449619-ad8a1050e67e?auto=format&fit=crop&q=80&w=1000",
		price:       "26.99", cost: "11.00", margin: "145", stock: 55,
	},
}

// SeedCatalog inserts the starter candles when the catalog is empty and
// returns how many were created.
func (s *service) SeedCatalog(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if count > 0 {
		return 0, nil
	}

	for _, seed := range starterCatalog {
		cost := decimal.RequireFromString(seed.cost)
		margin := decimal.RequireFromString(seed.margin)
		product := models.Product{
			Name:          seed.name,
			Description:   seed.description,
			Price:         decimal.RequireFromString(seed.price),
			CostPrice:     &cost,
			MarginPercent: &margin,
			Stock:         seed.stock,
			Category:      seed.category,
			Images:        dbtypes.JSONSlice[string]{seed.image},
			IsActive:      true,
		}
		if err := s.repo.Create(ctx, &product); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed product")
		}
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "count", len(starterCatalog)), "catalog seeded")
	}
	return len(starterCatalog), nil
}
