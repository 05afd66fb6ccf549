package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

const (
	minRating        = 1
	maxRating        = 5
	maxCommentLength = 2000
)

var fieldValidator = validator.New()

type productLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service moderates customer reviews. Submitted reviews stay hidden until an
// admin approves them.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*ReviewDTO, error)
	ListApproved(ctx context.Context, productID int64) ([]ReviewDTO, error)
	ListAll(ctx context.Context) ([]ReviewDTO, error)
	Approve(ctx context.Context, id int64) (*ReviewDTO, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewDTO struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	CustomerName string    `json:"customerName"`
	Email        *string   `json:"email,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	IsApproved   bool      `json:"isApproved"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SubmitInput struct {
	ProductID    int64
	CustomerName string
	Email        *string
	Rating       int
	Comment      string
}

type service struct {
	repo     *Repository
	products productLookup
}

func NewService(repo *Repository, products productLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*ReviewDTO, error) {
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customerName is required")
	}
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %d and %d", minRating, maxRating)
	}
	comment := strings.TrimSpace(input.Comment)
	if len(comment) > maxCommentLength {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "comment must be at most %d characters", maxCommentLength)
	}
	var email *string
	if input.Email != nil {
		if trimmed := strings.TrimSpace(*input.Email); trimmed != "" {
			if err := fieldValidator.Var(trimmed, "email"); err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid email")
			}
			email = &trimmed
		}
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review := models.Review{
		ProductID:    input.ProductID,
		CustomerName: name,
		Email:        email,
		Rating:       input.Rating,
		Comment:      comment,
	}
	if err := s.repo.Create(ctx, &review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to submit review")
	}
	dto := toDTO(review)
	return &dto, nil
}

func (s *service) ListApproved(ctx context.Context, productID int64) ([]ReviewDTO, error) {
	rows, err := s.repo.ListApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]ReviewDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) Approve(ctx context.Context, id int64) (*ReviewDTO, error) {
	found, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve review")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Review not found")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Review not found")
	}
	return nil
}

func toDTOs(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out
}

func toDTO(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:           r.ID,
		ProductID:    r.ProductID,
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Rating:       r.Rating,
		Comment:      r.Comment,
		IsApproved:   r.IsApproved,
		CreatedAt:    r.CreatedAt,
	}
}
