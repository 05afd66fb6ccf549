package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pagination"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus) (bool, error)
	UpdateTracking(ctx context.Context, id int64, trackingNumber, deliveryPartner string) (bool, error)
	MarkPaid(ctx context.Context, id int64, gatewayOrderID, gatewayPaymentID *string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	FindUnpaidBefore(ctx context.Context, method enums.PaymentMethod, cutoff time.Time, limit int) ([]models.Order, error)
}

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
}
