package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pagination"
)

// Service defines admin inbox list/read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

type ListParams struct {
	Limit      int
	UnreadOnly bool
}

// NotificationDTO is the inbox row returned to the admin panel.
type NotificationDTO struct {
	ID          uuid.UUID              `json:"id"`
	Type        enums.NotificationType `json:"type"`
	OrderNumber string                 `json:"orderNumber"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Link        *string                `json:"link,omitempty"`
	Read        bool                   `json:"read"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ListResult wraps the newest notifications and the total unread count.
type ListResult struct {
	Items       []NotificationDTO `json:"items"`
	UnreadCount int64             `json:"unreadCount"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	rows, err := s.repo.List(ctx, pagination.NormalizeLimit(params.Limit), params.UnreadOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	items := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return &ListResult{Items: items, UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	found, err := s.repo.MarkRead(ctx, notificationID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func toDTO(row models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          row.ID,
		Type:        row.Type,
		OrderNumber: row.OrderNumber,
		Title:       row.Title,
		Message:     row.Message,
		Link:        row.Link,
		Read:        row.ReadAt != nil,
		CreatedAt:   row.CreatedAt,
	}
}
