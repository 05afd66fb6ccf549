package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

const maxDeadLetters = 200

// DeadLetterReader is satisfied by *outbox.DLQRepository.
type DeadLetterReader interface {
	List(ctx context.Context, limit int) ([]models.OutboxDLQ, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*models.OutboxDLQ, error)
}

type deadLetterDTO struct {
	EventID       uuid.UUID       `json:"eventId"`
	EventType     string          `json:"eventType"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	Reason        string          `json:"reason"`
	Message       *string         `json:"message,omitempty"`
	Attempts      int             `json:"attempts"`
	FailedAt      time.Time       `json:"failedAt"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

func toDeadLetterDTO(row models.OutboxDLQ, withPayload bool) deadLetterDTO {
	dto := deadLetterDTO{
		EventID:       row.EventID,
		EventType:     string(row.EventType),
		AggregateType: string(row.AggregateType),
		AggregateID:   row.AggregateID,
		Reason:        row.ErrorReason.String(),
		Message:       row.ErrorMessage,
		Attempts:      row.AttemptCount,
		FailedAt:      row.FailedAt,
	}
	if withPayload {
		dto.Payload = row.Payload
	}
	return dto
}

// AdminListDeadLetters shows the newest events the publisher gave up on.
func AdminListDeadLetters(repo DeadLetterReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, maxDeadLetters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := repo.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dead letters"))
			return
		}
		out := make([]deadLetterDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, toDeadLetterDTO(row, false))
		}
		responses.WriteSuccess(w, out)
	}
}

func AdminGetDeadLetter(repo DeadLetterReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id"))
			return
		}
		row, err := repo.FindByEventID(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dead letter"))
			return
		}
		if row == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "dead letter not found"))
			return
		}
		responses.WriteSuccess(w, toDeadLetterDTO(*row, true))
	}
}
