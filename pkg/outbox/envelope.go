package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies who caused the event. Storefront checkouts carry no
// admin id.
type ActorRef struct {
	AdminID *uuid.UUID `json:"adminId,omitempty"`
	Role    string     `json:"role,omitempty"`
	Source  string     `json:"source"`
}

// PayloadEnvelope is the stable JSON stored in outbox_events.payload and
// published as the Pub/Sub message body.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
