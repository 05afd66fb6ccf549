package registry

import (
	"encoding/json"
	"testing"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/payloads"
)

func TestDecoderRegistry(t *testing.T) {
	reg := NewDecoderRegistry()
	reg.Register(enums.EventOrderPaid, 2, func(payload json.RawMessage) (any, error) {
		var decoded map[string]string
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	})

	output, err := reg.Decode(enums.EventOrderPaid, 2, json.RawMessage(`{"orderNumber":"LUM-1"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outMap, ok := output.(map[string]string); !ok || outMap["orderNumber"] != "LUM-1" {
		t.Fatalf("unexpected output %+v", output)
	}

	if _, err := reg.Decode(enums.EventOrderPaid, 1, json.RawMessage(`{}`)); err == nil {
		t.Fatalf("expected missing decoder error")
	}
}

func TestOrderDecoders(t *testing.T) {
	reg := NewOrderDecoders()
	output, err := reg.Decode(enums.EventOrderStatusChanged, 1, json.RawMessage(`{"orderNumber":"LUM-9","from":"pending","to":"shipped"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	event, ok := output.(*payloads.OrderStatusChangedEvent)
	if !ok {
		t.Fatalf("unexpected type %T", output)
	}
	if event.To != enums.OrderStatusShipped || event.OrderNumber != "LUM-9" {
		t.Fatalf("unexpected payload %+v", event)
	}
}
