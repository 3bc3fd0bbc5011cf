package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/expirians/storefront/internal/domain"
)

func TestNewOrderEvent(t *testing.T) {
	t.Parallel()

	event := NewOrderEvent(EventTypeOrderCreated, "order-1", "cust-1", "pending", 3499)
	require.Equal(t, EventTypeOrderCreated, event.EventType)
	require.False(t, event.Timestamp.IsZero(), "timestamp must be set")

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "order.created", decoded["event_type"])
	require.Equal(t, float64(3499), decoded["total_minor"])
}

func TestNewProductEvent(t *testing.T) {
	t.Parallel()

	event := NewProductEvent(EventTypeProductDeactivated, "prod-1", "SKU-1")
	if event.EventType != EventTypeProductDeactivated {
		t.Fatalf("expected product.deactivated, got %s", event.EventType)
	}
	if event.SKU != "SKU-1" {
		t.Fatalf("expected SKU-1, got %s", event.SKU)
	}
}

func TestOutboxTopicPublisher_TopicRouting(t *testing.T) {
	t.Parallel()

	p := &OutboxTopicPublisher{orderTopic: TopicOrderEvents, catalogTopic: TopicCatalogEvents}

	tests := []struct {
		aggregateType string
		eventType     string
		want          string
	}{
		{"order", "order.created", TopicOrderEvents},
		{"order", "order.status_changed", TopicOrderEvents},
		{"product", "product.created", TopicCatalogEvents},
		{"product", "product.deactivated", TopicCatalogEvents},
	}
	for _, tt := range tests {
		got := p.topicFor(domain.OutboxMessage{AggregateType: tt.aggregateType, EventType: tt.eventType})
		if got != tt.want {
			t.Errorf("%s/%s: expected %s, got %s", tt.aggregateType, tt.eventType, tt.want, got)
		}
	}
}
