package kafka

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/expirians/storefront/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в Kafka, выбирая topic
// по типу агрегата: заказы и каталог идут в разные топики.
type OutboxTopicPublisher struct {
	producer     *Producer
	orderTopic   string
	catalogTopic string
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer) domain.OutboxPublisher {
	return &OutboxTopicPublisher{
		producer:     producer,
		orderTopic:   TopicOrderEvents,
		catalogTopic: TopicCatalogEvents,
	}
}

func (p *OutboxTopicPublisher) Publish(msg domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	// Ключ — идентификатор агрегата: события одного заказа
	// попадают в одну партицию и сохраняют порядок.
	key := msg.AggregateID
	if key == "" {
		key = msg.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       json.RawMessage(msg.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.PublishEvent(p.topicFor(msg), key, envelope)
}

func (p *OutboxTopicPublisher) topicFor(msg domain.OutboxMessage) string {
	if strings.HasPrefix(msg.EventType, "product.") || msg.AggregateType == "product" {
		return p.catalogTopic
	}
	return p.orderTopic
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
