package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/expirians/storefront/internal/domain"
)

// DLQPublisher отправляет сообщения, исчерпавшие retry, в dead letter queue.
// Происхождение сообщения фиксируется в Kafka headers, чтобы reprocessing
// мог вернуть его в исходный topic.
type DLQPublisher struct {
	producer *Producer
	topic    string
}

// NewDLQPublisher создаёт паблишер dead letter queue.
func NewDLQPublisher(producer *Producer) domain.OutboxPublisher {
	return &DLQPublisher{
		producer: producer,
		topic:    TopicDeadLetterQueue,
	}
}

func (p *DLQPublisher) Publish(msg domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka dlq publisher is not initialized")
	}

	body, err := json.Marshal(struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
	}{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       json.RawMessage(msg.Payload),
	})
	if err != nil {
		return fmt.Errorf("marshal dlq message: %w", err)
	}

	originalTopic := TopicOrderEvents
	if msg.AggregateType == "product" {
		originalTopic = TopicCatalogEvents
	}
	headers := []sarama.RecordHeader{
		{Key: []byte(HeaderRetryCount), Value: []byte(strconv.Itoa(0))},
		{Key: []byte(HeaderOriginalTopic), Value: []byte(originalTopic)},
		{Key: []byte(HeaderFailedAt), Value: []byte(time.Now().UTC().Format(time.RFC3339Nano))},
	}

	key := msg.AggregateID
	if key == "" {
		key = msg.ID
	}
	return p.producer.PublishRaw(p.topic, key, body, headers)
}

var _ domain.OutboxPublisher = (*DLQPublisher)(nil)
