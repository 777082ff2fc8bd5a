package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publica os eventos de agendamento para consumidores externos
// (lembretes, analytics). A chave da mensagem é o id da entidade, então
// eventos do mesmo agendamento caem na mesma partição.
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}),
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

type eventPayload struct {
	ActorID  string    `json:"actor_id,omitempty"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	Metadata any       `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

func (s *KafkaSink) Write(ctx context.Context, ev Event) error {
	value, err := json.Marshal(eventPayload{
		ActorID:  ev.ActorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: ev.Metadata,
		At:       ev.At,
	})
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.EntityID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Action)},
		},
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
