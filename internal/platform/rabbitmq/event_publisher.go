package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"quillpost/internal/model"
)

type EventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewEventPublisher(conn *amqp.Connection, queueName string) *EventPublisher {
	return &EventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event model.PostEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event.Event,
			Timestamp:    event.OccurredAt,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish post event failed: %w", err)
	}
	return nil
}

func EncodeEvent(event model.PostEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal post event failed: %w", err)
	}
	return payload, nil
}

func DecodeEvent(body []byte) (model.PostEvent, error) {
	var event model.PostEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return model.PostEvent{}, fmt.Errorf("decode post event failed: %w", err)
	}
	if event.Event == "" || event.PostID == "" {
		return model.PostEvent{}, fmt.Errorf("decode post event failed: missing event or post_id")
	}
	return event, nil
}
