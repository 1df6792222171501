package queue

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is a decoded job still owned by its RabbitMQ delivery
type Message struct {
	Job      *Job
	delivery amqp.Delivery
}

var _ MessageInterface = (*Message)(nil)

// decodeDelivery parses a delivery body into a Message
func decodeDelivery(d amqp.Delivery) (*Message, error) {
	var job Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if !job.Type.Valid() {
		return nil, fmt.Errorf("decode job %s: unknown type %q", job.ID, job.Type)
	}
	return &Message{Job: &job, delivery: d}, nil
}

func (m *Message) Ack() error {
	return m.delivery.Ack(false)
}

// Nack rejects the message. Without requeue the broker dead-letters it.
func (m *Message) Nack(requeue bool) error {
	return m.delivery.Nack(false, requeue)
}

func (m *Message) GetJob() *Job {
	return m.Job
}
