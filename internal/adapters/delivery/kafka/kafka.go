// Package kafka publica las notificaciones en un topic (outbox) para que otro
// servicio haga la entrega real (email, SMS).
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	kafkago "github.com/segmentio/kafka-go"

	"pet-rescue/internal/adapters/delivery"
	"pet-rescue/internal/domain/notifications"
)

const DefaultTopic = "pet-rescue-notifications"

var ErrNoBrokers = errors.New("kafka brokers are required")

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Config struct {
	Brokers       []string
	Topic         string
	PublicBaseURL string
}

type Publisher struct {
	w       writer
	baseURL string
}

func New(cfg Config) (*Publisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultTopic
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return newPublisher(w, cfg.PublicBaseURL), nil
}

func newPublisher(w writer, baseURL string) *Publisher {
	return &Publisher{w: w, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Deliver publica un mensaje con key por destinatario: los eventos de una misma
// persona caen en la misma partición y mantienen el orden.
func (p *Publisher) Deliver(ctx context.Context, n notifications.Notification) error {
	msg, err := encode(delivery.FromNotification(n, p.baseURL))
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", n.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }

func encode(ev delivery.Event) (kafkago.Message, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encoding event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.Key()),
		Value: b,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(ev.Category)},
		},
	}, nil
}
