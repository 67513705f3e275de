package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "gymflow.events"

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type connection interface {
	channel() (amqpChannel, error)
	Close() error
}

type amqpConnection struct {
	conn *amqp.Connection
}

func (c *amqpConnection) channel() (amqpChannel, error) {
	return c.conn.Channel()
}

func (c *amqpConnection) Close() error {
	return c.conn.Close()
}

// RabbitPublisher keeps one connection and channel open and redials after
// a failed publish.
type RabbitPublisher struct {
	url  string
	dial func(url string) (connection, error)

	mu   sync.Mutex
	conn connection
	ch   amqpChannel
}

func NewRabbitPublisher(url string) *RabbitPublisher {
	return &RabbitPublisher{
		url: url,
		dial: func(url string) (connection, error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, err
			}
			return &amqpConnection{conn: conn}, nil
		},
	}
}

// New returns a RabbitMQ publisher, or Nop when url is empty.
func New(url string) Publisher {
	if url == "" {
		logger.Info("RABBITMQ_URL not set, domain events disabled")
		return Nop{}
	}
	return NewRabbitPublisher(url)
}

func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	body, err := json.Marshal(NewEnvelope(routingKey, data))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		metrics.RecordEventPublished(routingKey, "error")
		return err
	}

	err = p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		metrics.RecordEventPublished(routingKey, "error")
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	metrics.RecordEventPublished(routingKey, "ok")
	return nil
}

func (p *RabbitPublisher) ensureChannel() error {
	if p.ch != nil {
		return nil
	}

	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	return nil
}

func (p *RabbitPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
