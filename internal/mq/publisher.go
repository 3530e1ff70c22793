// Package mq mirrors bus events onto a RabbitMQ topic exchange so other campus
// systems (driver app, analytics) can follow bookings without polling.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"shuttlego/internal/events"
)

const Exchange = "shuttlego.events"

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher holds one AMQP connection and channel.
type Publisher struct {
	conn *amqp.Connection
	ch   channel
	mu   sync.RWMutex
	log  *slog.Logger
}

// Dial connects with a bounded retry and declares the exchange.
func Dial(ctx context.Context, url string, log *slog.Logger) (*Publisher, error) {
	if log == nil {
		log = slog.Default()
	}
	const maxRetries = 5
	delay := time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		p, err := connect(url, log)
		if err == nil {
			log.Info("rabbitmq connected", slog.Int("attempt", attempt))
			return p, nil
		}
		lastErr = err
		log.Warn("rabbitmq connection attempt failed",
			slog.Int("attempt", attempt), slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * 1.5)
		}
	}
	return nil, fmt.Errorf("rabbitmq: failed after %d attempts: %w", maxRetries, lastErr)
}

func connect(url string, log *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, log: log}, nil
}

// Publish sends body with the event topic as routing key.
func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.RLock()
	ch := p.ch
	p.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(publishCtx, Exchange, string(e.Topic), false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.At,
	})
}

// Bridge forwards every bus event until ctx is cancelled. Failures are logged
// and the event is dropped; the bus is the source of truth.
func (p *Publisher) Bridge(ctx context.Context, bus *events.Bus) {
	sub, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			if err := p.Publish(ctx, e); err != nil {
				p.log.Error("rabbitmq publish failed",
					slog.String("topic", string(e.Topic)), slog.String("error", err.Error()))
			}
		}
	}
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
