// Package queue publishes committed protocol events to RabbitMQ. Each event is
// a persistent JSON message on a durable topic exchange, routed by event type.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"aura-lend/internal/domain/event"
	"aura-lend/pkg/id"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const DefaultExchange = "lend.events"

var ErrClosed = errors.New("publisher closed")

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	Close() error
}

// dialer opens a channel and the connection that owns it. conn may be nil.
type dialer func() (ch channel, conn io.Closer, err error)

// Publisher holds one channel at a time. A channel closed by the broker, or
// one that failed a publish, is dropped and redialed on the next Emit.
type Publisher struct {
	mu       sync.Mutex
	dial     dialer
	conn     io.Closer
	ch       channel
	lost     chan *amqp.Error
	shut     bool
	exchange string
	now      func() time.Time
}

// Dial connects to the broker and declares exchange.
func Dial(url, exchange string) (*Publisher, error) {
	p := newPublisher(exchange, func() (channel, io.Closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
		}
		return ch, conn, nil
	})
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(exchange string, dial dialer) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{dial: dial, exchange: exchange, now: time.Now}
}

func (p *Publisher) connect() error {
	ch, conn, err := p.dial()
	if err != nil {
		return err
	}
	// Durable so routing survives broker restarts.
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		_ = ch.Close()
		if conn != nil {
			_ = conn.Close()
		}
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	p.ch, p.conn = ch, conn
	p.lost = ch.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

// drop releases the current channel and connection without reporting errors.
func (p *Publisher) drop() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn, p.lost = nil, nil, nil
}

// ready returns with a usable channel, redialing if the last one was lost.
func (p *Publisher) ready() error {
	if p.shut {
		return ErrClosed
	}
	if p.ch != nil {
		select {
		case cerr := <-p.lost:
			log.Warn().Str("reason", closeReason(cerr)).Msg("rabbitmq channel lost, redialing")
			p.drop()
		default:
			return nil
		}
	}
	if err := p.connect(); err != nil {
		log.Error().Err(err).Msg("rabbitmq redial failed")
		return err
	}
	return nil
}

func closeReason(e *amqp.Error) string {
	if e == nil {
		return "closed"
	}
	return e.Reason
}

// Emit publishes events in order and stops at the first failure.
func (p *Publisher) Emit(ctx context.Context, events []event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return err
	}
	for _, e := range events {
		msg, err := message(e, p.now())
		if err != nil {
			return err
		}
		if err := p.ch.PublishWithContext(ctx,
			p.exchange, // exchange
			e.Type,     // routing key
			false,      // mandatory
			false,      // immediate
			msg,
		); err != nil {
			log.Error().Err(err).Str("event", e.Type).Msg("rabbitmq publish failed")
			p.drop()
			return fmt.Errorf("publish %s: %w", e.Type, err)
		}
	}
	return nil
}

// Close shuts the publisher; later Emits fail with ErrClosed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shut = true
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	p.ch, p.conn, p.lost = nil, nil, nil
	return err
}

func message(e event.Event, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    id.NewRequestID(),
		Type:         e.Type,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}
