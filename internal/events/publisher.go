package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/config"
	"keydoctor/internal/probe"
)

const EventName = "keydoctor/probe.completed"

// ProbeCompletedEnvelope is the message body published for each probe.
type ProbeCompletedEnvelope struct {
	EventName string      `json:"event_name"`
	EventID   string      `json:"event_id"`
	TS        time.Time   `json:"ts"`
	Data      probe.Event `json:"data"`
}

type publishFunc func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error

// Publisher forwards probe events to RabbitMQ. Without a channel it is a
// no-op observer.
type Publisher struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	publish publishFunc
	declare func(exchange string) error

	declareOnce sync.Once
	declareErr  error
}

type NewPublisherParams struct {
	fx.In

	Cfg     *config.Config
	Channel *amqp.Channel `optional:"true"`
	Logger  *zap.SugaredLogger
}

func NewPublisher(p NewPublisherParams) *Publisher {
	pub := &Publisher{cfg: p.Cfg, logger: p.Logger}
	if p.Channel != nil {
		pub.publish = p.Channel.PublishWithContext
		if p.Cfg.RabbitMQ.DeclareTopology {
			ch := p.Channel
			pub.declare = func(exchange string) error {
				return ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
			}
		}
	}
	return pub
}

func (p *Publisher) Enabled() bool { return p.publish != nil }

func (p *Publisher) ObserveProbe(ctx context.Context, ev probe.Event) error {
	if p.publish == nil {
		return nil
	}

	ex := p.cfg.RabbitMQ.Exchange
	if ex == "" {
		ex = "keydoctor"
	}
	routingKey := p.cfg.RabbitMQ.RoutingKey
	if routingKey == "" {
		routingKey = "probe.completed"
	}

	if p.declare != nil {
		p.declareOnce.Do(func() { p.declareErr = p.declare(ex) })
		if p.declareErr != nil {
			return fmt.Errorf("rabbitmq exchange declare %s: %w", ex, p.declareErr)
		}
	}

	env := ProbeCompletedEnvelope{
		EventName: EventName,
		EventID:   ev.ID,
		TS:        ev.CreatedAt,
		Data:      ev,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal probe event: %w", err)
	}

	if err := p.publish(ctx, ex, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    ev.CreatedAt,
		MessageId:    ev.ID,
		Type:         EventName,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("rabbitmq publish %s/%s: %w", ex, routingKey, err)
	}

	p.logger.Infow("probe_event_published",
		"exchange", ex,
		"routing_key", routingKey,
		"event_id", ev.ID,
		"fingerprint", ev.Fingerprint,
		"outcome", ev.Outcome,
	)
	return nil
}
