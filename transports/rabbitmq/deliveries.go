package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glimte/mmate-rx/reactive"
)

var (
	// ErrNilChannel is returned by Consume when no channel is given
	ErrNilChannel = errors.New("rabbitmq: nil channel")
)

// Channel is the part of *amqp.Channel used by Consume
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consume starts consuming queue on channel and returns the deliveries as a Multi
func Consume(ctx context.Context, channel Channel, queue string, options ...DeliveryOption) (reactive.Multi, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}
	cfg := newDeliveryConfig(options)

	if cfg.prefetch > 0 {
		if err := channel.Qos(cfg.prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	deliveries, err := channel.Consume(
		queue,
		cfg.consumerTag,
		cfg.autoAck,
		cfg.exclusive,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}

	cfg.logger.Info("consuming queue", "queue", queue, "autoAck", cfg.autoAck, "prefetch", cfg.prefetch)
	return acknowledging(reactive.MultiFromChannel(ctx, deliveries), cfg), nil
}

// Deliveries emits the values received from deliveries under demand. The
// Multi completes when deliveries is closed and fails with ctx.Err() when
// ctx is done.
func Deliveries(ctx context.Context, deliveries <-chan amqp.Delivery, options ...DeliveryOption) reactive.Multi {
	return acknowledging(reactive.MultiFromChannel(ctx, deliveries), newDeliveryConfig(options))
}

// acknowledging settles every amqp.Delivery emitted by upstream once the
// subscriber's OnNext returns. upstream must deliver from a goroutine of its
// own, so OnNext returning means the Protocol Guard has delivered the item.
// Deliveries arriving after the subscriber cancelled are requeued unseen.
func acknowledging(upstream reactive.Multi, cfg *deliveryConfig) reactive.Multi {
	if cfg.autoAck {
		return upstream
	}
	return &ackingMulti{upstream: upstream, cfg: cfg}
}

type ackingMulti struct {
	upstream reactive.Multi
	cfg      *deliveryConfig
}

func (m *ackingMulti) Subscribe(subscriber reactive.MultiSubscriber) {
	if subscriber == nil {
		panic(reactive.ErrNilSubscriber)
	}
	m.upstream.Subscribe(&ackingSubscriber{downstream: subscriber, cfg: m.cfg})
}

// ackingSubscriber settles each delivery once the downstream has seen it
type ackingSubscriber struct {
	downstream reactive.MultiSubscriber
	cfg        *deliveryConfig
}

func (s *ackingSubscriber) OnSubscribe(subscription reactive.Subscription) {
	s.downstream.OnSubscribe(subscription)
}

func (s *ackingSubscriber) OnNext(item any) {
	delivery, ok := item.(amqp.Delivery)
	if !ok {
		s.cfg.logger.Debug("passing through non-delivery item", "type", fmt.Sprintf("%T", item))
		s.downstream.OnNext(item)
		return
	}

	if s.terminated() {
		s.requeue(delivery)
		return
	}

	settled := false
	defer func() {
		if settled {
			return
		}
		// OnNext panicked
		s.nack(delivery, s.cfg.requeueOnPanic)
	}()

	s.downstream.OnNext(delivery)
	settled = true
	s.ack(delivery)
}

func (s *ackingSubscriber) OnError(err error) {
	s.downstream.OnError(err)
}

func (s *ackingSubscriber) OnComplete() {
	s.downstream.OnComplete()
}

// terminated reports whether the downstream guard has already been
// cancelled or terminated, in which case it would drop the delivery
func (s *ackingSubscriber) terminated() bool {
	guard, ok := s.downstream.(interface{ IsTerminated() bool })
	return ok && guard.IsTerminated()
}

func (s *ackingSubscriber) requeue(delivery amqp.Delivery) {
	s.cfg.logger.Debug("requeueing delivery after cancellation",
		"deliveryTag", delivery.DeliveryTag,
		"messageId", delivery.MessageId,
	)
	if err := delivery.Nack(false, true); err != nil {
		s.cfg.logger.Error("failed to requeue delivery",
			"deliveryTag", delivery.DeliveryTag,
			"messageId", delivery.MessageId,
			"error", err,
		)
	}
}

func (s *ackingSubscriber) ack(delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		s.cfg.logger.Error("failed to acknowledge delivery",
			"deliveryTag", delivery.DeliveryTag,
			"messageId", delivery.MessageId,
			"error", err,
		)
	}
}

func (s *ackingSubscriber) nack(delivery amqp.Delivery, requeue bool) {
	s.cfg.logger.Warn("rejecting delivery after subscriber panic",
		"deliveryTag", delivery.DeliveryTag,
		"messageId", delivery.MessageId,
		"requeue", requeue,
	)
	if err := delivery.Nack(false, requeue); err != nil {
		s.cfg.logger.Error("failed to reject delivery",
			"deliveryTag", delivery.DeliveryTag,
			"messageId", delivery.MessageId,
			"error", err,
		)
	}
}
