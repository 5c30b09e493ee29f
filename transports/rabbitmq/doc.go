// Package rabbitmq exposes RabbitMQ deliveries as a reactive.Multi.
//
// Each amqp.Delivery is emitted under demand. Unless auto-ack is enabled on
// the consumer, a delivery is acknowledged once OnNext returns and rejected
// with requeue when it panics:
//
//	multi, err := rabbitmq.Consume(ctx, channel, "orders", rabbitmq.WithPrefetch(10))
//	if err != nil {
//		return err
//	}
//	reactive.SubscribeMulti(multi, handler)
package rabbitmq
