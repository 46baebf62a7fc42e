package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one delivered message body.
type HandlerFunc func(ctx context.Context, body []byte) error

// StartConsumer binds a durable, service-owned queue to a fanout exchange
// and consumes it on a background goroutine until ctx is canceled.
//
// Handler errors are logged and the message is acknowledged anyway: the
// consumers here exist for observability, and redelivering a message they
// could not handle once would not help.
func StartConsumer(ctx context.Context, conn *amqp.Connection, exchange, queue string, h HandlerFunc, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := declareFanoutExchange(ch, exchange); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s: %w", queue, exchange, err)
	}

	msgs, err := ch.Consume(
		queue,
		queue, // consumer tag
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	go func() {
		defer ch.Close()
		consumeLoop(ctx, msgs, h, logger)
	}()

	return nil
}

func consumeLoop(ctx context.Context, msgs <-chan amqp.Delivery, h HandlerFunc, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Println("stopping consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Println("messages channel closed")
				return
			}
			if err := h(ctx, msg.Body); err != nil {
				logger.Printf("handle message error: %v", err)
			}
			_ = msg.Ack(false)
		}
	}
}

// LogHandler decodes an event body and logs it. This is the extension
// point for future cross-service projections; today the other domain's
// events are only observed.
func LogHandler(logger *log.Logger) HandlerFunc {
	return func(_ context.Context, body []byte) error {
		var evt struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("unmarshal event: %w", err)
		}
		logger.Printf("event %s: %s", evt.Type, body)
		return nil
	}
}
