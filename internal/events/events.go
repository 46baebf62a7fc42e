// Package events is the client for the shared event bus: durable fanout
// exchanges, a long-lived publisher per producer and a durable queue per
// consuming service. Delivery is at-least-once on the transport; consumers
// here are observability-only and acknowledge even when handling fails.
package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// One fanout exchange per producing domain. Every bound queue gets a
	// copy of every message regardless of routing key.
	OrdersExchange    = "orders"
	InventoryExchange = "inventory"

	TypeOrderCreated      = "OrderCreated"
	TypeInventoryReserved = "InventoryReserved"
)

// OrderCreated is published by the order service after an order row is
// persisted.
type OrderCreated struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// InventoryReserved is published by the product service after a successful
// stock decrement.
type InventoryReserved struct {
	Type      string `json:"type"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func NewOrderCreated(username string, productID int64, quantity int) OrderCreated {
	return OrderCreated{
		Type:      TypeOrderCreated,
		Username:  username,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func NewInventoryReserved(productID int64, quantity int) InventoryReserved {
	return InventoryReserved{
		Type:      TypeInventoryReserved,
		ProductID: productID,
		Quantity:  quantity,
	}
}

// ServiceQueue names the durable queue a service binds to an exchange,
// e.g. "order-service.inventory".
func ServiceQueue(serviceName, exchange string) string {
	return serviceName + "." + exchange
}

func declareFanoutExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"fanout",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}
