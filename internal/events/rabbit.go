package events

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dial opens the process-wide broker connection. Publishers and consumers
// each open their own channel on it; the connection itself is shared and
// lives until shutdown.
func Dial(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}

func MustDial(url string) *amqp.Connection {
	conn, err := Dial(url)
	if err != nil {
		log.Fatalf("connect to RabbitMQ: %v", err)
	}
	return conn
}
