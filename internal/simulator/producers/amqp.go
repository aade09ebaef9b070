package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Publisher is the part of *amqp.Channel the producer uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPProducer publishes every event to a durable topic exchange with the
// topic name as routing key.
type AMQPProducer struct {
	conn     *amqp.Connection
	ch       Publisher
	exchange string
}

func NewAMQPProducer(url, exchange string) (*AMQPProducer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logrus.Infof("AMQP producer publishing to exchange %s", exchange)
	p := NewAMQPProducerFrom(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewAMQPProducerFrom publishes through an already open channel.
func NewAMQPProducerFrom(ch Publisher, exchange string) *AMQPProducer {
	return &AMQPProducer{ch: ch, exchange: exchange}
}

func (p *AMQPProducer) WriteMessage(topic string, msg []byte) error {
	if p.ch == nil {
		return fmt.Errorf("AMQP channel is not open")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := p.ch.PublishWithContext(ctx, p.exchange, topic, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Timestamp:     time.Now().UTC(),
		CorrelationId: runIDOf(msg),
		Body:          msg,
	})
	if err != nil {
		logrus.Errorf("Failed to publish message to %s: %v", topic, err)
		return err
	}
	return nil
}

func (p *AMQPProducer) Close() error {
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func runIDOf(msg []byte) string {
	var envelope struct {
		RunID string `json:"runId"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		return ""
	}
	return envelope.RunID
}
