package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Message is the body published for each mail request.
type Message struct {
	Template string            `json:"template"`
	Payload  map[string]string `json:"payload"`
	QueuedAt time.Time         `json:"queued_at"`
}

// AMQPSender publishes mail requests to a durable direct exchange; a mail
// worker outside this service consumes the queue and delivers them.
type AMQPSender struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewAMQPSender dials url and declares the exchange, queue and binding.
func NewAMQPSender(url, exchangeName, queueName string) (*AMQPSender, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	s := &AMQPSender{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := s.setup(); err != nil {
		s.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return s, nil
}

func (s *AMQPSender) setup() error {
	err := s.channel.ExchangeDeclare(
		s.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = s.channel.QueueDeclare(
		s.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name on a direct exchange
	if err := s.channel.QueueBind(s.queueName, s.queueName, s.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Send publishes one persistent mail request.
func (s *AMQPSender) Send(ctx context.Context, template string, payload map[string]string) error {
	body, err := encodeMessage(template, payload, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.mu.Lock()
	err = s.channel.PublishWithContext(
		ctx,
		s.exchangeName, // exchange
		s.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published mail request",
		"template", template,
		"exchange", s.exchangeName,
		"queue", s.queueName)
	return nil
}

// Close closes the channel and the connection.
func (s *AMQPSender) Close() error {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func encodeMessage(template string, payload map[string]string, queuedAt time.Time) ([]byte, error) {
	body, err := json.Marshal(Message{Template: template, Payload: payload, QueuedAt: queuedAt.UTC()})
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return body, nil
}
