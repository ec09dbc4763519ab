package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Publisher is the channel subset the mailer uses
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPMailer publishes reset messages to a durable queue
type AMQPMailer struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	pub      Publisher
	exchange string
	queue    string
	now      func() time.Time
}

// DialAMQP connects, declares the exchange and queue and binds them
func DialAMQP(url, exchange, queue string) (*AMQPMailer, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	m := NewAMQPMailer(channel, exchange, queue)
	m.conn = conn
	m.channel = channel

	if err := m.setup(); err != nil {
		m.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return m, nil
}

// NewAMQPMailer publishes through pub, which is usually an *amqp091.Channel
func NewAMQPMailer(pub Publisher, exchange, queue string) *AMQPMailer {
	return &AMQPMailer{pub: pub, exchange: exchange, queue: queue, now: time.Now}
}

func (m *AMQPMailer) setup() error {
	err := m.channel.ExchangeDeclare(
		m.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = m.channel.QueueDeclare(
		m.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name on a direct exchange
	if err := m.channel.QueueBind(m.queue, m.queue, m.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (m *AMQPMailer) SendPasswordReset(ctx context.Context, msg PasswordResetMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = m.pub.PublishWithContext(
		ctx,
		m.exchange, // exchange
		m.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    m.now(),
			Type:         "password_reset",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	return nil
}

func (m *AMQPMailer) Close() error {
	if m.channel != nil {
		m.channel.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
