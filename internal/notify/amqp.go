package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier publishes reminders to a topic exchange.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	logger   logrus.FieldLogger
	now      func() time.Time
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(rawURL, exchange string, logger logrus.FieldLogger) (*AMQPNotifier, error) {
	cleanURL, err := sanitizeAMQPURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid AMQP URL: %w", err)
	}
	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return newAMQPNotifier(conn, ch, exchange, logger), nil
}

func newAMQPNotifier(conn *amqp091.Connection, ch channel, exchange string, logger logrus.FieldLogger) *AMQPNotifier {
	return &AMQPNotifier{conn: conn, channel: ch, exchange: exchange, logger: logger, now: time.Now}
}

func (n *AMQPNotifier) NotifyObligated(ctx context.Context, a zakat.Assessment) error {
	body, err := NewReminderMessage(a, n.now()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	routingKey := RoutingKeyObligated + "." + string(a.Owner)
	err = n.channel.PublishWithContext(
		ctx,
		n.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    n.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"owner":      a.Owner,
		"exchange":   n.exchange,
		"routingKey": routingKey,
	}).Info("AMQPNotifier.NotifyObligated.Published")
	return nil
}

func (n *AMQPNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}
