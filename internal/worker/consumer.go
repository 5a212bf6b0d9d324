package worker

import (
	"context"
	"fmt"
	"log"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/hotel-manager/internal/events"
	"github.com/you/hotel-manager/internal/notifier"
)

type Config struct {
	RabbitURL   string
	Exchanges   []string
	Queue       string
	Bindings    []string
	Prefetch    int
	ServiceName string
}

// Consumer binds the notification queue to the hotel and payment exchanges
// and turns lifecycle events into human-readable notifications.
type Consumer struct {
	cfg      Config
	notifier notifier.Notifier

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg Config, n notifier.Notifier) *Consumer {
	return &Consumer{cfg: cfg, notifier: n}
}

func (c *Consumer) rabbitURL() string {
	if v := os.Getenv("RABBIT_URL"); v != "" {
		return v
	}
	return c.cfg.RabbitURL
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.rabbitURL())
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue failed: %w", err)
	}

	for _, ex := range c.cfg.Exchanges {
		if err := ch.ExchangeDeclare(ex, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("declare exchange %s failed: %w", ex, err)
		}
		for _, key := range c.cfg.Bindings {
			if err := ch.QueueBind(q.Name, key, ex, false, nil); err != nil {
				_ = ch.Close()
				_ = conn.Close()
				return fmt.Errorf("bind queue to exchange=%s key=%s failed: %w", ex, key, err)
			}
		}
	}

	if c.cfg.Prefetch <= 0 {
		c.cfg.Prefetch = 8
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.ServiceName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handleDelivery(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleDelivery(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.ReservationCreated:
		ev, err := events.Unmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Reservation Created",
			fmt.Sprintf("Reservation %s (room=%s) %s, total %.2f.",
				ev.Code, ev.RoomID, notifier.HumanDateRange(ev.CheckIn, ev.CheckOut), ev.TotalAmount))

	case events.ReservationConfirmed:
		ev, err := events.Unmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Reservation Confirmed",
			fmt.Sprintf("Reservation %s has been confirmed.", ev.Code))

	case events.ReservationCancelled:
		ev, err := events.Unmarshal[events.ReservationEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Reservation Cancelled",
			fmt.Sprintf("Reservation %s has been cancelled.", ev.Code))

	case events.StayCheckedIn:
		ev, err := events.Unmarshal[events.StayEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Guest Checked In",
			fmt.Sprintf("Reservation %s checked in at %s.", ev.Code, ev.At))

	case events.StayCheckedOut:
		ev, err := events.Unmarshal[events.StayEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Guest Checked Out",
			fmt.Sprintf("Reservation %s checked out at %s, amount due %.2f.", ev.Code, ev.At, ev.AmountDue))

	case events.PaymentCompleted:
		ev, err := events.Unmarshal[events.PaymentEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Payment Completed",
			fmt.Sprintf("Reservation %s paid %.2f via %s.", ev.ReservationID, ev.Amount, ev.Method))

	case events.PaymentFailed:
		ev, err := events.Unmarshal[events.PaymentEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Payment Failed",
			fmt.Sprintf("Payment of %.2f failed for reservation %s.", ev.Amount, ev.ReservationID))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
