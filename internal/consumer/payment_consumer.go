package consumer

import (
	"context"
	"log"
	"time"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/internal/events"
	"github.com/you/hotel-manager/internal/repository"
	"github.com/you/hotel-manager/pkg/mq"
)

// PaymentConsumer listens for payment.completed events and confirms the
// matching pending reservation. Processing is idempotent, so redelivered
// events are acknowledged without recording a second payment.
type PaymentConsumer struct {
	repo *repository.ReservationRepo
	cons *mq.Consumer
}

func NewPaymentConsumer(repo *repository.ReservationRepo, cons *mq.Consumer) *PaymentConsumer {
	return &PaymentConsumer{repo: repo, cons: cons}
}

func (pc *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := pc.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			switch d.RoutingKey {
			case events.PaymentCompleted:
				evt, err := events.Unmarshal[events.PaymentEvent](d.Body)
				if err != nil {
					log.Printf("[hotel-consumer] unmarshal error: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				if evt.ReservationID == "" || evt.EventID == "" {
					log.Printf("[hotel-consumer] invalid event payload")
					_ = d.Ack(false)
					continue
				}
				paidAt, err := time.Parse(time.RFC3339, evt.PaidAt)
				if err != nil {
					paidAt = time.Now().UTC()
				}
				p := &domain.Payment{
					Amount: evt.Amount,
					Method: evt.Method,
					PaidAt: paidAt,
					Status: domain.PaymentCompleted,
				}
				if _, err := pc.repo.RecordPaymentIfNotProcessed(ctx, evt.ReservationID, evt.EventID, p); err != nil {
					log.Printf("[hotel-consumer] confirm error: %v", err)
					_ = d.Nack(false, true)
					continue
				}
				_ = d.Ack(false)
			case events.PaymentFailed:
				// nothing to update, the reservation stays pending
				_ = d.Ack(false)
			default:
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}
