package worker

import (
	"encoding/json"
	"strings"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/hotel-manager/internal/events"
)

type recordingNotifier struct {
	subjects []string
	messages []string
}

func (r *recordingNotifier) Notify(subject, message string) error {
	r.subjects = append(r.subjects, subject)
	r.messages = append(r.messages, message)
	return nil
}

func delivery(t *testing.T, key string, v any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return amqp.Delivery{RoutingKey: key, Body: body}
}

func TestHandleDeliveryReservationCreated(t *testing.T) {
	n := &recordingNotifier{}
	c := NewConsumer(Config{}, n)

	err := c.handleDelivery(delivery(t, events.ReservationCreated, events.ReservationEvent{
		Code: "RES-2026-0001", RoomID: "room-1",
		CheckIn: "2026-03-10", CheckOut: "2026-03-13", TotalAmount: 300,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(n.subjects) != 1 || n.subjects[0] != "Reservation Created" {
		t.Fatalf("subjects = %v", n.subjects)
	}
	if !strings.Contains(n.messages[0], "RES-2026-0001") {
		t.Errorf("message = %q, want the reservation code in it", n.messages[0])
	}
	if !strings.Contains(n.messages[0], "2026-03-10 to 2026-03-13") {
		t.Errorf("message = %q, want the stay dates in it", n.messages[0])
	}
}

// The engine serializes events.ReservationEvent and events.StayEvent; these
// raw bodies pin that wire format so a drift on either side shows up here
// instead of as requeue loops in production.
func TestHandleDeliveryEngineWireFormat(t *testing.T) {
	n := &recordingNotifier{}
	c := NewConsumer(Config{}, n)

	created := `{"reservation_id":"res-1","code":"RES-2026-0001","guest_id":"g1",` +
		`"room_id":"room-1","check_in":"2026-03-10","check_out":"2026-03-13",` +
		`"total_amount":300,"state":"PENDING"}`
	if err := c.handleDelivery(amqp.Delivery{
		RoutingKey: events.ReservationCreated,
		Body:       []byte(created),
	}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(n.messages[0], "total 300.00") {
		t.Errorf("message = %q, want the booked amount in it", n.messages[0])
	}

	checkedIn := `{"reservation_id":"res-1","code":"RES-2026-0001",` +
		`"room_id":"room-1","at":"2026-03-10T15:04:05Z"}`
	if err := c.handleDelivery(amqp.Delivery{
		RoutingKey: events.StayCheckedIn,
		Body:       []byte(checkedIn),
	}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(n.messages[1], "2026-03-10T15:04:05Z") {
		t.Errorf("message = %q, want the arrival time in it", n.messages[1])
	}

	checkedOut := `{"reservation_id":"res-1","code":"RES-2026-0001",` +
		`"room_id":"room-1","at":"2026-03-13T10:00:00Z","amount_due":345.5}`
	if err := c.handleDelivery(amqp.Delivery{
		RoutingKey: events.StayCheckedOut,
		Body:       []byte(checkedOut),
	}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(n.messages[2], "amount due 345.50") {
		t.Errorf("message = %q, want the settled amount in it", n.messages[2])
	}
}

func TestHandleDeliveryBadPayload(t *testing.T) {
	n := &recordingNotifier{}
	c := NewConsumer(Config{}, n)

	err := c.handleDelivery(amqp.Delivery{
		RoutingKey: events.StayCheckedOut,
		Body:       []byte("{not json"),
	})
	if err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
	if len(n.subjects) != 0 {
		t.Errorf("no notification expected, got %v", n.subjects)
	}
}

func TestHandleDeliveryUnknownKeyIsIgnored(t *testing.T) {
	n := &recordingNotifier{}
	c := NewConsumer(Config{}, n)

	if err := c.handleDelivery(amqp.Delivery{RoutingKey: "room.cleaned", Body: []byte("{}")}); err != nil {
		t.Fatalf("unknown keys must be skipped without error, got %v", err)
	}
	if len(n.subjects) != 0 {
		t.Errorf("no notification expected, got %v", n.subjects)
	}
}

func TestHandleDeliveryPaymentEvents(t *testing.T) {
	n := &recordingNotifier{}
	c := NewConsumer(Config{}, n)

	if err := c.handleDelivery(delivery(t, events.PaymentCompleted, events.PaymentEvent{
		ReservationID: "r1", Amount: 300, Method: "CARD",
	})); err != nil {
		t.Fatal(err)
	}
	if err := c.handleDelivery(delivery(t, events.PaymentFailed, events.PaymentEvent{
		ReservationID: "r1", Amount: 300,
	})); err != nil {
		t.Fatal(err)
	}
	if len(n.subjects) != 2 || n.subjects[0] != "Payment Completed" || n.subjects[1] != "Payment Failed" {
		t.Fatalf("subjects = %v", n.subjects)
	}
}
