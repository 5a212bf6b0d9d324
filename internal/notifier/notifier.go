package notifier

import (
	"fmt"
	"log"
)

// Notifier abstracts the delivery channel (email, SMS, chat) so the worker
// does not care where messages end up.
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier logs to stdout. Good enough for local runs and tests.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	log.Printf("[notify] %s :: %s\n", subject, message)
	return nil
}

// HumanDateRange formats a stay as "2026-08-01 to 2026-08-04".
func HumanDateRange(checkIn, checkOut string) string {
	return fmt.Sprintf("%s to %s", checkIn, checkOut)
}
