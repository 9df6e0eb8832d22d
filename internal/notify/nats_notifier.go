package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/croptrack/internal/logfields"
)

// Event is the JSON envelope published for each notification.
type Event struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSNotifier publishes notification events to a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to NATS for notification publishing.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("NATS notifier initialized", logfields.URL(url), logfields.Subject(subject))

	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// Notify publishes the message wrapped in an Event envelope. Failures are
// logged and dropped; the tracker assumes no delivery guarantee.
func (n *NATSNotifier) Notify(message string) {
	event := Event{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal notification event", logfields.Error(err))
		return
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		slog.Warn("publish notification failed", logfields.Subject(n.subject), logfields.Error(err))
	}
}

// Close drains the NATS connection.
func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}
