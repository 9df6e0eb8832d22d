// Package notify delivers one-shot harvest notifications. The tracker
// only depends on the Notifier interface; delivery is fire-and-forget
// with no guarantee assumed.
package notify

// Notifier delivers a human-readable notification message.
type Notifier interface {
	Notify(message string)
}

// Func adapts a plain function to a Notifier, mainly for tests.
type Func func(message string)

func (f Func) Notify(message string) { f(message) }

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(message string) {
	for _, n := range m {
		n.Notify(message)
	}
}
