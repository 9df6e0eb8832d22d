package notify

import "log/slog"

// SlogNotifier writes notifications to the default logger. It is the
// fallback delivery path when no transport is configured.
type SlogNotifier struct{}

func (SlogNotifier) Notify(message string) {
	slog.Info("notification", slog.String("message", message))
}
