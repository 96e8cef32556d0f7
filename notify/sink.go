package notify

import "github.com/arthur-debert/taskmaster/types"

// Sink receives notifications for out-of-band display (desktop popups, a
// terminal bell). The evaluator calls it fire-and-forget: a failing or
// absent sink never affects the notification list itself.
type Sink interface {
	Notify(n types.Notification)
}

// NopSink discards every notification.
type NopSink struct{}

func (NopSink) Notify(types.Notification) {}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(types.Notification)

func (f SinkFunc) Notify(n types.Notification) { f(n) }
