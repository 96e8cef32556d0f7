package store

import "github.com/arthur-debert/taskmaster/types"

// EventKind names a store mutation.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventUpdated  EventKind = "updated"
	EventDeleted  EventKind = "deleted"
	EventCleared  EventKind = "cleared"
	EventImported EventKind = "imported"
)

// TaskEvent describes a task store mutation. Updated events carry both the
// previous and the new snapshot so subscribers can detect transitions.
// Cleared and imported events carry no snapshots.
type TaskEvent struct {
	Kind EventKind
	Task *types.Task
	Old  *types.Task
}

// TaskListener receives task events synchronously on the mutating call
// stack, after persistence has been attempted, in subscription order.
type TaskListener func(TaskEvent)

// ProjectEvent describes a project store mutation.
type ProjectEvent struct {
	Kind    EventKind
	Project *types.Project
	Old     *types.Project
}

// ProjectListener receives project events with the same delivery contract
// as TaskListener.
type ProjectListener func(ProjectEvent)

// listenerList is an ordered subscription registry. Listeners are invoked
// in the order they subscribed; unsubscribing removes by handle so the same
// function can be registered twice.
type listenerList[E any] struct {
	nextID  int
	entries []listenerEntry[E]
}

type listenerEntry[E any] struct {
	id int
	fn func(E)
}

// add registers fn and returns an unsubscribe handle.
func (l *listenerList[E]) add(fn func(E)) func() {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[E]{id: id, fn: fn})
	return func() {
		for i, entry := range l.entries {
			if entry.id == id {
				l.entries = append(l.entries[:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

// snapshot returns the current listeners so events can be delivered outside
// the store's lock.
func (l *listenerList[E]) snapshot() []func(E) {
	fns := make([]func(E), len(l.entries))
	for i, entry := range l.entries {
		fns[i] = entry.fn
	}
	return fns
}

func emit[E any](fns []func(E), event E) {
	for _, fn := range fns {
		fn(event)
	}
}
