// Package notify delivers configuration change notifications.
//
// Observers subscribe to every change or to a path prefix. Reload events
// carry no path and reach every observer.
package notify

import (
	"strings"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a single value was set, e.g. from a flag.
	ChangeSet ChangeType = iota

	// ChangeReload indicates a configuration file was re-read.
	ChangeReload

	// ChangeError indicates a configuration file could not be re-read.
	// The previous values stay in effect.
	ChangeError
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	case ChangeError:
		return "error"
	default:
		return "unknown"
	}
}

// Change describes a configuration change.
type Change struct {
	// Path is the dot-separated setting path. Empty for reload and error
	// events.
	Path string

	Type ChangeType

	OldValue any
	NewValue any

	// Source names the layer or file that changed.
	Source string

	// Err is set for ChangeError events.
	Err error
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	path     string
	observer Observer
}

// Notifier fans configuration changes out to observers synchronously.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
	closed  bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{entries: make(map[uint64]entry)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes at path or below it.
// Subscribing to "input" receives changes to "input.timeout".
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries[id] = entry{path: path, observer: observer}

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to every matching observer. Observers run outside
// the lock, in no particular order.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var observers []Observer
	for _, e := range n.entries {
		if matches(e.path, change.Path) {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet reports a single changed value.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload reports that source was re-read.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// NotifyError reports that source could not be re-read.
func (n *Notifier) NotifyError(source string, err error) {
	n.Notify(Change{Type: ChangeError, Source: source, Err: err})
}

// Close drops all observers. Later notifications are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.entries = make(map[uint64]entry)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, id)
}

// matches reports whether an observer registered for prefix receives a
// change at path. Whole-config events (empty path) reach everyone.
func matches(prefix, path string) bool {
	if prefix == "" || path == "" || prefix == path {
		return true
	}
	return strings.HasPrefix(path, prefix+".")
}
