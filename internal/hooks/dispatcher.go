// Package hooks delivers item lifecycle notifications to registered
// observers (plugins). The dispatcher is an explicitly constructed
// instance owned by the composition root; there is no package-level
// registry.
package hooks

import (
	"context"

	"github.com/rs/zerolog"
)

// Observer is the minimal contract a plugin must satisfy. The lifecycle
// capabilities are separate interfaces, probed once at registration:
// an observer only receives the notifications it declares.
type Observer interface {
	Name() string
}

// ItemAddedObserver is notified after an item is successfully added.
type ItemAddedObserver interface {
	OnItemAdded(itemID int64) error
}

// ItemUpdatedObserver is notified after an item is successfully updated.
type ItemUpdatedObserver interface {
	OnItemUpdated(itemID int64) error
}

// ItemDeletedObserver is notified after an item is successfully deleted.
type ItemDeletedObserver interface {
	OnItemDeleted(itemID int64) error
}

// BackgroundChecker runs a long-lived maintenance pass. The dispatcher
// imposes no timeout or isolation; callers wanting either run
// RunBackgroundChecks off the interactive path with their own context.
type BackgroundChecker interface {
	CheckAllItems(ctx context.Context) error
}

type registration struct {
	name    string
	added   ItemAddedObserver
	updated ItemUpdatedObserver
	deleted ItemDeletedObserver
	checker BackgroundChecker
}

// Dispatcher fans item lifecycle events out to observers, synchronously and
// in registration order. Observer failures are logged and contained: they
// never reach the triggering write and never block later observers.
type Dispatcher struct {
	log           zerolog.Logger
	registrations []registration
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log.With().Str("component", "hooks").Logger()}
}

// Register appends an observer. Capabilities are resolved here, once, so
// dispatch is a plain nil check per event. Registration order is delivery
// order. Not safe for concurrent use with dispatch; register everything at
// process start.
func (d *Dispatcher) Register(obs Observer) {
	reg := registration{name: obs.Name()}
	if added, ok := obs.(ItemAddedObserver); ok {
		reg.added = added
	}
	if updated, ok := obs.(ItemUpdatedObserver); ok {
		reg.updated = updated
	}
	if deleted, ok := obs.(ItemDeletedObserver); ok {
		reg.deleted = deleted
	}
	if checker, ok := obs.(BackgroundChecker); ok {
		reg.checker = checker
	}
	d.registrations = append(d.registrations, reg)
	d.log.Debug().Str("observer", reg.name).Msg("observer registered")
}

// NotifyItemAdded delivers the item-added event to every capable observer.
func (d *Dispatcher) NotifyItemAdded(itemID int64) {
	for _, reg := range d.registrations {
		if reg.added == nil {
			continue
		}
		d.deliver(reg.name, "item_added", itemID, func() error {
			return reg.added.OnItemAdded(itemID)
		})
	}
}

// NotifyItemUpdated delivers the item-updated event to every capable observer.
func (d *Dispatcher) NotifyItemUpdated(itemID int64) {
	for _, reg := range d.registrations {
		if reg.updated == nil {
			continue
		}
		d.deliver(reg.name, "item_updated", itemID, func() error {
			return reg.updated.OnItemUpdated(itemID)
		})
	}
}

// NotifyItemDeleted delivers the item-deleted event to every capable observer.
func (d *Dispatcher) NotifyItemDeleted(itemID int64) {
	for _, reg := range d.registrations {
		if reg.deleted == nil {
			continue
		}
		d.deliver(reg.name, "item_deleted", itemID, func() error {
			return reg.deleted.OnItemDeleted(itemID)
		})
	}
}

// RunBackgroundChecks invokes CheckAllItems on every observer that exposes
// one, in registration order. Failures are logged and do not stop the pass.
func (d *Dispatcher) RunBackgroundChecks(ctx context.Context) {
	for _, reg := range d.registrations {
		if reg.checker == nil {
			continue
		}
		name := reg.name
		checker := reg.checker
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.log.Error().Str("observer", name).Any("panic", r).
						Msg("background check panicked")
				}
			}()
			if err := checker.CheckAllItems(ctx); err != nil {
				d.log.Error().Err(err).Str("observer", name).
					Msg("background check failed")
			}
		}()
	}
}

// deliver runs one notification with the log-and-continue policy. A panic
// inside an observer is treated like a returned error.
func (d *Dispatcher) deliver(name, event string, itemID int64, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("observer", name).Str("event", event).
				Int64("item_id", itemID).Any("panic", r).
				Msg("observer panicked")
		}
	}()
	if err := fn(); err != nil {
		d.log.Error().Err(err).Str("observer", name).Str("event", event).
			Int64("item_id", itemID).Msg("observer failed")
	}
}
