// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package api defines the control plane surface the monitor consumes.
// Implementations live with the owning process; the monitor only ever
// sees these interfaces.
package api

import (
	"context"

	"github.com/juju/modelmonitor/core/status"
)

// Connection is a short-lived authenticated handle on the control
// plane. Callers acquire one immediately before use and must close it
// exactly once on every exit path of the operation that acquired it.
type Connection interface {
	// FullStatus returns a fresh snapshot of the model.
	FullStatus(ctx context.Context) (*status.Snapshot, error)

	// ResolveUnitError marks the unit's error as resolved so that its
	// agent retries the failed operation.
	ResolveUnitError(ctx context.Context, unitName string) error

	// DestroyMachines removes the given machines from the model.
	DestroyMachines(ctx context.Context, force bool, machines ...string) error

	// AddUnits adds count new units to the given application and
	// returns the names of the units created.
	AddUnits(ctx context.Context, application string, count int) ([]string, error)

	// WatchAll opens a delta subscription over the whole model.
	WatchAll(ctx context.Context) (AllWatcher, error)

	// ModelInfo returns metadata about the connected model.
	ModelInfo(ctx context.Context) (ModelInfo, error)

	// ApplicationConfig returns the charm configuration of the given
	// application. Each setting is a map carrying at least a "value"
	// key.
	ApplicationConfig(ctx context.Context, application string) (map[string]interface{}, error)

	// Close releases the connection.
	Close() error
}

// Connector supplies control plane connections on demand.
type Connector interface {
	Connect(ctx context.Context) (Connection, error)
}

// AllWatcher streams deltas describing changes to the entire model.
type AllWatcher interface {
	// Next returns a new batch of deltas. It blocks until there are
	// deltas to return or the watch fails.
	Next(ctx context.Context) ([]Delta, error)

	// Stop detaches the watcher from the control plane.
	Stop() error
}

// Delta describes one incremental change reported by an AllWatcher.
type Delta struct {
	// Removed marks the entity as removed from the model, as opposed
	// to changed.
	Removed bool

	// Entity holds the changed entity.
	Entity EntityInfo
}

// EntityInfo gives access to the identity of the entity a delta
// concerns.
type EntityInfo interface {
	EntityID() EntityID
}

// EntityID uniquely identifies an entity within the delta stream.
type EntityID struct {
	// Kind names the entity type, e.g. "machine" or "unit".
	Kind string

	// ID is the entity's identifier within its kind.
	ID string
}

// ModelInfo holds the subset of model metadata the monitor consumes.
type ModelInfo struct {
	Name string
	UUID string

	// OwnerTag is the tag of the user owning the model, in the form
	// "user-<name>@<domain>".
	OwnerTag string
}
