// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"sort"

	"github.com/juju/collections/set"
	"github.com/juju/naturalsort"
)

// DetailedStatus holds a status value together with its human readable
// detail, as reported by the control plane.
type DetailedStatus struct {
	Status Status
	Info   string
}

// Unit describes one running instance of an application at the instant
// the snapshot was taken.
type Unit struct {
	// WorkloadStatus is the health of the workload the unit runs, as
	// reported by the unit itself.
	WorkloadStatus DetailedStatus

	// Machine is the id of the machine hosting the unit.
	Machine string
}

// Application groups the units deployed from one charm.
type Application struct {
	// Charm is the URL of the charm the application was deployed from.
	Charm string

	// Units indexes the application's units by unit name.
	Units map[string]Unit
}

// Model identifies the model a snapshot describes and carries its
// availability status.
type Model struct {
	Name   string
	Status DetailedStatus
}

// Snapshot is an immutable view of one model at one instant. A snapshot
// is never patched in place; code that needs a newer view fetches a
// fresh snapshot from the control plane.
type Snapshot struct {
	Model        Model
	Applications map[string]Application
}

// ErroredUnit describes a unit found in the error state by one scan
// pass. Records are ephemeral: they are only meaningful against the
// snapshot that produced them.
type ErroredUnit struct {
	// Application is the name of the application owning the unit.
	Application string

	// Unit is the full unit name, e.g. "db/0".
	Unit string

	// Machine is the id of the machine hosting the unit.
	Machine string

	// Message is the diagnostic reported with the error status.
	Message string

	// Model is the name of the model the unit belongs to.
	Model string
}

// ErroredUnits scans the snapshot and returns one record for every unit
// whose workload is in the error state. The result is deterministic for
// a given snapshot: applications in name order, units in natural order
// within each application, so "db/2" sorts before "db/10".
func ErroredUnits(snap *Snapshot) []ErroredUnit {
	var result []ErroredUnit
	for _, appName := range applicationNames(snap) {
		app := snap.Applications[appName]
		names := make([]string, 0, len(app.Units))
		for name := range app.Units {
			names = append(names, name)
		}
		naturalsort.Sort(names)
		for _, unitName := range names {
			unit := app.Units[unitName]
			if unit.WorkloadStatus.Status != Error {
				continue
			}
			result = append(result, ErroredUnit{
				Application: appName,
				Unit:        unitName,
				Machine:     unit.Machine,
				Message:     unit.WorkloadStatus.Info,
				Model:       snap.Model.Name,
			})
		}
	}
	return result
}

// UnitsInMachine returns the names of all units placed on the given
// machine, in natural order. Placement can change between polls, so the
// answer is recomputed from the snapshot on every call rather than
// cached.
func UnitsInMachine(snap *Snapshot, machineID string) []string {
	units := set.NewStrings()
	for _, app := range snap.Applications {
		for name, unit := range app.Units {
			if unit.Machine == machineID {
				units.Add(name)
			}
		}
	}
	return naturalsort.Sort(units.Values())
}

func applicationNames(snap *Snapshot) []string {
	names := make([]string, 0, len(snap.Applications))
	for name := range snap.Applications {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
