// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

// Status represents the health of an entity as reported by the control
// plane. The same enumeration covers models, unit agents, and workloads.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

const (
	// Status values common to several entity kinds.

	// Error means the entity requires human intervention
	// in order to operate correctly.
	Error Status = "error"

	// Unknown is set when the entity has not yet reported a status
	// of its own.
	Unknown Status = "unknown"

	// Destroying indicates that the entity is being destroyed.
	Destroying Status = "destroying"
)

const (
	// Status values specific to workloads.

	// Maintenance is set when:
	// The unit is not yet providing services, but is actively doing stuff
	// in preparation for providing those services.
	// This is a "spinning" state, not an error state.
	Maintenance Status = "maintenance"

	// Waiting is set when:
	// The unit is unable to progress to an active state because an
	// application to which it is related is not running.
	Waiting Status = "waiting"

	// Blocked is set when:
	// The unit needs manual intervention to get back to the Running state.
	Blocked Status = "blocked"

	// Active is set when:
	// The unit believes it is correctly offering all the services it has
	// been asked to offer.
	Active Status = "active"
)

const (
	// Status values specific to models.

	// Available indicates that the model is available for use.
	Available Status = "available"

	// Busy indicates that the model is not available for use because it is
	// running a process that must take the model offline, such as a
	// migration, upgrade, or backup. This is a spinning state, it is not
	// an error state, and it should be expected that the model will
	// eventually go back to available.
	Busy Status = "busy"

	// Suspended indicates that the model cannot be used at the moment,
	// for instance because its cloud credential has become invalid.
	Suspended Status = "suspended"
)
