// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package remediate builds the remediation actions offered for units
// found in an error state.
package remediate

import (
	"context"
	"fmt"
	"io"

	"github.com/juju/ansiterm"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/modelmonitor/api"
	"github.com/juju/modelmonitor/core/status"
	"github.com/juju/modelmonitor/notify"
)

var logger = loggo.GetLogger("juju.modelmonitor.remediate")

// Config holds the collaborators a Builder requires.
type Config struct {
	// Connector supplies a connection for every control plane call an
	// action performs.
	Connector api.Connector

	// Sink receives the actions, links, log lines and errors.
	Sink notify.Sink

	// ScheduleRefresh arms one delayed re-poll of the model status. It
	// is called after every remediation attempt, whatever the outcome.
	ScheduleRefresh func()

	// DashboardURL is the base address under which models are linked.
	DashboardURL string
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if c.Connector == nil {
		return errors.NotValidf("nil Connector")
	}
	if c.Sink == nil {
		return errors.NotValidf("nil Sink")
	}
	if c.ScheduleRefresh == nil {
		return errors.NotValidf("nil ScheduleRefresh")
	}
	if c.DashboardURL == "" {
		return errors.NotValidf("empty DashboardURL")
	}
	return nil
}

// Builder constructs remediation actions for errored units.
type Builder struct {
	config Config
}

// NewBuilder returns a Builder using the supplied config.
func NewBuilder(config Config) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Builder{config: config}, nil
}

// Emit offers the actions applicable to the given errored unit on the
// sink, in presentation order: retry, replace machine (only when the
// unit is the sole occupant of its machine), show status, and a link to
// the unit's model in the GUI. The link is built eagerly at scan time;
// a failure to fetch the model info is returned to the caller.
func (b *Builder) Emit(ctx context.Context, snap *status.Snapshot, unit status.ErroredUnit) error {
	b.config.Sink.AddAction(notify.Action{
		Label: "retry",
		Run: b.remediation(func(ctx context.Context, _ io.Writer) error {
			return b.retry(ctx, unit)
		}),
	})
	occupants := status.UnitsInMachine(snap, unit.Machine)
	if len(occupants) <= 1 {
		b.config.Sink.AddAction(notify.Action{
			Label: "replace machine",
			Run: b.remediation(func(ctx context.Context, _ io.Writer) error {
				return b.replace(ctx, unit)
			}),
		})
	} else {
		logger.Debugf("machine %s hosts %d units, not offering replace for %s",
			unit.Machine, len(occupants), unit.Unit)
	}
	b.config.Sink.AddAction(notify.Action{
		Label: "show status",
		Run:   b.surfaced(b.showStatus),
	})
	return b.addDashboardLink(ctx, unit)
}

// remediation wraps a control plane operation so that its failure
// reaches the sink and a refresh is scheduled regardless of the
// outcome. The error is also returned to the invoking driver.
func (b *Builder) remediation(run func(context.Context, io.Writer) error) func(context.Context, io.Writer) error {
	run = b.surfaced(run)
	return func(ctx context.Context, w io.Writer) error {
		err := run(ctx, w)
		b.config.ScheduleRefresh()
		return errors.Trace(err)
	}
}

// surfaced wraps an operation so that its failure is reported on the
// sink as well as returned.
func (b *Builder) surfaced(run func(context.Context, io.Writer) error) func(context.Context, io.Writer) error {
	return func(ctx context.Context, w io.Writer) error {
		err := run(ctx, w)
		if err != nil {
			b.config.Sink.Error(err.Error())
		}
		return errors.Trace(err)
	}
}

// retry marks the unit's error as resolved so that its agent retries
// the failed operation.
func (b *Builder) retry(ctx context.Context, unit status.ErroredUnit) error {
	conn, err := b.config.Connector.Connect(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()
	if err := conn.ResolveUnitError(ctx, unit.Unit); err != nil {
		return errors.Annotatef(err, "cannot retry unit %q", unit.Unit)
	}
	b.config.Sink.Log(fmt.Sprintf("unit %s retried", unit.Unit))
	return nil
}

// replace destroys the unit's machine and adds one replacement unit to
// the owning application. There is no rollback: if the add fails after
// a successful destroy the machine is already gone and the operator
// must retry the whole action.
func (b *Builder) replace(ctx context.Context, unit status.ErroredUnit) error {
	conn, err := b.config.Connector.Connect(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()
	if err := conn.DestroyMachines(ctx, true, unit.Machine); err != nil {
		return errors.Annotatef(err, "cannot destroy machine %s", unit.Machine)
	}
	b.config.Sink.Log(fmt.Sprintf("machine %s destroyed", unit.Machine))
	if _, err := conn.AddUnits(ctx, unit.Application, 1); err != nil {
		return errors.Annotatef(err,
			"machine %s destroyed but no unit added to application %s",
			unit.Machine, unit.Application)
	}
	b.config.Sink.Log(fmt.Sprintf("unit added to application %s", unit.Application))
	return nil
}

// showStatus opens a delta watch over the model and renders the first
// batch of deltas to w. The watch is single shot: the first event of
// either kind ends it, and the watcher is detached on every path.
func (b *Builder) showStatus(ctx context.Context, w io.Writer) error {
	conn, err := b.config.Connector.Connect(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()
	watcher, err := conn.WatchAll(ctx)
	if err != nil {
		return errors.Annotate(err, "cannot watch model")
	}
	defer watcher.Stop()
	deltas, err := watcher.Next(ctx)
	if err != nil {
		return errors.Annotate(err, "cannot read model deltas")
	}
	renderDeltas(w, deltas)
	return nil
}

func renderDeltas(w io.Writer, deltas []api.Delta) {
	tw := ansiterm.NewTabWriter(w, 0, 1, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tCHANGE")
	for _, delta := range deltas {
		change := "changed"
		if delta.Removed {
			change = "removed"
		}
		id := delta.Entity.EntityID()
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id.Kind, id.ID, change)
	}
	tw.Flush()
}

// addDashboardLink fetches the model info and offers a link to the
// unit's model in the GUI, addressed by the owner's bare username.
func (b *Builder) addDashboardLink(ctx context.Context, unit status.ErroredUnit) error {
	conn, err := b.config.Connector.Connect(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()
	info, err := conn.ModelInfo(ctx)
	if err != nil {
		return errors.Annotate(err, "cannot fetch model info")
	}
	username, err := ownerName(info.OwnerTag)
	if err != nil {
		return errors.Trace(err)
	}
	url := fmt.Sprintf("%s/u/%s/%s", b.config.DashboardURL, username, unit.Model)
	b.config.Sink.AddLink("open the GUI", url)
	return nil
}
