// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package monitor implements the model health monitoring session: it
// scans status snapshots for units in an error state, offers
// remediation actions for them, and re-polls the model after every
// remediation attempt.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/retry"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"

	"github.com/juju/modelmonitor/api"
	"github.com/juju/modelmonitor/core/status"
	"github.com/juju/modelmonitor/monitor/remediate"
	"github.com/juju/modelmonitor/notify"
)

var logger = loggo.GetLogger("juju.modelmonitor")

const (
	// defaultRefreshDelay is how long after a remediation attempt the
	// monitor waits before fetching a fresh snapshot.
	defaultRefreshDelay = 5 * time.Second

	// defaultDashboardURL is the base address models are linked under.
	defaultDashboardURL = "https://jujucharms.com"

	// statusFetchAttempts and statusFetchDelay bound the retries of
	// one snapshot fetch against transient control plane failures.
	statusFetchAttempts = 3
	statusFetchDelay    = time.Second
)

// Config defines the operation of a monitor worker.
type Config struct {
	// Connector supplies control plane connections for every
	// operation the monitor performs.
	Connector api.Connector

	// Sink receives notifications, log lines, actions and links.
	Sink notify.Sink

	// Fetcher retrieves metrics documents from jujushell deployments.
	// It may be nil, in which case the jujushell check is disabled.
	Fetcher Fetcher

	// Clock drives the refresh delay.
	Clock clock.Clock

	// RefreshDelay overrides the default wait between a remediation
	// attempt and the next snapshot fetch.
	RefreshDelay time.Duration

	// DashboardURL overrides the default GUI base address.
	DashboardURL string
}

// Validate returns an error if the config cannot be used to start a
// worker.
func (c Config) Validate() error {
	if c.Connector == nil {
		return errors.NotValidf("nil Connector")
	}
	if c.Sink == nil {
		return errors.NotValidf("nil Sink")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if c.RefreshDelay < 0 {
		return errors.NotValidf("negative RefreshDelay")
	}
	return nil
}

// Worker monitors one model for errored units. It runs for the
// lifetime of the monitoring session and is torn down by the owning
// process via Kill and Wait.
type Worker struct {
	catacomb catacomb.Catacomb
	config   Config
	builder  *remediate.Builder

	// refreshes carries one tick per fired refresh timer.
	refreshes chan struct{}
}

// NewWorker starts a monitoring session described by config.
func NewWorker(config Config) (worker.Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.RefreshDelay == 0 {
		config.RefreshDelay = defaultRefreshDelay
	}
	if config.DashboardURL == "" {
		config.DashboardURL = defaultDashboardURL
	}
	w := &Worker{
		config:    config,
		refreshes: make(chan struct{}),
	}
	builder, err := remediate.NewBuilder(remediate.Config{
		Connector:       config.Connector,
		Sink:            config.Sink,
		ScheduleRefresh: w.scheduleRefresh,
		DashboardURL:    config.DashboardURL,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	w.builder = builder
	if err := catacomb.Invoke(catacomb.Plan{
		Site: &w.catacomb,
		Work: w.loop,
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Worker) Kill() {
	w.catacomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Worker) Wait() error {
	return w.catacomb.Wait()
}

func (w *Worker) loop() error {
	ctx, cancel := w.scopedContext()
	defer cancel()

	w.refresh(ctx)
	for {
		select {
		case <-w.catacomb.Dying():
			return w.catacomb.ErrDying()
		case <-w.refreshes:
			w.refresh(ctx)
		}
	}
}

// scheduleRefresh arms one delayed refresh. Every remediation attempt
// arms its own; duplicate refreshes are accepted rather than coalesced.
func (w *Worker) scheduleRefresh() {
	timeout := w.config.Clock.After(w.config.RefreshDelay)
	go func() {
		select {
		case <-w.catacomb.Dying():
		case <-timeout:
			select {
			case w.refreshes <- struct{}{}:
			case <-w.catacomb.Dying():
			}
		}
	}()
}

// refresh acquires a fresh snapshot and runs a full scan pass against
// it. Failures are reported on the sink; the monitoring loop survives
// them all.
func (w *Worker) refresh(ctx context.Context) {
	snap, err := w.fetchStatus(ctx)
	if err != nil {
		w.config.Sink.Error(errors.Annotate(err, "cannot fetch model status").Error())
		return
	}
	w.config.Sink.Refresh()
	w.scan(ctx, snap)
}

// fetchStatus acquires a connection, retrieves a status snapshot, and
// runs the connection-bound peripheral checks before releasing it.
func (w *Worker) fetchStatus(ctx context.Context) (*status.Snapshot, error) {
	conn, err := w.config.Connector.Connect(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer conn.Close()

	var snap *status.Snapshot
	err = retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			snap, err = conn.FullStatus(ctx)
			return errors.Trace(err)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("status fetch attempt %d failed: %v", attempt, err)
		},
		Attempts: statusFetchAttempts,
		Delay:    statusFetchDelay,
		Clock:    w.config.Clock,
		Stop:     w.catacomb.Dying(),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	w.checkJujushell(ctx, conn, snap)
	return snap, nil
}

// scan runs the stateless model check and then surfaces every errored
// unit along with its remediation actions.
func (w *Worker) scan(ctx context.Context, snap *status.Snapshot) {
	w.checkModel(snap)
	units := status.ErroredUnits(snap)
	logger.Debugf("scan of model %q found %d errored units", snap.Model.Name, len(units))
	for _, unit := range units {
		w.config.Sink.Error(fmt.Sprintf(
			"unit %s is in an error state: %s", unit.Unit, unit.Message))
		if err := w.builder.Emit(ctx, snap, unit); err != nil {
			w.config.Sink.Error(err.Error())
		}
	}
}

// checkModel reports a model whose availability status is anything
// other than available. Single shot; no remediation is offered.
func (w *Worker) checkModel(snap *status.Snapshot) {
	if snap.Model.Status.Status == status.Available {
		return
	}
	w.config.Sink.Error(fmt.Sprintf(
		"model %s is not available: %s", snap.Model.Name, snap.Model.Status.Status))
}

func (w *Worker) scopedContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(w.catacomb.Context(context.Background()))
}
