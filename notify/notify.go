// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package notify defines the presentation-agnostic surface through
// which the monitor reports its findings. How notifications, actions
// and links are rendered is entirely up to the Sink implementation.
package notify

import (
	"context"
	"io"
)

// Action is a named remediation operation bound to the control plane
// calls it performs. Actions are ephemeral: a fresh set is built for
// every scan pass and supersedes the previous one.
type Action struct {
	// Label names the action for presentation.
	Label string

	// Run performs the action. Output meant for the invoking user,
	// such as a rendered status view, is written to w.
	Run func(ctx context.Context, w io.Writer) error
}

// Sink receives everything the monitor has to say.
type Sink interface {
	// Error reports a problem found in the model or encountered while
	// remediating one.
	Error(message string)

	// Log records a line describing an operation the monitor carried
	// out.
	Log(message string)

	// AddAction offers a remediation action to the user.
	AddAction(action Action)

	// AddLink offers a hyperlink related to the current findings.
	AddLink(label, url string)

	// Refresh signals that a new status snapshot has been loaded and
	// previously offered actions are superseded.
	Refresh()
}
