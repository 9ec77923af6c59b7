// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/modelmonitor/core/status"
)

type snapshotSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&snapshotSuite{})

func makeSnapshot() *status.Snapshot {
	return &status.Snapshot{
		Model: status.Model{
			Name:   "default",
			Status: status.DetailedStatus{Status: status.Available},
		},
		Applications: map[string]status.Application{
			"db": {
				Charm: "cs:mysql-42",
				Units: map[string]status.Unit{
					"db/0": {
						WorkloadStatus: status.DetailedStatus{
							Status: status.Error,
							Info:   "hook failed: install",
						},
						Machine: "0",
					},
					"db/1": {
						WorkloadStatus: status.DetailedStatus{Status: status.Active},
						Machine:        "1",
					},
				},
			},
			"wordpress": {
				Charm: "cs:wordpress-47",
				Units: map[string]status.Unit{
					"wordpress/0": {
						WorkloadStatus: status.DetailedStatus{Status: status.Active},
						Machine:        "1",
					},
				},
			},
		},
	}
}

func (s *snapshotSuite) TestErroredUnits(c *gc.C) {
	units := status.ErroredUnits(makeSnapshot())
	c.Assert(units, jc.DeepEquals, []status.ErroredUnit{{
		Application: "db",
		Unit:        "db/0",
		Machine:     "0",
		Message:     "hook failed: install",
		Model:       "default",
	}})
}

func (s *snapshotSuite) TestErroredUnitsCountMatchesErrors(c *gc.C) {
	snap := makeSnapshot()
	app := snap.Applications["wordpress"]
	app.Units["wordpress/1"] = status.Unit{
		WorkloadStatus: status.DetailedStatus{Status: status.Error, Info: "boom"},
		Machine:        "2",
	}
	snap.Applications["wordpress"] = app

	units := status.ErroredUnits(snap)
	c.Assert(units, gc.HasLen, 2)
}

func (s *snapshotSuite) TestErroredUnitsNoneInError(c *gc.C) {
	snap := makeSnapshot()
	app := snap.Applications["db"]
	app.Units["db/0"] = status.Unit{
		WorkloadStatus: status.DetailedStatus{Status: status.Active},
		Machine:        "0",
	}
	snap.Applications["db"] = app

	c.Assert(status.ErroredUnits(snap), gc.HasLen, 0)
}

func (s *snapshotSuite) TestErroredUnitsOrder(c *gc.C) {
	snap := &status.Snapshot{
		Model: status.Model{Name: "default"},
		Applications: map[string]status.Application{
			"db": {Units: map[string]status.Unit{
				"db/10": {WorkloadStatus: status.DetailedStatus{Status: status.Error}, Machine: "10"},
				"db/2":  {WorkloadStatus: status.DetailedStatus{Status: status.Error}, Machine: "2"},
			}},
			"apache": {Units: map[string]status.Unit{
				"apache/0": {WorkloadStatus: status.DetailedStatus{Status: status.Error}, Machine: "0"},
			}},
		},
	}
	units := status.ErroredUnits(snap)
	names := make([]string, len(units))
	for i, unit := range units {
		names[i] = unit.Unit
	}
	c.Assert(names, jc.DeepEquals, []string{"apache/0", "db/2", "db/10"})
}

func (s *snapshotSuite) TestErroredUnitsIdempotent(c *gc.C) {
	snap := makeSnapshot()
	first := status.ErroredUnits(snap)
	second := status.ErroredUnits(snap)
	c.Assert(second, jc.DeepEquals, first)
}

func (s *snapshotSuite) TestUnitsInMachine(c *gc.C) {
	snap := makeSnapshot()
	c.Assert(status.UnitsInMachine(snap, "0"), jc.DeepEquals, []string{"db/0"})
	c.Assert(status.UnitsInMachine(snap, "1"), jc.DeepEquals, []string{"db/1", "wordpress/0"})
}

func (s *snapshotSuite) TestUnitsInMachineNoUnits(c *gc.C) {
	c.Assert(status.UnitsInMachine(makeSnapshot(), "42"), gc.HasLen, 0)
}

func (s *snapshotSuite) TestUnitsInMachineIncludesQueriedUnit(c *gc.C) {
	snap := makeSnapshot()
	units := status.UnitsInMachine(snap, "0")
	c.Assert(units, jc.SameContents, []string{"db/0"})
}
