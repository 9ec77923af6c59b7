// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package monitor

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type jujushellSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&jujushellSuite{})

func (s *jujushellSuite) TestCharmPattern(c *gc.C) {
	for _, charm := range []string{
		"jujushell",
		"jujushell-42",
		"cs:jujushell",
		"cs:jujushell-0",
		"cs:~juju/jujushell-4",
	} {
		c.Check(jujushellCharm.MatchString(charm), jc.IsTrue,
			gc.Commentf("charm %q", charm))
	}
	for _, charm := range []string{
		"cs:mysql-42",
		"cs:~juju/jujushell-extra",
		"jujushellish",
		"cs:~juju/not-jujushell",
	} {
		c.Check(jujushellCharm.MatchString(charm), jc.IsFalse,
			gc.Commentf("charm %q", charm))
	}
}

func (s *jujushellSuite) TestParseErrorsCount(c *gc.C) {
	text := `
# HELP jujushell_errors_count the number of errors encountered
# TYPE jujushell_errors_count counter
jujushell_errors_count{message="cannot authenticate user"} 2
jujushell_errors_count{message="cannot connect"} 4.0
jujushell_requests_count{code="200"} 17
jujushell_errors_count{message="malformed sample"} not-a-number
`
	samples := parseErrorsCount(text)
	c.Assert(samples, jc.DeepEquals, []errorSample{
		{message: "cannot authenticate user", count: 2},
		{message: "cannot connect", count: 4},
	})
}

func (s *jujushellSuite) TestParseErrorsCountEmpty(c *gc.C) {
	c.Assert(parseErrorsCount(""), gc.HasLen, 0)
	c.Assert(parseErrorsCount("# only comments here"), gc.HasLen, 0)
}

func (s *jujushellSuite) TestConfigValue(c *gc.C) {
	config := map[string]interface{}{
		"dns-name": map[string]interface{}{
			"description": "the DNS name of the service",
			"value":       "shell.example.com",
		},
		"port": map[string]interface{}{
			"value": 443,
		},
		"flat": "not a setting map",
	}

	value, ok := configValue(config, "dns-name")
	c.Assert(ok, jc.IsTrue)
	c.Assert(value, gc.Equals, "shell.example.com")

	_, ok = configValue(config, "port")
	c.Assert(ok, jc.IsFalse)

	_, ok = configValue(config, "flat")
	c.Assert(ok, jc.IsFalse)

	_, ok = configValue(config, "missing")
	c.Assert(ok, jc.IsFalse)
}
