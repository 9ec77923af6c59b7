// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package monitor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/juju/modelmonitor/api"
	"github.com/juju/modelmonitor/core/status"
)

// Fetcher retrieves the document at a URL. The monitor uses it to
// scrape metrics from jujushell deployments; the transport behind it
// belongs to the owning process.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// jujushellCharm matches the charm URLs under which the jujushell charm
// is published, with or without a revision.
var jujushellCharm = regexp.MustCompile(`^(?:cs:)?(?:~[^/]+/)?jujushell(?:-\d+)?$`)

// errorsCountMetric matches one sample of the jujushell errors counter
// in prometheus text exposition format.
var errorsCountMetric = regexp.MustCompile(`^jujushell_errors_count\{message="([^"]*)"\}\s+([0-9]+(?:\.[0-9]+)?)$`)

// checkJujushell inspects every jujushell deployment in the snapshot
// and reports the errors its metrics endpoint has recorded.
// Applications deployed from other charms are skipped.
func (w *Worker) checkJujushell(ctx context.Context, conn api.Connection, snap *status.Snapshot) {
	if w.config.Fetcher == nil {
		return
	}
	appNames := make([]string, 0, len(snap.Applications))
	for name := range snap.Applications {
		appNames = append(appNames, name)
	}
	sort.Strings(appNames)
	for _, appName := range appNames {
		if !jujushellCharm.MatchString(snap.Applications[appName].Charm) {
			continue
		}
		if err := w.checkJujushellApp(ctx, conn, appName); err != nil {
			w.config.Sink.Error(errors.Annotatef(err, "cannot check jujushell %q", appName).Error())
		}
	}
}

func (w *Worker) checkJujushellApp(ctx context.Context, conn api.Connection, appName string) error {
	config, err := conn.ApplicationConfig(ctx, appName)
	if err != nil {
		return errors.Annotate(err, "cannot fetch application config")
	}
	dnsName, ok := configValue(config, "dns-name")
	if !ok || dnsName == "" {
		return errors.NotFoundf("dns-name in application config")
	}
	url := fmt.Sprintf("https://%s/metrics", dnsName)
	text, err := w.config.Fetcher.Fetch(ctx, url)
	if err != nil {
		return errors.Annotatef(err, "cannot fetch metrics from %s", url)
	}
	for _, sample := range parseErrorsCount(text) {
		w.config.Sink.Error(fmt.Sprintf(
			"jujushell %s: %s (%v times)", dnsName, sample.message, sample.count))
	}
	return nil
}

// errorSample is one message/count pair scraped from the jujushell
// errors counter.
type errorSample struct {
	message string
	count   float64
}

// parseErrorsCount extracts the jujushell error counter samples from a
// prometheus text document. Comments, other metrics and malformed
// lines are ignored.
func parseErrorsCount(text string) []errorSample {
	var samples []errorSample
	for _, line := range strings.Split(text, "\n") {
		m := errorsCountMetric.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		count, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		samples = append(samples, errorSample{message: m[1], count: count})
	}
	return samples
}

// configValue extracts a string setting from an application config
// map. Application config nests each setting's value under a "value"
// key.
func configValue(config map[string]interface{}, key string) (string, bool) {
	setting, ok := config[key].(map[string]interface{})
	if !ok {
		return "", false
	}
	value, ok := setting["value"].(string)
	return value, ok
}
