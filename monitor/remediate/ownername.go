// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package remediate

import (
	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// ownerName derives the bare username from a model owner tag. Owner
// tags have the form "user-<name>@<domain>"; the GUI addresses models
// by the name alone, without the tag prefix or the domain.
func ownerName(tag string) (string, error) {
	userTag, err := names.ParseUserTag(tag)
	if err != nil {
		return "", errors.Annotatef(err, "invalid model owner tag %q", tag)
	}
	return userTag.Name(), nil
}
