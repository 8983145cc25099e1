package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// legacyDescription is the body of releases created by the minimal option set
const legacyDescription = "Release Draft"

// Release holds options for creating a missing release. With Full unset only
// the legacy behavior is exposed: drafts with a fixed body and the semver gate.
type Release struct {
	Full bool

	Draft        bool
	Prerelease   bool
	Description  string
	IgnoreSemver bool
}

// Flags returns CLI flags for release creation. The minimal set has none.
func (c *Release) Flags() []cli.Flag {
	if !c.Full {
		return nil
	}

	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "pre",
			Usage:       "Mark the created release as a prerelease",
			Destination: &c.Prerelease,
		},
		&cli.BoolFlag{
			Name:        "draft",
			Usage:       "Create the release as a draft",
			Destination: &c.Draft,
		},
		&cli.StringFlag{
			Name:        "description",
			Usage:       "Body of the created release",
			Destination: &c.Description,
		},
		&cli.BoolFlag{
			Name:        "ignore-semver",
			Usage:       "Create the release even if the tag is not semver",
			Destination: &c.IgnoreSemver,
		},
	}
}

// Options converts the configuration into release options
func (c *Release) Options() model.ReleaseOptions {
	if !c.Full {
		return model.ReleaseOptions{
			Draft:       true,
			Description: legacyDescription,
		}
	}

	return model.ReleaseOptions{
		Draft:        c.Draft,
		Prerelease:   c.Prerelease,
		Description:  c.Description,
		IgnoreSemver: c.IgnoreSemver,
	}
}
