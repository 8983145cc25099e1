package types

import "regexp"

// semverPattern is MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(-([A-Za-z0-9\-\.]+))?(\+([A-Za-z0-9\-\.]+))?$`)

// IsSemver reports whether tag is a release-eligible version tag
func IsSemver(tag string) bool {
	return semverPattern.MatchString(tag)
}
