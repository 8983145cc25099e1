package model

import "time"

// Release is a snapshot of a GitHub release taken during a single run
type Release struct {
	ID         int64
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
	CreatedAt  time.Time
	UploadURL  string
	Assets     []Asset
}

// Asset is a binary attached to a release. Name is unique within a release.
type Asset struct {
	ID                 int64
	Name               string
	URL                string // API URL, serves the binary with Accept: application/octet-stream
	BrowserDownloadURL string
	Size               int64
}

// AssetNames returns the names of all assets in API order
func (r *Release) AssetNames() []string {
	names := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		names = append(names, a.Name)
	}
	return names
}

// NewRelease is the metadata used to create a release
type NewRelease struct {
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// ReleaseOptions controls how a missing release is created
type ReleaseOptions struct {
	Draft        bool
	Prerelease   bool
	Description  string
	IgnoreSemver bool
}

// ResolveResult is the outcome of resolving a tag to a release
type ResolveResult struct {
	Release *Release // nil when Skipped
	Created bool     // true when the release was created in this run
	Skipped bool     // tag is not semver and no override was given
}
