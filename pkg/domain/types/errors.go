package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify fatal failures. DuplicateAsset and SemverSkip are not
// errors and have no tag.
var (
	ErrTagMissingArgument   = goerr.NewTag("missing_argument")
	ErrTagMissingCredential = goerr.NewTag("missing_credential")
	ErrTagRepoNotFound      = goerr.NewTag("repo_not_found")
	ErrTagReleaseNotFound   = goerr.NewTag("release_not_found")
	ErrTagNoReleasesFound   = goerr.NewTag("no_releases_found")
	ErrTagLocalPathNotFound = goerr.NewTag("local_path_not_found")
	ErrTagUnknownFileType   = goerr.NewTag("unknown_file_type")
	ErrTagNoAssets          = goerr.NewTag("no_assets")
)

// IsUsageError reports whether err should be followed by the usage banner
func IsUsageError(err error) bool {
	return goerr.HasTag(err, ErrTagMissingArgument) || goerr.HasTag(err, ErrTagMissingCredential)
}
