package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// GitHubToken is the access credential. Its type is used by the log
// redaction filter, so keep it distinct from plain strings.
type GitHubToken string

// RepoRef identifies a repository as owner/name
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef parses "owner/name"
func ParseRepoRef(s string) (RepoRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, goerr.New("repo_name must be in the form owner/repo",
			goerr.V("repo_name", s),
			goerr.T(ErrTagMissingArgument),
		)
	}

	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}
