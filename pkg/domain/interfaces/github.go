package interfaces

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// ListReleases returns every release of the repository, all pages included
	ListReleases(ctx context.Context, repo types.RepoRef) ([]*model.Release, error)

	// CreateRelease creates a new release
	CreateRelease(ctx context.Context, repo types.RepoRef, release *model.NewRelease) (*model.Release, error)

	// UploadAsset uploads the file as a release asset named name
	UploadAsset(ctx context.Context, repo types.RepoRef, releaseID int64, name string, file *os.File) (*model.Asset, error)

	// DownloadAsset opens the binary content of the asset. Caller closes the reader.
	DownloadAsset(ctx context.Context, asset *model.Asset) (io.ReadCloser, error)
}
