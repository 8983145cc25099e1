package interfaces

import (
	"context"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// ReleaseUseCase defines release resolution and asset reconciliation
type ReleaseUseCase interface {
	// ResolveRelease finds the release for tag or creates one
	ResolveRelease(ctx context.Context, repo types.RepoRef, tag string, opts model.ReleaseOptions) (*model.ResolveResult, error)

	// UploadMissing uploads files whose base name is not yet an asset of the release
	UploadMissing(ctx context.Context, repo types.RepoRef, release *model.Release, files []string) (*model.UploadResult, error)

	// SelectRelease picks a release by exact name, or the latest one when name is empty
	SelectRelease(ctx context.Context, repo types.RepoRef, name string) (*model.Release, error)

	// DownloadFirstAsset streams the first asset of the release to dest
	DownloadFirstAsset(ctx context.Context, release *model.Release, dest string) (*model.DownloadResult, error)
}
