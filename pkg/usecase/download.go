package usecase

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

const downloadChunkSize = 100 * 1024

// DownloadFirstAsset streams the first asset of the release to dest,
// overwriting it
func (uc *releaseUseCase) DownloadFirstAsset(ctx context.Context, release *model.Release, dest string) (*model.DownloadResult, error) {
	logger := ctxlog.From(ctx)

	if len(release.Assets) == 0 {
		return nil, goerr.New("release had no assets",
			goerr.V("release", release.Name),
			goerr.V("tag", release.TagName),
			goerr.T(types.ErrTagNoAssets),
		)
	}
	asset := release.Assets[0]

	uc.progress.Start("Downloading " + asset.Name)
	defer uc.progress.Stop()

	body, err := uc.githubClient.DownloadAsset(ctx, &asset)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	size, err := writeFile(dest, body)
	if err != nil {
		return nil, err
	}

	logger.Info("Downloaded asset",
		"release", release.Name,
		"name", asset.Name,
		"destination", dest,
		"size", size,
	)

	return &model.DownloadResult{
		Asset:       asset,
		Destination: dest,
		Size:        size,
	}, nil
}

func writeFile(dest string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open destination file", goerr.V("path", dest))
	}

	n, err := io.CopyBuffer(f, r, make([]byte, downloadChunkSize))
	if err != nil {
		_ = f.Close()
		return n, goerr.Wrap(err, "failed to write asset", goerr.V("path", dest))
	}

	if err := f.Close(); err != nil {
		return n, goerr.Wrap(err, "failed to close destination file", goerr.V("path", dest))
	}

	return n, nil
}
