package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// ExpandAssetPath resolves path to the ordered list of files to upload. A
// regular file yields itself; a directory yields every regular file beneath
// it in depth-first lexical order. A symlink given as path is followed, while
// symlinks inside a directory are skipped.
func ExpandAssetPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(err, "could not find file or folder",
				goerr.V("path", path),
				goerr.T(types.ErrTagLocalPathNotFound),
			)
		}
		return nil, goerr.Wrap(err, "failed to stat asset path", goerr.V("path", path))
	}

	switch {
	case info.Mode().IsRegular():
		return []string{path}, nil

	case info.IsDir():
		// WalkDir does not descend into a symlinked root, so walk its target
		// and report paths under the given one
		root, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resolve asset directory", goerr.V("path", path))
		}

		var files []string
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			// symlinks, sockets, devices and directories are not assets
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, filepath.Join(path, rel))
			return nil
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to walk asset directory", goerr.V("path", path))
		}
		return files, nil

	default:
		return nil, goerr.New("unknown file type",
			goerr.V("path", path),
			goerr.V("mode", info.Mode().String()),
			goerr.T(types.ErrTagUnknownFileType),
		)
	}
}

// UploadMissing uploads every file whose base name is not an asset of the
// release yet. Names uploaded in this run count as existing, so a base name
// seen twice is uploaded once.
func (uc *releaseUseCase) UploadMissing(ctx context.Context, repo types.RepoRef, release *model.Release, files []string) (*model.UploadResult, error) {
	logger := ctxlog.From(ctx)
	result := &model.UploadResult{}

	existing := make(map[string]struct{}, len(release.Assets)+len(files))
	for _, name := range release.AssetNames() {
		existing[name] = struct{}{}
	}

	for _, file := range files {
		name := filepath.Base(file)

		if _, ok := existing[name]; ok {
			_, _ = warnColor.Fprintf(uc.stderr, "Already uploaded file: %s\n", name)
			logger.Info("Skip duplicated asset", "name", name, "path", file)
			result.Duplicated = append(result.Duplicated, name)
			continue
		}

		_, _ = fmt.Fprintf(uc.stdout, "Uploading %s\n", file)
		asset, err := uc.uploadFile(ctx, repo, release.ID, name, file)
		if err != nil {
			return result, err
		}

		logger.Info("Uploaded asset",
			"repo", repo.String(),
			"release_id", release.ID,
			"name", asset.Name,
			"size", asset.Size,
		)
		existing[name] = struct{}{}
		result.Uploaded = append(result.Uploaded, file)
	}

	return result, nil
}

func (uc *releaseUseCase) uploadFile(ctx context.Context, repo types.RepoRef, releaseID int64, name, path string) (*model.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open asset file", goerr.V("path", path))
	}
	defer f.Close()

	uc.progress.Start("Uploading " + name)
	defer uc.progress.Stop()

	return uc.githubClient.UploadAsset(ctx, repo, releaseID, name, f)
}
