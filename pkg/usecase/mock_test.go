package usecase_test

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// MockGitHubClient is a mock implementation of GitHubClient
type MockGitHubClient struct {
	listReleasesFunc  func(ctx context.Context, repo types.RepoRef) ([]*model.Release, error)
	createReleaseFunc func(ctx context.Context, repo types.RepoRef, release *model.NewRelease) (*model.Release, error)
	uploadAssetFunc   func(ctx context.Context, repo types.RepoRef, releaseID int64, name string, file *os.File) (*model.Asset, error)
	downloadAssetFunc func(ctx context.Context, asset *model.Asset) (io.ReadCloser, error)

	createCalls   []*model.NewRelease
	uploadCalls   []string
	downloadCalls []string
}

func (m *MockGitHubClient) ListReleases(ctx context.Context, repo types.RepoRef) ([]*model.Release, error) {
	if m.listReleasesFunc != nil {
		return m.listReleasesFunc(ctx, repo)
	}
	return nil, errors.New("mock not configured")
}

func (m *MockGitHubClient) CreateRelease(ctx context.Context, repo types.RepoRef, release *model.NewRelease) (*model.Release, error) {
	m.createCalls = append(m.createCalls, release)
	if m.createReleaseFunc != nil {
		return m.createReleaseFunc(ctx, repo, release)
	}
	return &model.Release{
		ID:         1,
		TagName:    release.TagName,
		Name:       release.Name,
		Body:       release.Body,
		Draft:      release.Draft,
		Prerelease: release.Prerelease,
	}, nil
}

func (m *MockGitHubClient) UploadAsset(ctx context.Context, repo types.RepoRef, releaseID int64, name string, file *os.File) (*model.Asset, error) {
	m.uploadCalls = append(m.uploadCalls, name)
	if m.uploadAssetFunc != nil {
		return m.uploadAssetFunc(ctx, repo, releaseID, name, file)
	}
	return &model.Asset{Name: name}, nil
}

func (m *MockGitHubClient) DownloadAsset(ctx context.Context, asset *model.Asset) (io.ReadCloser, error) {
	m.downloadCalls = append(m.downloadCalls, asset.Name)
	if m.downloadAssetFunc != nil {
		return m.downloadAssetFunc(ctx, asset)
	}
	return nil, errors.New("mock not configured")
}

func releasesOf(releases ...*model.Release) func(ctx context.Context, repo types.RepoRef) ([]*model.Release, error) {
	return func(ctx context.Context, repo types.RepoRef) ([]*model.Release, error) {
		return releases, nil
	}
}
