package usecase

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/ghrelease/pkg/utils/progress"
)

var warnColor = color.New(color.FgYellow)

type releaseUseCase struct {
	githubClient interfaces.GitHubClient
	stdout       io.Writer
	stderr       io.Writer
	progress     progress.Indicator
}

// Option is a functional option for ReleaseUseCase
type Option func(*releaseUseCase)

// WithStdout sets the writer for informational messages
func WithStdout(w io.Writer) Option {
	return func(uc *releaseUseCase) {
		uc.stdout = w
	}
}

// WithStderr sets the writer for warnings
func WithStderr(w io.Writer) Option {
	return func(uc *releaseUseCase) {
		uc.stderr = w
	}
}

// WithProgress sets the indicator shown during transfers
func WithProgress(p progress.Indicator) Option {
	return func(uc *releaseUseCase) {
		uc.progress = p
	}
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(githubClient interfaces.GitHubClient, opts ...Option) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		githubClient: githubClient,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		progress:     progress.Nop{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ResolveRelease returns the release tagged tag. A missing release is created
// only when tag is semver or opts.IgnoreSemver is set; otherwise the result is
// marked Skipped. An existing release is never modified.
func (uc *releaseUseCase) ResolveRelease(ctx context.Context, repo types.RepoRef, tag string, opts model.ReleaseOptions) (*model.ResolveResult, error) {
	logger := ctxlog.From(ctx)

	releases, err := uc.githubClient.ListReleases(ctx, repo)
	if err != nil {
		return nil, err
	}

	for _, r := range releases {
		if r.TagName == tag {
			logger.Debug("Found existing release",
				"repo", repo.String(),
				"tag", tag,
				"release_id", r.ID,
				"asset_count", len(r.Assets),
			)
			return &model.ResolveResult{Release: r}, nil
		}
	}

	if !opts.IgnoreSemver && !types.IsSemver(tag) {
		logger.Info("Tag is not semver, skip release creation",
			"repo", repo.String(),
			"tag", tag,
		)
		return &model.ResolveResult{Skipped: true}, nil
	}

	created, err := uc.githubClient.CreateRelease(ctx, repo, &model.NewRelease{
		TagName:    tag,
		Name:       tag,
		Body:       opts.Description,
		Draft:      opts.Draft,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Created release",
		"repo", repo.String(),
		"tag", tag,
		"release_id", created.ID,
		"draft", created.Draft,
		"prerelease", created.Prerelease,
	)

	return &model.ResolveResult{Release: created, Created: true}, nil
}

// SelectRelease picks the release named name, or the most recently created
// one when name is empty
func (uc *releaseUseCase) SelectRelease(ctx context.Context, repo types.RepoRef, name string) (*model.Release, error) {
	releases, err := uc.githubClient.ListReleases(ctx, repo)
	if err != nil {
		return nil, err
	}

	if name != "" {
		for _, r := range releases {
			if r.Name == name {
				return r, nil
			}
		}
		return nil, goerr.New("could not find release",
			goerr.V("repo", repo.String()),
			goerr.V("release", name),
			goerr.T(types.ErrTagReleaseNotFound),
		)
	}

	latest := LatestRelease(releases)
	if latest == nil {
		return nil, goerr.New("no releases found",
			goerr.V("repo", repo.String()),
			goerr.T(types.ErrTagNoReleasesFound),
		)
	}

	ctxlog.From(ctx).Debug("Selected latest release",
		"repo", repo.String(),
		"tag", latest.TagName,
		"created_at", latest.CreatedAt,
	)
	return latest, nil
}

// LatestRelease returns the release with the greatest CreatedAt. Ties keep the
// earliest one in input order. Returns nil for an empty list.
func LatestRelease(releases []*model.Release) *model.Release {
	var latest *model.Release
	for _, r := range releases {
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}
