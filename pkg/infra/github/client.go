package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// downloadUser is the fixed basic auth user for binary asset downloads.
// GitHub only checks the password (the token).
const downloadUser = "x-access-token"

const perPage = 100

type client struct {
	githubClient *github.Client
	httpClient   *http.Client
	token        types.GitHubToken
}

// config holds internal client configuration
type config struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL sets the REST API endpoint, for GitHub Enterprise Server or a
// test server. Unless WithUploadURL is given, a base URL ending in /api/v3/
// uploads to the sibling /api/uploads/ and any other base URL uploads to
// itself.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithUploadURL sets the release asset upload endpoint
func WithUploadURL(uploadURL string) Option {
	return func(c *config) {
		c.uploadURL = uploadURL
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GitHub client authenticated with a token
func NewClient(token types.GitHubToken, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty", goerr.T(types.ErrTagMissingCredential))
	}

	cfg := &config{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient).WithAuthToken(string(token))

	if cfg.baseURL != "" {
		base, err := parseEndpoint(cfg.baseURL)
		if err != nil {
			return nil, err
		}
		githubClient.BaseURL = base

		upload := cfg.uploadURL
		if upload == "" {
			upload = uploadURLFor(base.String())
		}
		u, err := parseEndpoint(upload)
		if err != nil {
			return nil, err
		}
		githubClient.UploadURL = u
	} else if cfg.uploadURL != "" {
		u, err := parseEndpoint(cfg.uploadURL)
		if err != nil {
			return nil, err
		}
		githubClient.UploadURL = u
	}

	return &client{
		githubClient: githubClient,
		httpClient:   cfg.httpClient,
		token:        token,
	}, nil
}

// ListReleases returns every release of the repository
func (c *client) ListReleases(ctx context.Context, repo types.RepoRef) ([]*model.Release, error) {
	var releases []*model.Release
	opt := &github.ListOptions{PerPage: perPage}

	for {
		page, resp, err := c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			if isNotFound(err) {
				return nil, goerr.Wrap(err, "could not find repo",
					goerr.V("repo", repo.String()),
					goerr.T(types.ErrTagRepoNotFound),
				)
			}
			return nil, goerr.Wrap(err, "failed to list releases", goerr.V("repo", repo.String()))
		}

		for _, r := range page {
			releases = append(releases, toRelease(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return releases, nil
}

// CreateRelease creates a new release
func (c *client) CreateRelease(ctx context.Context, repo types.RepoRef, release *model.NewRelease) (*model.Release, error) {
	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, repo.Owner, repo.Name, &github.RepositoryRelease{
		TagName:    github.Ptr(release.TagName),
		Name:       github.Ptr(release.Name),
		Body:       github.Ptr(release.Body),
		Draft:      github.Ptr(release.Draft),
		Prerelease: github.Ptr(release.Prerelease),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(err, "could not find repo",
				goerr.V("repo", repo.String()),
				goerr.T(types.ErrTagRepoNotFound),
			)
		}
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("repo", repo.String()),
			goerr.V("tag", release.TagName),
		)
	}

	return toRelease(created), nil
}

// UploadAsset uploads the file as a release asset
func (c *client) UploadAsset(ctx context.Context, repo types.RepoRef, releaseID int64, name string, file *os.File) (*model.Asset, error) {
	asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, repo.Owner, repo.Name, releaseID, &github.UploadOptions{
		Name: name,
	}, file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("repo", repo.String()),
			goerr.V("release_id", releaseID),
			goerr.V("name", name),
		)
	}

	return toAsset(asset), nil
}

// DownloadAsset opens the binary content of the asset with basic auth
func (c *client) DownloadAsset(ctx context.Context, asset *model.Asset) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("url", asset.URL))
	}
	req.Header.Set("Accept", "application/octet-stream")
	req.SetBasicAuth(downloadUser, string(c.token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download asset", goerr.V("url", asset.URL))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, goerr.New("unexpected status code for asset download",
			goerr.V("status", resp.StatusCode),
			goerr.V("url", asset.URL),
			goerr.V("name", asset.Name),
		)
	}

	return resp.Body, nil
}

const (
	enterpriseAPIPath    = "/api/v3/"
	enterpriseUploadPath = "/api/uploads/"
)

func parseEndpoint(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse GitHub endpoint URL", goerr.V("url", raw))
	}
	return u, nil
}

// uploadURLFor derives the upload endpoint from a REST endpoint ending in "/"
func uploadURLFor(base string) string {
	if strings.HasSuffix(base, enterpriseAPIPath) {
		return strings.TrimSuffix(base, enterpriseAPIPath) + enterpriseUploadPath
	}
	return base
}

func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func toRelease(r *github.RepositoryRelease) *model.Release {
	release := &model.Release{
		ID:         r.GetID(),
		TagName:    r.GetTagName(),
		Name:       r.GetName(),
		Body:       r.GetBody(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
		CreatedAt:  r.GetCreatedAt().Time,
		UploadURL:  r.GetUploadURL(),
	}
	for _, a := range r.Assets {
		release.Assets = append(release.Assets, *toAsset(a))
	}
	return release
}

func toAsset(a *github.ReleaseAsset) *model.Asset {
	return &model.Asset{
		ID:                 a.GetID(),
		Name:               a.GetName(),
		URL:                a.GetURL(),
		BrowserDownloadURL: a.GetBrowserDownloadURL(),
		Size:               int64(a.GetSize()),
	}
}
