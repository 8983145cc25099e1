package github_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	githubinfra "github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/utils/githubtest"
)

const testToken = "test-token"

var testRepo = types.RepoRef{Owner: "myorg", Name: "myrepo"}

func newClient(t *testing.T, srv *githubtest.Server, token string) interfaces.GitHubClient {
	client, err := githubinfra.NewClient(types.GitHubToken(token), githubinfra.WithBaseURL(srv.URL))
	gt.NoError(t, err)
	return client
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := githubinfra.NewClient("")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagMissingCredential))
}

func TestClient_ListReleases_Pagination(t *testing.T) {
	srv := githubtest.New(t, testToken)
	srv.AddRepo(testRepo.String())
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 150; i++ {
		srv.AddRelease(testRepo.String(), fmt.Sprintf("1.0.%d", i), "r", base.Add(time.Duration(i)*time.Hour))
	}

	client := newClient(t, srv, testToken)
	releases, err := client.ListReleases(context.Background(), testRepo)
	gt.NoError(t, err)
	gt.A(t, releases).Length(150)
	gt.True(t, releases[149].CreatedAt.Equal(base.Add(149*time.Hour)))
}

func TestClient_ListReleases_RepoNotFound(t *testing.T) {
	srv := githubtest.New(t, testToken)

	client := newClient(t, srv, testToken)
	_, err := client.ListReleases(context.Background(), testRepo)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagRepoNotFound))
}

func TestClient_ListReleases_BadCredentials(t *testing.T) {
	srv := githubtest.New(t, testToken)
	srv.AddRepo(testRepo.String())

	client := newClient(t, srv, "wrong-token")
	_, err := client.ListReleases(context.Background(), testRepo)
	gt.Error(t, err)
	gt.False(t, goerr.HasTag(err, types.ErrTagRepoNotFound))
}

func TestClient_CreateUploadDownload(t *testing.T) {
	srv := githubtest.New(t, testToken)
	srv.AddRepo(testRepo.String())
	ctx := context.Background()
	client := newClient(t, srv, testToken)

	release, err := client.CreateRelease(ctx, testRepo, &model.NewRelease{
		TagName:    "1.2.3",
		Name:       "1.2.3",
		Body:       "notes",
		Draft:      true,
		Prerelease: false,
	})
	gt.NoError(t, err)
	gt.Equal(t, release.TagName, "1.2.3")
	gt.Equal(t, release.Body, "notes")
	gt.True(t, release.Draft)
	gt.False(t, release.Prerelease)
	gt.Number(t, release.ID).Greater(int64(0))

	path := filepath.Join(t.TempDir(), "a.bin")
	gt.NoError(t, os.WriteFile(path, []byte("hello asset"), 0644))
	f, err := os.Open(path)
	gt.NoError(t, err)
	defer f.Close()

	asset, err := client.UploadAsset(ctx, testRepo, release.ID, "a.bin", f)
	gt.NoError(t, err)
	gt.Equal(t, asset.Name, "a.bin")
	gt.A(t, srv.Uploaded).Length(1)

	rc, err := client.DownloadAsset(ctx, asset)
	gt.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "hello asset")

	gt.A(t, srv.BasicAuthUsers).Length(1)
	gt.Equal(t, srv.BasicAuthUsers[0], "x-access-token")
}

// recordingTransport answers every request with a created asset and keeps the URLs
type recordingTransport struct {
	urls []string
}

func (x *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	x.urls = append(x.urls, req.URL.String())
	return &http.Response{
		StatusCode: http.StatusCreated,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"id":1,"name":"a.bin"}`)),
		Request:    req,
	}, nil
}

func TestClient_UploadAsset_Endpoint(t *testing.T) {
	tests := []struct {
		name string
		opts []githubinfra.Option
		want string
	}{
		{
			name: "github.com",
			want: "https://uploads.github.com/repos/o/r/releases/1/assets?name=a.bin",
		},
		{
			name: "enterprise server derives uploads path",
			opts: []githubinfra.Option{githubinfra.WithBaseURL("https://ghe.example.com/api/v3")},
			want: "https://ghe.example.com/api/uploads/repos/o/r/releases/1/assets?name=a.bin",
		},
		{
			name: "explicit upload URL",
			opts: []githubinfra.Option{
				githubinfra.WithBaseURL("https://ghe.example.com/api/v3/"),
				githubinfra.WithUploadURL("https://uploads.ghe.example.com"),
			},
			want: "https://uploads.ghe.example.com/repos/o/r/releases/1/assets?name=a.bin",
		},
		{
			name: "plain base URL uploads to itself",
			opts: []githubinfra.Option{githubinfra.WithBaseURL("http://127.0.0.1:8080")},
			want: "http://127.0.0.1:8080/repos/o/r/releases/1/assets?name=a.bin",
		},
	}

	path := filepath.Join(t.TempDir(), "a.bin")
	gt.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &recordingTransport{}
			opts := append([]githubinfra.Option{githubinfra.WithHTTPClient(&http.Client{Transport: transport})}, tt.opts...)
			client, err := githubinfra.NewClient(testToken, opts...)
			gt.NoError(t, err)

			f, err := os.Open(path)
			gt.NoError(t, err)
			defer f.Close()

			_, err = client.UploadAsset(context.Background(), types.RepoRef{Owner: "o", Name: "r"}, 1, "a.bin", f)
			gt.NoError(t, err)
			gt.A(t, transport.urls).Length(1)
			gt.Equal(t, transport.urls[0], tt.want)
		})
	}
}

func TestClient_DownloadAsset_NotFound(t *testing.T) {
	srv := githubtest.New(t, testToken)
	client := newClient(t, srv, testToken)

	_, err := client.DownloadAsset(context.Background(), &model.Asset{
		Name: "missing.bin",
		URL:  srv.URL + "/repos/myorg/myrepo/releases/assets/1",
	})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("unexpected status code")
}

func TestClient_WithRealAPI(t *testing.T) {
	token := os.Getenv("TEST_GITHUB_TOKEN")
	repoName := os.Getenv("TEST_GITHUB_REPO")
	if token == "" || repoName == "" {
		t.Skip("TEST_GITHUB_TOKEN and TEST_GITHUB_REPO are not set")
	}

	repo, err := types.ParseRepoRef(repoName)
	gt.NoError(t, err)

	client, err := githubinfra.NewClient(types.GitHubToken(token))
	gt.NoError(t, err)

	releases, err := client.ListReleases(context.Background(), repo)
	gt.NoError(t, err)
	t.Logf("found %d releases in %s", len(releases), repo)
}
