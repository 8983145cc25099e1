package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token     string `masq:"secret"`
	APIURL    string
	UploadURL string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL, for GitHub Enterprise Server",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub release asset upload URL. Derived from the API URL when omitted",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("GITHUB_UPLOAD_URL"),
		},
	}
}

// GitHubToken returns the configured token
func (c *GitHub) GitHubToken() types.GitHubToken {
	return types.GitHubToken(c.Token)
}

// Validate checks that a token has been given
func (c *GitHub) Validate() error {
	if c.Token == "" {
		return goerr.New("Missing GITHUB_TOKEN environment variable", goerr.T(types.ErrTagMissingCredential))
	}
	return nil
}
