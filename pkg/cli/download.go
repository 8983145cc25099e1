package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ghrelease/pkg/cli/config"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

func cmdDownload(env *environment) *cli.Command {
	var (
		githubCfg   config.GitHub
		releaseName string
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "release",
			Usage:       "Name of the release to download from. Default is the latest release.",
			Destination: &releaseName,
		},
	}, githubCfg.Flags()...)

	return &cli.Command{
		Name:        "download",
		Aliases:     []string{"release-download"},
		Usage:       "Download the first asset of a given (or the latest) release",
		ArgsUsage:   "<repo_name> <destination>",
		Description: "repo_name is owner/repo and destination is the file to save the asset as.",
		Flags:       flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return env.fail(c, runDownload(ctx, c, env, &githubCfg, releaseName))
		},
	}
}

func runDownload(ctx context.Context, c *cli.Command, env *environment, githubCfg *config.GitHub, releaseName string) error {
	args, err := requireArgs(c, "repo_name", "destination")
	if err != nil {
		return err
	}
	repoName, dest := args[0], args[1]

	if err := githubCfg.Validate(); err != nil {
		return err
	}

	repo, err := types.ParseRepoRef(repoName)
	if err != nil {
		return err
	}

	uc, err := newReleaseUseCase(env, githubCfg)
	if err != nil {
		return err
	}

	release, err := uc.SelectRelease(ctx, repo, releaseName)
	if err != nil {
		return err
	}

	result, err := uc.DownloadFirstAsset(ctx, release, dest)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.stdout, "Downloaded %s from release %s to %s (%d bytes)\n",
		result.Asset.Name, release.Name, result.Destination, result.Size)
	return nil
}
