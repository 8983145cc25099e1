package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ghrelease/pkg/cli/config"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	githubinfra "github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/usecase"
	"github.com/m-mizutani/ghrelease/pkg/utils/progress"
)

func cmdCreate(env *environment) *cli.Command {
	return newUploadCommand(env, true, "create", []string{"release-create"},
		"Find or create the release for a tag and upload missing assets")
}

// cmdUpload is the legacy minimal variant of create: it always creates drafts
func cmdUpload(env *environment) *cli.Command {
	return newUploadCommand(env, false, "upload", []string{"release-upload"},
		"Find or create a draft release for a tag and upload missing assets")
}

func newUploadCommand(env *environment, full bool, name string, aliases []string, usageText string) *cli.Command {
	var (
		githubCfg  config.GitHub
		releaseCfg = config.Release{Full: full}
	)

	flags := append(releaseCfg.Flags(), githubCfg.Flags()...)

	return &cli.Command{
		Name:      name,
		Aliases:   aliases,
		Usage:     usageText,
		ArgsUsage: "<repo_name> <branch> <asset_path>",
		Description: "repo_name is owner/repo, branch is the tag of the release and asset_path is a\n" +
			"  file or a directory whose files are uploaded. Tags that are not semver are skipped.",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return env.fail(c, runUpload(ctx, c, env, &githubCfg, &releaseCfg))
		},
	}
}

func runUpload(ctx context.Context, c *cli.Command, env *environment, githubCfg *config.GitHub, releaseCfg *config.Release) error {
	logger := ctxlog.From(ctx)

	args, err := requireArgs(c, "repo_name", "branch", "asset_path")
	if err != nil {
		return err
	}
	repoName, tag, assetPath := args[0], args[1], args[2]

	if err := githubCfg.Validate(); err != nil {
		return err
	}

	repo, err := types.ParseRepoRef(repoName)
	if err != nil {
		return err
	}

	files, err := usecase.ExpandAssetPath(assetPath)
	if err != nil {
		return err
	}

	logger.Debug("Starting upload",
		"repo", repo.String(),
		"tag", tag,
		"asset_path", assetPath,
		"file_count", len(files),
		"github", *githubCfg,
	)

	uc, err := newReleaseUseCase(env, githubCfg)
	if err != nil {
		return err
	}

	resolved, err := uc.ResolveRelease(ctx, repo, tag, releaseCfg.Options())
	if err != nil {
		return err
	}
	if resolved.Skipped {
		_, _ = fmt.Fprintf(env.stdout, "Skipping github release from branch %s.\n", tag)
		return nil
	}
	if resolved.Created {
		_, _ = infoColor.Fprintf(env.stdout, "Created release %s\n", resolved.Release.TagName)
	}

	result, err := uc.UploadMissing(ctx, repo, resolved.Release, files)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.stdout, "Uploaded %d file(s), skipped %d already uploaded\n",
		len(result.Uploaded), len(result.Duplicated))
	return nil
}

func newReleaseUseCase(env *environment, githubCfg *config.GitHub) (interfaces.ReleaseUseCase, error) {
	var opts []githubinfra.Option
	if githubCfg.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(githubCfg.APIURL))
	}
	if githubCfg.UploadURL != "" {
		opts = append(opts, githubinfra.WithUploadURL(githubCfg.UploadURL))
	}

	client, err := githubinfra.NewClient(githubCfg.GitHubToken(), opts...)
	if err != nil {
		return nil, err
	}

	return usecase.NewRelease(client,
		usecase.WithStdout(env.stdout),
		usecase.WithStderr(env.stderr),
		usecase.WithProgress(progress.New(env.stderr)),
	), nil
}
