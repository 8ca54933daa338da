// Copyright 2025 RelKit Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/relkithq/relkit/internal/config"
	relerrors "github.com/relkithq/relkit/internal/errors"
	"github.com/relkithq/relkit/internal/github"
)

// latestCmd represents the latest command
func newLatestCommand() *cobra.Command {
	var (
		token      string
		configFile string
		tag        string
	)

	cmd := &cobra.Command{
		Use:   "latest <org>/<repo>",
		Short: "Show the latest published release of a repository",
		Long: `Print the repository's latest published release as JSON.

The latest release is the most recent non-draft, non-prerelease release.
Use --tag to look up the release for a specific tag instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return runLatest(ctx, args[0], token, configFile, tag)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&configFile, "config", "", "Config file path (default: .relkit.yaml or ~/.relkit/config.yaml)")
	cmd.Flags().StringVar(&tag, "tag", "", "Look up the release for this tag instead of the latest")

	return cmd
}

// runLatest executes the latest command
func runLatest(ctx context.Context, repoArg, tokenFlag, configFile, tag string) error {
	owner, repo, err := parseRepository(repoArg)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigForRepo(configFile, repoArg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	token := getToken(tokenFlag, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w", cfg.GitHub.TokenEnv, relerrors.ErrInvalidToken)
	}

	client := github.NewRESTClient(token, cfg.GitHub.APIEndpoint, cfg.GitHub.GraphQLEndpoint)

	var release *github.Release
	if tag != "" {
		release, err = client.GetReleaseByTag(ctx, owner, repo, tag)
	} else {
		release, err = client.GetLatestRelease(ctx, owner, repo)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(release); err != nil {
		return fmt.Errorf("failed to write release: %w", err)
	}
	return nil
}
