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

// createCmd represents the create command
func newCreateCommand() *cobra.Command {
	var (
		token      string
		configFile string
		target     string
		name       string
		notes      string
		draft      bool
		prerelease bool
	)

	cmd := &cobra.Command{
		Use:   "create <org>/<repo> <tag>",
		Short: "Create a release for an existing tag",
		Long: `Create a GitHub release for the given tag and print the created release
as JSON.

The tag name is required. All other release attributes are optional; fields
not provided are left to the API's defaults (for example, releases are
published and non-prerelease unless --draft or --prerelease is given).

If the tag does not exist yet, GitHub creates it from the commit given by
--target (defaults to the repository's default branch).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			input := github.CreateReleaseInput{
				TagName:         args[1],
				TargetCommitish: target,
				Name:            name,
				Body:            notes,
			}
			// Only forward the flags the user actually set, so the API's own
			// defaults apply otherwise
			if cmd.Flags().Changed("draft") {
				input.Draft = github.Ptr(draft)
			}
			if cmd.Flags().Changed("prerelease") {
				input.Prerelease = github.Ptr(prerelease)
			}

			return runCreate(ctx, args[0], token, configFile, input)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&configFile, "config", "", "Config file path (default: .relkit.yaml or ~/.relkit/config.yaml)")
	cmd.Flags().StringVar(&target, "target", "", "Commitish the tag is created from if it does not exist")
	cmd.Flags().StringVar(&name, "name", "", "Release title (defaults to the tag name)")
	cmd.Flags().StringVar(&notes, "notes", "", "Release notes body (markdown)")
	cmd.Flags().BoolVar(&draft, "draft", false, "Create the release as an unpublished draft")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Mark the release as a prerelease")

	return cmd
}

// runCreate executes the create command
func runCreate(ctx context.Context, repoArg, tokenFlag, configFile string, input github.CreateReleaseInput) error {
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

	release, err := client.CreateRelease(ctx, owner, repo, input)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(release); err != nil {
		return fmt.Errorf("failed to write release: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created release %s: %s\n", release.TagName, release.HTMLURL)
	return nil
}
