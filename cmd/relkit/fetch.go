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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/relkithq/relkit/internal/config"
	relerrors "github.com/relkithq/relkit/internal/errors"
	"github.com/relkithq/relkit/internal/github"
	"github.com/relkithq/relkit/internal/metadata"
	"github.com/relkithq/relkit/internal/output"
	"github.com/relkithq/relkit/internal/state"
	"github.com/relkithq/relkit/pkg/version"
)

// fetchFlags holds the flag values for the fetch command.
type fetchFlags struct {
	token       string
	outputFile  string
	configFile  string
	fetchAll    bool
	incremental bool
	pageSize    int
}

// fetchCmd represents the fetch command
func newFetchCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch <org>/<repo>",
		Short: "Fetch release data from a GitHub repository",
		Long: `Fetch release data from a GitHub repository and output in NDJSON format.

The repository must be specified in the format: <org>/<repo>
For example: golang/go, kubernetes/kubernetes

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create context with timeout
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
			defer cancel()

			return runFetch(ctx, args[0], flags)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&flags.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&flags.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flags.configFile, "config", "", "Config file path (default: .relkit.yaml or ~/.relkit/config.yaml)")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Releases per API page, max 100 (default from config)")

	// Pagination flags
	cmd.Flags().BoolVar(&flags.fetchAll, "all", false, "Fetch all releases from the repository")
	cmd.Flags().BoolVar(&flags.incremental, "incremental", false, "Fetch only releases published since the last recorded fetch")

	return cmd
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, repoArg string, flags fetchFlags) error {
	// Parse repository argument
	owner, repo, err := parseRepository(repoArg)
	if err != nil {
		return err
	}

	// Load configuration with repository-specific overrides
	cfg, err := config.LoadConfigForRepo(flags.configFile, repoArg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pageSize := flags.pageSize
	if pageSize <= 0 {
		pageSize = cfg.GetPageSize(repoArg)
	}

	// Get GitHub token
	token := getToken(flags.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w", cfg.GitHub.TokenEnv, relerrors.ErrInvalidToken)
	}

	// For incremental fetches, load the previous state before touching the network
	stateFile := stateFilePath(cfg, repoArg)
	var prevState *state.FetchState
	if flags.incremental {
		prevState, err = state.LoadState(stateFile)
		if err != nil {
			return err
		}
	}

	// Create output writer
	var writer output.OutputWriter
	if flags.outputFile == "" {
		// Write to stdout
		writer = output.NewWriter(os.Stdout)
	} else {
		// Write to file
		fileWriter, fErr := output.NewFileWriter(flags.outputFile)
		if fErr != nil {
			return fmt.Errorf("failed to create output file: %w", fErr)
		}
		writer = fileWriter
	}
	defer writer.Close()

	// The resume state doubles as the rate limit save point: if the client
	// has to wait out a rate limit window, progress so far is persisted first.
	resume := &state.FetchState{Repository: repoArg}
	saver := &resumeSaver{state: resume, file: stateFile}

	// Create GitHub client
	client := github.NewRESTClientWithConfig(token, cfg.GitHub.APIEndpoint, cfg.GitHub.GraphQLEndpoint, &cfg.RateLimit, saver)

	tracker := metadata.New()

	switch {
	case flags.fetchAll:
		err = fetchAllReleases(ctx, client, owner, repo, pageSize, writer, tracker, resume)
	case flags.incremental:
		err = fetchSince(ctx, client, owner, repo, pageSize, prevState.LastPublishedAt, writer, tracker, resume)
	default:
		err = fetchFirstPage(ctx, client, owner, repo, pageSize, writer, tracker, resume)
	}
	if err != nil {
		return err
	}

	return recordFetch(owner, repo, flags, pageSize, prevState, tracker, resume, stateFile)
}

// recordFetch persists the fetch state and audit metadata after a
// successful run.
func recordFetch(owner, repo string, flags fetchFlags, pageSize int, prevState *state.FetchState, tracker *metadata.Tracker, resume *state.FetchState, stateFile string) error {
	var since *time.Time
	var prevRef *metadata.FetchRef
	if prevState != nil {
		since = &prevState.LastPublishedAt
		if prevState.LastFetchID != "" {
			prevRef = &metadata.FetchRef{
				FetchID:     prevState.LastFetchID,
				CompletedAt: prevState.LastFetchTime,
			}
		}
	}

	meta := tracker.GenerateMetadata(version.Version, metadata.FetchParams{
		Organization: owner,
		Repository:   repo,
		Since:        since,
		FetchAll:     flags.fetchAll,
		PageSize:     pageSize,
	}, flags.incremental, prevRef)

	resume.LastFetchID = meta.FetchID
	resume.LastFetchTime = meta.Results.CompletedAt
	resume.TotalFetched = meta.Results.TotalReleases
	resume.NextPage = 0

	// Incremental runs that found nothing keep the previous high-water mark
	if prevState != nil && resume.LastReleaseID == 0 {
		resume.LastReleaseID = prevState.LastReleaseID
		resume.LastReleaseTag = prevState.LastReleaseTag
		resume.LastPublishedAt = prevState.LastPublishedAt
	}

	if err := state.SaveState(resume, stateFile); err != nil {
		return fmt.Errorf("failed to save fetch state: %w", err)
	}
	if err := metadata.SaveMetadata(meta, filepath.Dir(stateFile)); err != nil {
		return fmt.Errorf("failed to save fetch metadata: %w", err)
	}
	return nil
}

// resumeSaver persists the in-flight fetch state. The rate limit transport
// calls Save before blocking on a reset so an operator can safely interrupt
// a long wait.
type resumeSaver struct {
	state *state.FetchState
	file  string
}

func (s *resumeSaver) Save() error {
	return state.SaveState(s.state, s.file)
}

// stateFilePath resolves the state file location for a repository,
// preferring the configured state directory.
func stateFilePath(cfg *config.Config, repository string) string {
	if cfg.Defaults.StateDir == "" {
		return state.GetStateFilePath(repository)
	}
	safeRepoName := strings.ReplaceAll(repository, "/", "-")
	return filepath.Join(cfg.Defaults.StateDir, safeRepoName+".state")
}

// parseRepository parses an org/repo string into owner and repo components
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}

// getToken returns the GitHub token from flag or environment variable
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	if tokenEnv == "" {
		tokenEnv = "GITHUB_TOKEN"
	}
	return os.Getenv(tokenEnv)
}

// writeRelease streams one release to the output and folds it into the
// running statistics and resume state.
func writeRelease(rel github.Release, writer output.OutputWriter, tracker *metadata.Tracker, resume *state.FetchState) error {
	if err := writer.Write(rel); err != nil {
		return fmt.Errorf("failed to write release: %w", err)
	}

	var publishedAt time.Time
	if rel.PublishedAt != nil {
		publishedAt = *rel.PublishedAt
	}
	tracker.UpdateReleaseStats(rel.ID, publishedAt, rel.Draft, rel.Prerelease)

	if rel.ID > resume.LastReleaseID {
		resume.LastReleaseID = rel.ID
		resume.LastReleaseTag = rel.TagName
	}
	if publishedAt.After(resume.LastPublishedAt) {
		resume.LastPublishedAt = publishedAt
	}
	return nil
}

// fetchFirstPage fetches only the first page of releases (default behavior)
func fetchFirstPage(ctx context.Context, client github.Client, owner, repo string, pageSize int, writer output.OutputWriter, tracker *metadata.Tracker, resume *state.FetchState) error {
	opts := github.FetchOptions{
		PageSize: pageSize,
	}

	// Show progress
	fmt.Fprintf(os.Stderr, "Fetching releases from %s/%s...", owner, repo)

	page, err := client.FetchReleases(ctx, owner, repo, opts)
	if err != nil {
		// Clear progress line
		fmt.Fprintf(os.Stderr, "\r\033[K")
		return err
	}
	tracker.IncrementAPICall()

	count := 0
	for _, rel := range page.Releases {
		if err := writeRelease(rel, writer, tracker, resume); err != nil {
			return err
		}
		count++

		// Update progress
		fmt.Fprintf(os.Stderr, "\rFetching releases from %s/%s... %d releases fetched", owner, repo, count)
	}

	fmt.Fprintf(os.Stderr, "\r\033[K") // Clear progress line

	if count > 0 {
		fmt.Fprintf(os.Stderr, "Successfully fetched %d releases\n", count)
	} else {
		fmt.Fprintf(os.Stderr, "No releases found in %s/%s\n", owner, repo)
	}

	return nil
}

// fetchAllReleases fetches all releases using page-number pagination
func fetchAllReleases(ctx context.Context, client github.Client, owner, repo string, pageSize int, writer output.OutputWriter, tracker *metadata.Tracker, resume *state.FetchState) error {
	// First, get repository info for total release count
	repoInfo, err := client.GetRepositoryInfo(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("failed to get repository info: %w", err)
	}
	tracker.IncrementAPICall()

	totalReleases := repoInfo.TotalReleases
	if totalReleases == 0 {
		fmt.Fprintf(os.Stderr, "No releases found in %s/%s\n", owner, repo)
		return nil
	}

	// Initialize progress tracking
	var (
		processed = 0
		pageNum   = 1
		startTime = time.Now()
	)

	// Show initial progress
	fmt.Fprintf(os.Stderr, "Fetching all %d releases from %s/%s...\n", totalReleases, owner, repo)

	for {
		opts := github.FetchOptions{
			PageSize: pageSize,
			Page:     pageNum,
		}

		page, err := client.FetchReleases(ctx, owner, repo, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r\033[K") // Clear progress line
			return err
		}
		tracker.IncrementAPICall()

		// Stream releases immediately
		for _, rel := range page.Releases {
			if err := writeRelease(rel, writer, tracker, resume); err != nil {
				return err
			}
			processed++

			// Update progress with ETA
			updateProgress(processed, totalReleases, pageNum, startTime)
		}

		if !page.HasNextPage() {
			break
		}
		pageNum = page.NextPage
		resume.NextPage = page.NextPage
	}

	// Final message
	fmt.Fprintf(os.Stderr, "\r\033[K") // Clear progress line
	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "Successfully fetched all %d releases in %s\n", processed, elapsed.Round(time.Second))

	return nil
}

// fetchSince fetches releases published after the given cutoff. The releases
// listing is ordered newest-first, so pagination stops at the first release
// at or before the cutoff.
func fetchSince(ctx context.Context, client github.Client, owner, repo string, pageSize int, since time.Time, writer output.OutputWriter, tracker *metadata.Tracker, resume *state.FetchState) error {
	var (
		processed = 0
		pageNum   = 1
	)

	fmt.Fprintf(os.Stderr, "Fetching releases from %s/%s published after %s...\n",
		owner, repo, since.Format(time.RFC3339))

	for {
		opts := github.FetchOptions{
			PageSize: pageSize,
			Page:     pageNum,
		}

		page, err := client.FetchReleases(ctx, owner, repo, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r\033[K")
			return err
		}
		tracker.IncrementAPICall()

		for _, rel := range page.Releases {
			// Drafts carry no publish date and sort first; skip them so an
			// unpublished draft does not end the incremental scan early
			if rel.PublishedAt == nil {
				continue
			}
			if !rel.PublishedAt.After(since) {
				fmt.Fprintf(os.Stderr, "\r\033[K")
				fmt.Fprintf(os.Stderr, "Fetched %d new releases\n", processed)
				return nil
			}
			if err := writeRelease(rel, writer, tracker, resume); err != nil {
				return err
			}
			processed++
			fmt.Fprintf(os.Stderr, "\rFetched %d new releases...", processed)
		}

		if !page.HasNextPage() {
			break
		}
		pageNum = page.NextPage
		resume.NextPage = page.NextPage
	}

	fmt.Fprintf(os.Stderr, "\r\033[K")
	fmt.Fprintf(os.Stderr, "Fetched %d new releases\n", processed)
	return nil
}

// updateProgress displays progress with percentage and ETA
func updateProgress(current, total, pageNum int, startTime time.Time) {
	if total == 0 {
		return
	}

	percent := float64(current) * 100 / float64(total)
	elapsed := time.Since(startTime)

	// Calculate ETA
	var eta string
	if current > 0 {
		totalTime := elapsed.Seconds() * float64(total) / float64(current)
		remaining := time.Duration(totalTime-elapsed.Seconds()) * time.Second

		if remaining > 0 {
			eta = fmt.Sprintf(" | ETA: %s", remaining.Round(time.Second))
		}
	}

	fmt.Fprintf(os.Stderr, "\rProgress: %d / %d releases [%.1f%%] | Page %d%s",
		current, total, percent, pageNum, eta)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Check for specific error types
	if errors.Is(err, relerrors.ErrInvalidToken) ||
		errors.Is(err, relerrors.ErrRepoNotFound) ||
		errors.Is(err, relerrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
