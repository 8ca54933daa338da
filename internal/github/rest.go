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

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/shurcooL/graphql"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/relkithq/relkit/internal/apierror"
	"github.com/relkithq/relkit/internal/config"
	relerrors "github.com/relkithq/relkit/internal/errors"
)

// RESTClient implements the GitHub Client interface against the REST API
// and is the entry point of the fluent builder chain (see Repo). It owns
// the transport stack: authentication, User-Agent, response size limiting,
// rate limit handling and transient-failure retries all live in the
// http.RoundTripper chain, invisible to the builders above it.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	gql        *graphql.Client
	inspector  apierror.Inspector
}

// NewRESTClient creates a client authenticated with token. apiEndpoint and
// graphqlEndpoint allow pointing at GitHub Enterprise; pass the public
// defaults from config otherwise. Rate limit responses surface as errors;
// use NewRESTClientWithConfig to wait them out instead.
func NewRESTClient(token, apiEndpoint, graphqlEndpoint string) *RESTClient {
	return newRESTClient(token, apiEndpoint, graphqlEndpoint, nil, nil)
}

// NewRESTClientWithConfig creates a client whose transport additionally
// honors the rate limit configuration: with auto-wait enabled it blocks
// until the limit resets instead of failing, saving resume state through
// saver (may be nil) before each wait.
func NewRESTClientWithConfig(token, apiEndpoint, graphqlEndpoint string, rateCfg *config.RateLimitConfig, saver StateSaver) *RESTClient {
	return newRESTClient(token, apiEndpoint, graphqlEndpoint, rateCfg, saver)
}

func newRESTClient(token, apiEndpoint, graphqlEndpoint string, rateCfg *config.RateLimitConfig, saver StateSaver) *RESTClient {
	base := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	var rt http.RoundTripper = &authTransport{token: token, base: base}
	if rateCfg != nil {
		rt = newRateLimitTransport(rt, rateCfg, saver)
	}
	rt = newRetryTransport(rt)

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gqlHTTP := oauth2.NewClient(context.Background(), src)

	return &RESTClient{
		httpClient: &http.Client{Transport: rt},
		baseURL:    strings.TrimRight(apiEndpoint, "/"),
		gql:        graphql.NewClient(graphqlEndpoint, gqlHTTP),
		inspector:  apierror.NewErrorChainInspector(apierror.NewInspector()),
	}
}

// FetchReleases fetches a page of releases from the specified repository.
// Page sizes are clamped to GitHub's per_page limit of 100. The returned
// ReleasePage carries the pagination metadata needed to request the
// following page through a fresh call with opts.Page advanced.
func (c *RESTClient) FetchReleases(ctx context.Context, owner, repo string, opts FetchOptions) (*ReleasePage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	builder := c.Repo(owner, repo).Releases().List().PerPage(uint8(pageSize))
	if opts.Page > 0 {
		builder = builder.Page(uint32(opts.Page))
	}

	page, err := builder.Send(ctx)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	return page, nil
}

// GetLatestRelease fetches the repository's latest published release.
func (c *RESTClient) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	release, err := c.Repo(owner, repo).Releases().Latest(ctx)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	return release, nil
}

// GetReleaseByTag fetches the published release for the given tag.
func (c *RESTClient) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	release, err := c.Repo(owner, repo).Releases().ByTag(ctx, tag)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	return release, nil
}

// CreateRelease creates a release from input.TagName, forwarding only the
// fields the caller actually provided so the API's defaults apply to the
// rest.
func (c *RESTClient) CreateRelease(ctx context.Context, owner, repo string, input CreateReleaseInput) (*Release, error) {
	builder := c.Repo(owner, repo).Releases().Create(input.TagName)
	if input.TargetCommitish != "" {
		builder = builder.TargetCommitish(input.TargetCommitish)
	}
	if input.Name != "" {
		builder = builder.Name(input.Name)
	}
	if input.Body != "" {
		builder = builder.Body(input.Body)
	}
	if input.Draft != nil {
		builder = builder.Draft(*input.Draft)
	}
	if input.Prerelease != nil {
		builder = builder.Prerelease(*input.Prerelease)
	}

	release, err := builder.Send(ctx)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	return release, nil
}

// get executes a GET request against path with optional query parameters,
// decoding the response into result. The *http.Response is returned for
// access to pagination headers; its body has already been consumed.
func (c *RESTClient) get(ctx context.Context, path string, params url.Values, result any) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil, result)
}

// post executes a POST request against path with a JSON-encoded body,
// decoding the response into result.
func (c *RESTClient) post(ctx context.Context, path string, body, result any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

// do is the single request/response exchange behind every operation.
// Non-2xx responses become a typed *ErrorResponse; result is only decoded
// into when non-nil.
func (c *RESTClient) do(ctx context.Context, method, path string, params url.Values, body, result any) (*http.Response, error) {
	if path == "" || path[0] != '/' {
		return nil, errors.Errorf("malformed REST endpoint %q", path)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body to JSON")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logrus.WithFields(logrus.Fields{"method": method, "path": path})
	log.Debug("executing GitHub API request...")
	startTime := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("GitHub API request failed")
		return nil, errors.Wrap(err, "failed to make API request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, errors.Wrap(err, "failed to read response body")
	}
	log.WithFields(logrus.Fields{
		"elapsed": time.Since(startTime),
		"status":  resp.StatusCode,
	}).Debug("GitHub API request completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &ErrorResponse{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Path:       path,
		}
		var errBody apiErrorBody
		if json.Unmarshal(respBody, &errBody) == nil {
			apiErr.Message = errBody.Message
			apiErr.DocsURL = errBody.DocsURL
		}
		return resp, apiErr
	}

	if result == nil {
		return resp, nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return resp, errors.Wrap(err, "failed to unmarshal response body")
	}
	return resp, nil
}

// mapError maps API errors to our domain errors with actionable messages.
// Local validation failures pass through untouched.
func (c *RESTClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, relerrors.ErrValidation) {
		return err
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", relerrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", relerrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, relerrors.ErrRepoNotFound)
	}

	if c.inspector.IsValidationError(err) {
		return fmt.Errorf("GitHub rejected the request as invalid: %v: %w", err, relerrors.ErrValidation)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", relerrors.ErrNetworkFailure)
	}

	return err
}

// Ptr returns a pointer to the argument. Optional input fields are
// expressed as pointers to distinguish unset from zero; since Go disallows
// pointers to literals, this makes setting them less painful, e.g.
// CreateReleaseInput{Draft: github.Ptr(true)}.
func Ptr[T any](v T) *T {
	return &v
}
