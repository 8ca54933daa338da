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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/relkithq/relkit/internal/apierror"
	"github.com/relkithq/relkit/internal/config"
	relerrors "github.com/relkithq/relkit/internal/errors"
	"github.com/relkithq/relkit/internal/ratelimit"
	"github.com/relkithq/relkit/pkg/version"
)

// maxResponseSize caps how much of any API response is read (10MB).
// A release listing at per_page=100 stays far below this.
const maxResponseSize = 10 * 1024 * 1024

// StateSaver provides an interface for saving state during rate limit waits.
type StateSaver interface {
	Save() error
}

// authTransport adds the authentication header, User-Agent and response
// size limit to every request.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("relkit/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive
// memory usage on unexpectedly large responses.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// rateLimitTransport adds rate limit detection and handling to HTTP
// requests. It wraps the auth transport and checks responses for rate
// limit headers.
type rateLimitTransport struct {
	base       http.RoundTripper
	detector   *ratelimit.Detector
	waiter     *ratelimit.Waiter
	config     *config.RateLimitConfig
	stateSaver StateSaver
}

// newRateLimitTransport creates a new transport with rate limit handling.
func newRateLimitTransport(base http.RoundTripper, cfg *config.RateLimitConfig, stateSaver StateSaver) http.RoundTripper {
	return &rateLimitTransport{
		base:       base,
		detector:   ratelimit.NewDetector(),
		waiter:     ratelimit.NewWaiter(cfg.ShowProgress),
		config:     cfg,
		stateSaver: stateSaver,
	}
}

// RoundTrip implements http.RoundTripper with rate limit handling.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if t.detector.IsRateLimited(resp) {
		info := t.detector.Detect(resp)

		if !t.config.AutoWait {
			return resp, fmt.Errorf("rate limit exceeded, reset at %s: %w",
				info.Reset.Format("3:04 PM"), relerrors.ErrRateLimit)
		}

		// Save state before waiting - best effort
		if t.stateSaver != nil {
			_ = t.stateSaver.Save()
		}

		resp.Body.Close()
		ctx := req.Context()
		if err := t.waiter.Wait(ctx, info); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}

		// Retry the request after waiting
		return t.RoundTrip(req)
	}

	return resp, nil
}

// retryTransport adds exponential backoff retry logic for transient
// failures.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
}

// newRetryTransport creates a new transport with retry logic.
func newRetryTransport(base http.RoundTripper) http.RoundTripper {
	return &retryTransport{
		base:       base,
		maxRetries: 5,
	}
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	backoff := time.Second
	inspector := apierror.NewInspector()

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		// Clone request for each attempt
		clonedReq := req.Clone(req.Context())

		resp, err := t.base.RoundTrip(clonedReq)

		// Success - return immediately
		if err == nil && !isRetryableStatusCode(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			if !inspector.IsNetworkError(err) {
				return nil, err
			}
			lastErr = apierror.WithRetryInfo(err, attempt+1, t.maxRetries)
		} else {
			lastErr = apierror.WithRetryInfo(
				fmt.Errorf("received status %d", resp.StatusCode),
				attempt+1, t.maxRetries)
			resp.Body.Close()
		}

		// Don't retry on the last attempt
		if attempt < t.maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	return nil, apierror.WithUserAction(lastErr,
		"Network connection failed. Please check your internet connection and try again")
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
