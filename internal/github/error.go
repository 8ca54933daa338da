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
	"net/http"
	"strings"
)

// ErrorResponse is the typed failure returned for any non-2xx API response.
// It carries the status and the message body GitHub returned, and exposes
// the classification methods the apierror chain inspector probes for, so
// callers can classify failures without string matching.
type ErrorResponse struct {
	StatusCode int
	Status     string
	Message    string
	DocsURL    string
	Path       string
}

// apiErrorBody is the JSON shape of a GitHub error response.
type apiErrorBody struct {
	Message string `json:"message"`
	DocsURL string `json:"documentation_url"`
}

func (e *ErrorResponse) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GitHub API request for %s failed: %s: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("GitHub API request for %s failed: %s", e.Path, e.Status)
}

// IsAuthError reports whether the response indicates an authentication or
// authorization failure. A 403 that is actually a rate limit is excluded.
func (e *ErrorResponse) IsAuthError() bool {
	if e.StatusCode == http.StatusUnauthorized {
		return true
	}
	return e.StatusCode == http.StatusForbidden && !e.IsRateLimitError()
}

// IsNotFoundError reports whether the requested resource does not exist or
// is not visible to the authenticated user.
func (e *ErrorResponse) IsNotFoundError() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimitError reports whether the response is a primary or secondary
// rate limit rejection. GitHub signals the primary limit as a 403 with a
// rate-limit message rather than a 429.
func (e *ErrorResponse) IsRateLimitError() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode == http.StatusForbidden &&
		strings.Contains(strings.ToLower(e.Message), "rate limit")
}

// IsValidationError reports whether the request was rejected as semantically
// invalid (422), e.g. creating a release for an already-released tag.
func (e *ErrorResponse) IsValidationError() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}
