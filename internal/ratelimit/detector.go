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

// Package ratelimit detects GitHub API rate limit responses and waits for
// the limit window to reset. GitHub signals the primary limit through the
// X-RateLimit-* headers on a 403 and secondary limits through 429 with
// Retry-After.
package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// Info describes a rate limit window as reported by response headers.
type Info struct {
	// Limit is the total request quota for the window.
	Limit int
	// Remaining is the number of requests left in the window.
	Remaining int
	// Reset is when the window rolls over and requests succeed again.
	Reset time.Time
	// RetryAfter is the server-requested wait, if a Retry-After header was
	// present. Takes precedence over Reset when set.
	RetryAfter time.Duration
}

// Detector inspects HTTP responses for rate limiting.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// IsRateLimited reports whether the response is a rate limit rejection:
// a 429, or a 403 with the request quota exhausted.
func (d *Detector) IsRateLimited(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	remaining, ok := headerInt(resp, "X-RateLimit-Remaining")
	return ok && remaining == 0
}

// Detect parses the rate limit headers of a rejected response. Fields
// missing from the response are left at their zero values; a zero Reset
// with no RetryAfter means the caller should apply its own backoff.
func (d *Detector) Detect(resp *http.Response) *Info {
	info := &Info{}
	if resp == nil {
		return info
	}

	if limit, ok := headerInt(resp, "X-RateLimit-Limit"); ok {
		info.Limit = limit
	}
	if remaining, ok := headerInt(resp, "X-RateLimit-Remaining"); ok {
		info.Remaining = remaining
	}
	if reset, ok := headerInt(resp, "X-RateLimit-Reset"); ok {
		info.Reset = time.Unix(int64(reset), 0)
	}
	if after, ok := headerInt(resp, "Retry-After"); ok {
		info.RetryAfter = time.Duration(after) * time.Second
	}

	return info
}

// WaitDuration returns how long to wait before retrying, with a one second
// cushion past the reset to absorb clock skew.
func (i *Info) WaitDuration(now time.Time) time.Duration {
	if i.RetryAfter > 0 {
		return i.RetryAfter
	}
	if i.Reset.IsZero() {
		return 0
	}
	wait := i.Reset.Sub(now) + time.Second
	if wait < 0 {
		return 0
	}
	return wait
}

func headerInt(resp *http.Response, key string) (int, bool) {
	v := resp.Header.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
