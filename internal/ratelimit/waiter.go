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

package ratelimit

import (
	"context"
	"fmt"
	"os"
	"time"
)

// fallbackWait is used when a rate limited response carried no usable
// reset information.
const fallbackWait = time.Minute

// Waiter blocks until a rate limit window resets, optionally reporting
// the remaining wait to stderr.
type Waiter struct {
	showProgress bool
}

// NewWaiter creates a new Waiter.
func NewWaiter(showProgress bool) *Waiter {
	return &Waiter{showProgress: showProgress}
}

// Wait sleeps until the window described by info has reset or the context
// is canceled. It returns the context error on cancellation.
func (w *Waiter) Wait(ctx context.Context, info *Info) error {
	wait := info.WaitDuration(time.Now())
	if wait <= 0 {
		wait = fallbackWait
	}

	if w.showProgress {
		fmt.Fprintf(os.Stderr, "Rate limit exceeded. Waiting %s until reset...\n", wait.Round(time.Second))
	}

	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if w.showProgress {
				fmt.Fprintf(os.Stderr, "Rate limit reset. Resuming...\n")
			}
			return nil
		case <-ticker.C:
			if w.showProgress {
				remaining := time.Until(deadline).Round(time.Second)
				if remaining > 0 {
					fmt.Fprintf(os.Stderr, "Still rate limited. %s remaining...\n", remaining)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
