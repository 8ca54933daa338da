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

package apierror

import "fmt"

// RetryableError annotates an error with the retry attempt that produced
// it, preserving the original error for errors.Is/As inspection.
type RetryableError struct {
	err     error
	Attempt int
	Max     int
}

// WithRetryInfo wraps err with the attempt counters of the retry loop
// that observed it.
func WithRetryInfo(err error, attempt, max int) error {
	if err == nil {
		return nil
	}
	return &RetryableError{err: err, Attempt: attempt, Max: max}
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%v (attempt %d/%d)", e.err, e.Attempt, e.Max)
}

func (e *RetryableError) Unwrap() error { return e.err }

// UserActionError annotates an error with a suggested remedy shown to the
// user once all recovery inside the transport has been exhausted.
type UserActionError struct {
	err    error
	Action string
}

// WithUserAction wraps err with an actionable message for the user.
func WithUserAction(err error, action string) error {
	if err == nil {
		return nil
	}
	return &UserActionError{err: err, Action: action}
}

func (e *UserActionError) Error() string {
	return fmt.Sprintf("%v. %s", e.err, e.Action)
}

func (e *UserActionError) Unwrap() error { return e.err }
