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

// Package apierror classifies errors returned by the GitHub API and the
// network stack beneath it. The Inspector interface answers the questions
// the retry and error-mapping layers ask (is this auth? rate limit?
// transient network trouble? a validation rejection?) without those layers
// knowing how the classification works.
//
// Two implementations exist: a string matcher over the well-known message
// patterns, and a chain inspector that first probes the error chain for
// typed errors exposing their own classification methods before falling
// back to string matching.
package apierror
