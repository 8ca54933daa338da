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

	relerrors "github.com/relkithq/relkit/internal/errors"
)

// RepoHandler is a view over a single repository, identified by its owner
// and name. It is the parent scope for all resource handlers: the identity
// is immutable and every handler or builder derived from it holds a
// reference back to the same RepoHandler rather than a copy.
type RepoHandler struct {
	client *RESTClient
	owner  string
	name   string
}

// Repo returns a handler scoped to the given repository. No validation or
// network access happens here; structurally invalid identities (empty owner
// or name) are rejected by the terminal Send of any builder derived from
// this handler, before any request is made.
func (c *RESTClient) Repo(owner, name string) *RepoHandler {
	return &RepoHandler{client: c, owner: owner, name: name}
}

// Owner returns the repository owner this handler is scoped to.
func (h *RepoHandler) Owner() string { return h.owner }

// Name returns the repository name this handler is scoped to.
func (h *RepoHandler) Name() string { return h.name }

// Releases returns a handler for the repository's releases resource.
func (h *RepoHandler) Releases() *ReleasesHandler {
	return &ReleasesHandler{parent: h}
}

// validate rejects structurally invalid repository identities. Called by
// terminal operations before touching the network.
func (h *RepoHandler) validate() error {
	if h.owner == "" || h.name == "" {
		return fmt.Errorf("repository owner and name must be non-empty (got %q/%q): %w",
			h.owner, h.name, relerrors.ErrValidation)
	}
	return nil
}

// releasesPath formats the releases collection path for this repository.
func (h *RepoHandler) releasesPath() string {
	return fmt.Sprintf("/repos/%s/%s/releases", h.owner, h.name)
}
