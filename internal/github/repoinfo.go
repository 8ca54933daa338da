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
	"context"

	"github.com/shurcooL/graphql"
)

// GetRepositoryInfo retrieves basic repository metadata including the total
// release count. The REST listing gives no totals, so this is the one place
// the client reaches for the GraphQL API: a minimal query for the count,
// used to display progress when fetching all releases.
func (c *RESTClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	var query struct {
		Repository struct {
			Releases struct {
				TotalCount graphql.Int
			} `graphql:"releases"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	return &RepositoryInfo{
		TotalReleases: int(query.Repository.Releases.TotalCount),
	}, nil
}
