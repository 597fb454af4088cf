package gateway

import (
	"context"
	"fmt"

	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
)

// reposQuery lists the repositories of an organization.
type reposQuery struct {
	Organization struct {
		Repositories struct {
			Nodes []struct {
				Name string
			}
			PageInfo pageInfo
		} `graphql:"repositories(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

// FetchRepos lists every repository of org in server order.
func (g *GitHubGateway) FetchRepos(ctx context.Context, org string) ([]domain.Repo, error) {
	g.log(logrus.Fields{"org": org}).Debug("Fetching repositories...")
	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[domain.Repo], error) {
		var q reposQuery
		variables := map[string]interface{}{
			"org":    githubv4.String(org),
			"cursor": cursor,
		}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[domain.Repo]{}, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		repos := make([]domain.Repo, 0, len(q.Organization.Repositories.Nodes))
		for _, node := range q.Organization.Repositories.Nodes {
			repos = append(repos, domain.Repo{Org: org, Name: node.Name})
		}
		return newPage(repos, q.Organization.Repositories.PageInfo), nil
	}
	repos, err := NewPaginator(fetch, nil, g.delays.Page, g.sleep).Collect(ctx)
	if err != nil {
		return nil, err
	}
	g.log(logrus.Fields{"org": org, "count": len(repos)}).Info("Retrieved repositories")
	return repos, nil
}
