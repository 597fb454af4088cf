package gateway

import (
	"context"
	"fmt"

	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
)

// membersQuery lists the members of an organization.
type membersQuery struct {
	Organization struct {
		MembersWithRole struct {
			Nodes []struct {
				Login string
				Name  string
			}
			PageInfo pageInfo
		} `graphql:"membersWithRole(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

// FetchMembers lists every member of org. A member without a profile name is named by login.
func (g *GitHubGateway) FetchMembers(ctx context.Context, org string) ([]domain.User, error) {
	g.log(logrus.Fields{"org": org}).Debug("Fetching organization members...")
	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[domain.User], error) {
		var q membersQuery
		variables := map[string]interface{}{
			"org":    githubv4.String(org),
			"cursor": cursor,
		}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[domain.User]{}, fmt.Errorf("failed to execute GraphQL query for members: %w", err)
		}
		members := make([]domain.User, 0, len(q.Organization.MembersWithRole.Nodes))
		for _, node := range q.Organization.MembersWithRole.Nodes {
			members = append(members, domain.User{
				Login: node.Login,
				Name:  domain.FirstNonEmpty(node.Login, node.Name),
			})
		}
		return newPage(members, q.Organization.MembersWithRole.PageInfo), nil
	}
	members, err := NewPaginator(fetch, nil, g.delays.Page, g.sleep).Collect(ctx)
	if err != nil {
		return nil, err
	}
	g.log(logrus.Fields{"org": org, "count": len(members)}).Info("Retrieved organization members")
	return members, nil
}
