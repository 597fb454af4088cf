package gateway

import (
	"context"
	"fmt"

	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
)

type commitNode struct {
	Author *struct {
		Name string
		User *struct {
			Login string
			Name  string
		}
	}
	CommittedDate githubv4.DateTime
	Additions     int
	Deletions     int
	Signature     *struct {
		IsValid bool
	}
}

// commitHistoryQuery walks the history of a repository's default branch.
type commitHistoryQuery struct {
	Repository struct {
		DefaultBranchRef *struct {
			Target struct {
				Commit struct {
					History struct {
						Nodes    []commitNode
						PageInfo pageInfo
					} `graphql:"history(first: 100, since: $since, until: $until, after: $cursor)"`
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchCommits lists the signed commits of the default branch of org/repo.
// The window bounds are applied by the server; commits without a valid signature are dropped.
func (g *GitHubGateway) FetchCommits(ctx context.Context, org, repo string, window domain.Window) ([]domain.Commit, error) {
	fields := logrus.Fields{"org": org, "repo": repo}
	g.log(fields).Debug("Fetching commits...")

	since, until := (*githubv4.GitTimestamp)(nil), (*githubv4.GitTimestamp)(nil)
	if window.HasStart() {
		since = &githubv4.GitTimestamp{Time: window.Start}
	}
	if window.HasEnd() {
		until = &githubv4.GitTimestamp{Time: window.End}
	}

	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[domain.Commit], error) {
		var q commitHistoryQuery
		variables := map[string]interface{}{
			"owner":  githubv4.String(org),
			"name":   githubv4.String(repo),
			"since":  since,
			"until":  until,
			"cursor": cursor,
		}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[domain.Commit]{}, fmt.Errorf("failed to execute GraphQL query for commits of %s/%s: %w", org, repo, err)
		}
		// An empty repository has no default branch.
		if q.Repository.DefaultBranchRef == nil {
			return Page[domain.Commit]{}, nil
		}
		history := q.Repository.DefaultBranchRef.Target.Commit.History
		commits := make([]domain.Commit, 0, len(history.Nodes))
		for _, node := range history.Nodes {
			if commit, ok := toCommit(org, repo, node); ok {
				commits = append(commits, commit)
			}
		}
		return newPage(commits, history.PageInfo), nil
	}

	commits, err := NewPaginator(fetch, nil, g.delays.Page, g.sleep).Collect(ctx)
	if err != nil {
		return nil, err
	}
	g.log(fields).WithField("count", len(commits)).Info("Retrieved commits")
	return commits, nil
}

func toCommit(org, repo string, node commitNode) (domain.Commit, bool) {
	if node.Signature == nil || !node.Signature.IsValid {
		return domain.Commit{}, false
	}
	var login, userName, authorName string
	if node.Author != nil {
		authorName = node.Author.Name
		if node.Author.User != nil {
			login = node.Author.User.Login
			userName = node.Author.User.Name
		}
	}
	author := domain.NewUser(login, userName, authorName)
	return domain.Commit{
		Org:           org,
		Repo:          repo,
		AuthorLogin:   author.Login,
		AuthorName:    author.Name,
		CommittedDate: node.CommittedDate.Time,
		Additions:     node.Additions,
		Deletions:     node.Deletions,
	}, true
}
