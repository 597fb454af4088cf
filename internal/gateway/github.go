// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Fetcher defines the behavior of a gateway for fetching organization activity from GitHub.
type Fetcher interface {
	FetchRepos(ctx context.Context, org string) ([]domain.Repo, error)
	FetchMembers(ctx context.Context, org string) ([]domain.User, error)
	FetchCommits(ctx context.Context, org, repo string, window domain.Window) ([]domain.Commit, error)
	FetchPullRequests(ctx context.Context, org, repo string, window domain.Window) ([]domain.PullRequest, error)
	FetchQuota(ctx context.Context) (*Quota, error)
}

// Querier executes one GraphQL request. *githubv4.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
}

// Delays are the fixed pauses observed between two page requests.
type Delays struct {
	// Page applies to flat collections and to nested overflow connections.
	Page time.Duration
	// PullRequestPage applies between two pages of the pull request listing.
	PullRequestPage time.Duration
}

// DefaultDelays keeps a run comfortably below GitHub's secondary rate limits.
var DefaultDelays = Delays{
	Page:            1 * time.Second,
	PullRequestPage: 3 * time.Second,
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient Querier
	logger        *logrus.Logger
	delays        Delays
	sleep         Sleeper
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, delays Delays, logger *logrus.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		delays:        delays,
		sleep:         sleepContext,
	}, nil
}

func (g *GitHubGateway) log(fields logrus.Fields) *logrus.Entry {
	return g.logger.WithFields(fields)
}
