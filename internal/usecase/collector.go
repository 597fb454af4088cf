package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/rocketmo/gh-org-stats/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Report is the outcome of one collection run.
type Report struct {
	Org        string
	Window     domain.Window
	StartedAt  time.Time
	FinishedAt time.Time
	Repos      []domain.RepoStats
	Users      []domain.UserStats
	UserRepos  []domain.UserRepoStats
}

// Collector is the use case for collecting organization activity.
// It orchestrates the fetching of data and folds it into an Aggregator.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *logrus.Logger
	now     func() time.Time
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *logrus.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Collect fetches every repository and member of org, then, one repository at a time,
// its commits followed by its pull requests, folding each batch as it arrives.
// Any fetch error aborts the run and no partial report is returned.
func (c *Collector) Collect(ctx context.Context, org string, window domain.Window) (*Report, error) {
	log := c.logger.WithFields(logrus.Fields{"org": org, "window": window.String()})
	log.Info("Usecase: Starting data collection...")
	startedAt := c.now()
	c.logQuota(ctx, log, "before")

	aggregator := NewAggregator()

	repos, err := c.fetcher.FetchRepos(ctx, org)
	if err != nil {
		return nil, err
	}
	aggregator.RecordRepos(repos)

	members, err := c.fetcher.FetchMembers(ctx, org)
	if err != nil {
		return nil, err
	}
	aggregator.RecordUsers(members)

	names := aggregator.RepoNames()
	for i, repo := range names {
		repoLog := log.WithFields(logrus.Fields{"repo": repo, "progress": fmt.Sprintf("%d/%d", i+1, len(names))})

		commits, err := c.fetcher.FetchCommits(ctx, org, repo, window)
		if err != nil {
			return nil, err
		}
		aggregator.RecordCommits(commits)

		pullRequests, err := c.fetcher.FetchPullRequests(ctx, org, repo, window)
		if err != nil {
			return nil, err
		}
		aggregator.RecordPullRequests(pullRequests)

		repoLog.WithFields(logrus.Fields{
			"commits":       len(commits),
			"pull_requests": len(pullRequests),
		}).Info("Processed repository")
	}

	c.logQuota(ctx, log, "after")
	report := &Report{
		Org:        org,
		Window:     window,
		StartedAt:  startedAt,
		FinishedAt: c.now(),
		Repos:      aggregator.RepoView(),
		Users:      aggregator.UserView(),
		UserRepos:  aggregator.UserByRepoView(),
	}
	log.WithField("elapsed", report.FinishedAt.Sub(startedAt).Round(time.Second).String()).
		Info("Usecase: Collection complete.")
	return report, nil
}

// logQuota reports the remaining API budget. Failing to read it never fails the run.
func (c *Collector) logQuota(ctx context.Context, log *logrus.Entry, phase string) {
	quota, err := c.fetcher.FetchQuota(ctx)
	if err != nil {
		log.WithError(err).Warn("Could not read API rate limit")
		return
	}
	log.WithFields(logrus.Fields{
		"phase":             phase,
		"graphql_remaining": quota.GraphQL.Remaining,
		"graphql_limit":     quota.GraphQL.Limit,
		"graphql_reset":     quota.GraphQL.Reset.Format(time.RFC3339),
		"core_remaining":    quota.Core.Remaining,
	}).Info("API rate limit")
}
