package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v62/github"
)

// RateBucket is the state of one API rate limit bucket.
type RateBucket struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Quota is the remaining API budget of the token.
type Quota struct {
	Core    RateBucket
	GraphQL RateBucket
}

// FetchQuota reads the token's rate limit status from the REST API.
// The call itself does not count against the quota.
func (g *GitHubGateway) FetchQuota(ctx context.Context) (*Quota, error) {
	limits, _, err := g.restClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate limit with REST API: %w", err)
	}
	return &Quota{
		Core:    bucket(limits.GetCore()),
		GraphQL: bucket(limits.GetGraphQL()),
	}, nil
}

func bucket(rate *github.Rate) RateBucket {
	if rate == nil {
		return RateBucket{}
	}
	return RateBucket{
		Limit:     rate.Limit,
		Remaining: rate.Remaining,
		Reset:     rate.Reset.Time,
	}
}
