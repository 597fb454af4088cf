package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
)

// actor is the author of a pull request, review or comment. Only users carry a login;
// bots, mannequins and deleted accounts resolve to the unknown sentinels.
type actor struct {
	User struct {
		Login string
		Name  string
	} `graphql:"... on User"`
}

func (a *actor) login() string {
	if a == nil {
		return ""
	}
	return a.User.Login
}

func (a *actor) user() domain.User {
	if a == nil {
		return domain.NewUser("")
	}
	return domain.NewUser(a.User.Login, a.User.Name)
}

// authoredNode is the shape shared by reviews and review comments.
type authoredNode struct {
	CreatedAt githubv4.DateTime
	Author    *actor
}

type authoredConnection struct {
	Nodes    []authoredNode
	PageInfo pageInfo
}

type reviewThreadNode struct {
	ID       githubv4.ID
	Comments authoredConnection `graphql:"comments(first: 10)"`
}

type reviewThreadConnection struct {
	Nodes    []reviewThreadNode
	PageInfo pageInfo
}

type pullRequestNode struct {
	ID            githubv4.ID
	Number        int
	Merged        bool
	MergedAt      *githubv4.DateTime
	CreatedAt     githubv4.DateTime
	Author        *actor
	Reviews       authoredConnection     `graphql:"reviews(first: 10)"`
	ReviewThreads reviewThreadConnection `graphql:"reviewThreads(first: 10)"`
}

// pullRequestsQuery lists pull requests newest first so a start date can end the walk early.
type pullRequestsQuery struct {
	Repository struct {
		PullRequests struct {
			Nodes    []pullRequestNode
			PageInfo pageInfo
		} `graphql:"pullRequests(first: 100, after: $cursor, orderBy: {field: CREATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type reviewsQuery struct {
	Node struct {
		PullRequest struct {
			Reviews authoredConnection `graphql:"reviews(first: 100, after: $cursor)"`
		} `graphql:"... on PullRequest"`
	} `graphql:"node(id: $id)"`
}

type reviewThreadsQuery struct {
	Node struct {
		PullRequest struct {
			ReviewThreads reviewThreadConnection `graphql:"reviewThreads(first: 100, after: $cursor)"`
		} `graphql:"... on PullRequest"`
	} `graphql:"node(id: $id)"`
}

type commentsQuery struct {
	Node struct {
		ReviewThread struct {
			Comments authoredConnection `graphql:"comments(first: 100, after: $cursor)"`
		} `graphql:"... on PullRequestReviewThread"`
	} `graphql:"node(id: $id)"`
}

// FetchPullRequests lists the pull requests of org/repo created inside window, with their
// reviewers and review comment counts resolved.
//
// Pull requests arrive newest first: the first one created before window.Start ends the
// walk without requesting older pages, and ones created after window.End are skipped.
// When a start bound is set, a listing that is not newest first fails with
// domain.ErrPullRequestOrder rather than silently dropping older pull requests.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, org, repo string, window domain.Window) ([]domain.PullRequest, error) {
	fields := logrus.Fields{"org": org, "repo": repo}
	g.log(fields).Debug("Fetching pull requests...")

	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[pullRequestNode], error) {
		var q pullRequestsQuery
		variables := map[string]interface{}{
			"owner":  githubv4.String(org),
			"name":   githubv4.String(repo),
			"cursor": cursor,
		}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[pullRequestNode]{}, fmt.Errorf("failed to execute GraphQL query for pull requests of %s/%s: %w", org, repo, err)
		}
		return newPage(q.Repository.PullRequests.Nodes, q.Repository.PullRequests.PageInfo), nil
	}

	var (
		pullRequests []domain.PullRequest
		previous     time.Time
	)
	pager := NewPaginator(fetch, nil, g.delays.PullRequestPage, g.sleep)
pages:
	for nodes, err := range pager.All(ctx) {
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			createdAt := node.CreatedAt.Time
			if window.HasStart() {
				if !previous.IsZero() && createdAt.After(previous) {
					return nil, fmt.Errorf("%s/%s#%d created at %s follows a pull request created at %s: %w",
						org, repo, node.Number, createdAt.Format(time.RFC3339), previous.Format(time.RFC3339), domain.ErrPullRequestOrder)
				}
				previous = createdAt
			}
			if window.BeforeStart(createdAt) {
				g.log(fields).WithField("number", node.Number).Debug("Reached pull requests older than the start date")
				break pages
			}
			if window.AfterEnd(createdAt) {
				continue
			}

			pr, err := g.resolvePullRequest(ctx, org, repo, node, window)
			if err != nil {
				return nil, err
			}
			pullRequests = append(pullRequests, pr)
		}
	}

	g.log(fields).WithField("count", len(pullRequests)).Info("Retrieved pull requests")
	return pullRequests, nil
}

func (g *GitHubGateway) resolvePullRequest(ctx context.Context, org, repo string, node pullRequestNode, window domain.Window) (domain.PullRequest, error) {
	reviewers, err := g.reviewers(ctx, node, window)
	if err != nil {
		return domain.PullRequest{}, err
	}
	commenters, err := g.reviewCommenters(ctx, node, window)
	if err != nil {
		return domain.PullRequest{}, err
	}
	return domain.PullRequest{
		Org:                 org,
		Repo:                repo,
		Number:              node.Number,
		CreatedAt:           node.CreatedAt.Time,
		Author:              node.Author.user(),
		WasMerged:           node.Merged && (node.MergedAt == nil || window.ContainsExclusive(node.MergedAt.Time)),
		ReviewUsers:         reviewers,
		ReviewCommentsCount: commenters,
	}, nil
}

// reviewers returns each reviewer of the pull request once, in order of first review.
// Reviews by the pull request author and reviews outside window are ignored.
func (g *GitHubGateway) reviewers(ctx context.Context, node pullRequestNode, window domain.Window) ([]domain.User, error) {
	reviews := node.Reviews.Nodes
	if node.Reviews.PageInfo.HasNextPage {
		more, err := g.remainingReviews(ctx, node.ID, node.Reviews.PageInfo.EndCursor)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, more...)
	}

	authorLogin := node.Author.login()
	var order []string
	byLogin := make(map[string]domain.User)
	for _, review := range reviews {
		if review.Author.login() == authorLogin {
			continue
		}
		if !window.Contains(review.CreatedAt.Time) {
			continue
		}
		reviewer := review.Author.user()
		if _, seen := byLogin[reviewer.Login]; !seen {
			order = append(order, reviewer.Login)
		}
		byLogin[reviewer.Login] = reviewer
	}

	reviewers := make([]domain.User, 0, len(order))
	for _, login := range order {
		reviewers = append(reviewers, byLogin[login])
	}
	return reviewers, nil
}

// reviewCommenters counts, per commenter, the comments inside window across all review
// threads of the pull request. The first comment of a thread inside window also credits
// its author with a review thread.
func (g *GitHubGateway) reviewCommenters(ctx context.Context, node pullRequestNode, window domain.Window) ([]domain.ReviewCommentsCount, error) {
	threads := node.ReviewThreads.Nodes
	if node.ReviewThreads.PageInfo.HasNextPage {
		more, err := g.remainingReviewThreads(ctx, node.ID, node.ReviewThreads.PageInfo.EndCursor)
		if err != nil {
			return nil, err
		}
		threads = append(threads, more...)
	}

	var order []string
	byLogin := make(map[string]*domain.ReviewCommentsCount)
	for _, thread := range threads {
		comments := thread.Comments.Nodes
		if thread.Comments.PageInfo.HasNextPage {
			more, err := g.remainingComments(ctx, thread.ID, thread.Comments.PageInfo.EndCursor)
			if err != nil {
				return nil, err
			}
			comments = append(comments, more...)
		}

		started := false
		for _, comment := range comments {
			if !window.Contains(comment.CreatedAt.Time) {
				continue
			}
			commenter := comment.Author.user()
			count, ok := byLogin[commenter.Login]
			if !ok {
				count = &domain.ReviewCommentsCount{User: commenter}
				byLogin[commenter.Login] = count
				order = append(order, commenter.Login)
			}
			count.Comments++
			if !started {
				count.ReviewThreads++
				started = true
			}
		}
	}

	counts := make([]domain.ReviewCommentsCount, 0, len(order))
	for _, login := range order {
		counts = append(counts, *byLogin[login])
	}
	return counts, nil
}

func (g *GitHubGateway) remainingReviews(ctx context.Context, id githubv4.ID, after githubv4.String) ([]authoredNode, error) {
	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[authoredNode], error) {
		var q reviewsQuery
		variables := map[string]interface{}{"id": id, "cursor": cursor}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[authoredNode]{}, fmt.Errorf("failed to execute GraphQL query for reviews of %v: %w", id, err)
		}
		reviews := q.Node.PullRequest.Reviews
		return newPage(reviews.Nodes, reviews.PageInfo), nil
	}
	return NewPaginator(fetch, githubv4.NewString(after), g.delays.Page, g.sleep).Collect(ctx)
}

func (g *GitHubGateway) remainingReviewThreads(ctx context.Context, id githubv4.ID, after githubv4.String) ([]reviewThreadNode, error) {
	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[reviewThreadNode], error) {
		var q reviewThreadsQuery
		variables := map[string]interface{}{"id": id, "cursor": cursor}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[reviewThreadNode]{}, fmt.Errorf("failed to execute GraphQL query for review threads of %v: %w", id, err)
		}
		threads := q.Node.PullRequest.ReviewThreads
		return newPage(threads.Nodes, threads.PageInfo), nil
	}
	return NewPaginator(fetch, githubv4.NewString(after), g.delays.Page, g.sleep).Collect(ctx)
}

func (g *GitHubGateway) remainingComments(ctx context.Context, id githubv4.ID, after githubv4.String) ([]authoredNode, error) {
	fetch := func(ctx context.Context, cursor *githubv4.String) (Page[authoredNode], error) {
		var q commentsQuery
		variables := map[string]interface{}{"id": id, "cursor": cursor}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[authoredNode]{}, fmt.Errorf("failed to execute GraphQL query for comments of %v: %w", id, err)
		}
		comments := q.Node.ReviewThread.Comments
		return newPage(comments.Nodes, comments.PageInfo), nil
	}
	return NewPaginator(fetch, githubv4.NewString(after), g.delays.Page, g.sleep).Collect(ctx)
}
