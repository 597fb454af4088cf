// Package usecase contains the business logic of the application.
package usecase

import "github.com/rocketmo/gh-org-stats/internal/domain"

type userTally struct {
	stats       domain.UserStats
	commitRepos map[string]struct{}
	reviewRepos map[string]struct{}
}

type repoLogin struct {
	repo  string
	login string
}

// Aggregator folds fetched records into three running views: per repository,
// per organization member, and per user within a repository.
//
// Folding the same record twice counts it twice; callers fold each record once.
// The member allow-set only filters the per-member view and is consulted at fold time.
type Aggregator struct {
	members map[string]struct{}

	repos     map[string]*domain.RepoStats
	repoOrder []string

	users     map[string]*userTally
	userOrder []string

	userRepos     map[repoLogin]*domain.UserRepoStats
	userRepoOrder []repoLogin
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		members:   make(map[string]struct{}),
		repos:     make(map[string]*domain.RepoStats),
		users:     make(map[string]*userTally),
		userRepos: make(map[repoLogin]*domain.UserRepoStats),
	}
}

// RecordRepos registers repositories so they are reported even without activity.
func (a *Aggregator) RecordRepos(repos []domain.Repo) {
	for _, repo := range repos {
		a.repo(repo.Name)
	}
}

// RecordUsers adds users to the member allow-set and registers them in the member view.
func (a *Aggregator) RecordUsers(users []domain.User) {
	for _, user := range users {
		a.members[user.Login] = struct{}{}
		a.user(user.Login, user.Name)
	}
}

// RecordCommits folds commits into all three views.
func (a *Aggregator) RecordCommits(commits []domain.Commit) {
	for _, commit := range commits {
		repo := a.repo(commit.Repo)
		repo.Commits++
		repo.Additions += commit.Additions
		repo.Deletions += commit.Deletions

		if a.isMember(commit.AuthorLogin) {
			user := a.user(commit.AuthorLogin, commit.AuthorName)
			user.stats.Commits++
			user.stats.Additions += commit.Additions
			user.stats.Deletions += commit.Deletions
			user.commitRepos[commit.Repo] = struct{}{}
		}

		userRepo := a.userRepo(commit.Repo, commit.AuthorLogin, commit.AuthorName)
		userRepo.Commits++
		userRepo.Additions += commit.Additions
		userRepo.Deletions += commit.Deletions
	}
}

// RecordPullRequests folds pull requests, their reviewers and review commenters into all three views.
func (a *Aggregator) RecordPullRequests(pullRequests []domain.PullRequest) {
	for _, pr := range pullRequests {
		merged := 0
		if pr.WasMerged {
			merged = 1
		}

		repo := a.repo(pr.Repo)
		repo.Pulls++
		repo.PullsMerged += merged
		repo.Reviews += len(pr.ReviewUsers)
		for _, commenter := range pr.ReviewCommentsCount {
			repo.Comments += commenter.Comments
			repo.ReviewThreads += commenter.ReviewThreads
		}

		if a.isMember(pr.Author.Login) {
			author := a.user(pr.Author.Login, pr.Author.Name)
			author.stats.Pulls++
			author.stats.PullsMerged += merged
		}
		author := a.userRepo(pr.Repo, pr.Author.Login, pr.Author.Name)
		author.Pulls++
		author.PullsMerged += merged

		for _, reviewer := range pr.ReviewUsers {
			if a.isMember(reviewer.Login) {
				user := a.user(reviewer.Login, reviewer.Name)
				user.stats.Reviews++
				user.reviewRepos[pr.Repo] = struct{}{}
			}
			a.userRepo(pr.Repo, reviewer.Login, reviewer.Name).Reviews++
		}

		for _, commenter := range pr.ReviewCommentsCount {
			if a.isMember(commenter.Login) {
				user := a.user(commenter.Login, commenter.Name)
				user.stats.Comments += commenter.Comments
				user.stats.ReviewThreads += commenter.ReviewThreads
			}
			userRepo := a.userRepo(pr.Repo, commenter.Login, commenter.Name)
			userRepo.Comments += commenter.Comments
			userRepo.ReviewThreads += commenter.ReviewThreads
		}
	}
}

// RepoNames returns the known repository names in order of first sighting.
func (a *Aggregator) RepoNames() []string {
	return append([]string(nil), a.repoOrder...)
}

// RepoView returns a snapshot of the per-repository view in order of first sighting.
func (a *Aggregator) RepoView() []domain.RepoStats {
	view := make([]domain.RepoStats, 0, len(a.repoOrder))
	for _, name := range a.repoOrder {
		view = append(view, *a.repos[name])
	}
	return view
}

// UserView returns a snapshot of the per-member view in order of first sighting.
func (a *Aggregator) UserView() []domain.UserStats {
	view := make([]domain.UserStats, 0, len(a.userOrder))
	for _, login := range a.userOrder {
		tally := a.users[login]
		stats := tally.stats
		stats.UniqueRepoCommitCount = len(tally.commitRepos)
		stats.UniqueRepoReviewCount = len(tally.reviewRepos)
		view = append(view, stats)
	}
	return view
}

// UserByRepoView returns a snapshot of the per-user-per-repository view in order of first sighting.
func (a *Aggregator) UserByRepoView() []domain.UserRepoStats {
	view := make([]domain.UserRepoStats, 0, len(a.userRepoOrder))
	for _, key := range a.userRepoOrder {
		view = append(view, *a.userRepos[key])
	}
	return view
}

func (a *Aggregator) isMember(login string) bool {
	_, ok := a.members[login]
	return ok
}

func (a *Aggregator) repo(name string) *domain.RepoStats {
	if repo, ok := a.repos[name]; ok {
		return repo
	}
	repo := &domain.RepoStats{Name: name}
	a.repos[name] = repo
	a.repoOrder = append(a.repoOrder, name)
	return repo
}

func (a *Aggregator) user(login, name string) *userTally {
	if user, ok := a.users[login]; ok {
		return user
	}
	user := &userTally{
		stats:       domain.UserStats{Login: login, Name: name},
		commitRepos: make(map[string]struct{}),
		reviewRepos: make(map[string]struct{}),
	}
	a.users[login] = user
	a.userOrder = append(a.userOrder, login)
	return user
}

func (a *Aggregator) userRepo(repo, login, name string) *domain.UserRepoStats {
	key := repoLogin{repo: repo, login: login}
	if stats, ok := a.userRepos[key]; ok {
		return stats
	}
	stats := &domain.UserRepoStats{Repo: repo, Login: login, Name: name}
	a.userRepos[key] = stats
	a.userRepoOrder = append(a.userRepoOrder, key)
	return stats
}
