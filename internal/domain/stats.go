// Package domain contains the core data structures and domain logic for the application.
package domain

// Counters holds the activity counts shared by every aggregate view.
// All counters only ever grow during a run.
type Counters struct {
	Commits       int `json:"commits"`
	Additions     int `json:"additions"`
	Deletions     int `json:"deletions"`
	Pulls         int `json:"pulls"`
	PullsMerged   int `json:"pulls_merged"`
	Reviews       int `json:"reviews"`
	ReviewThreads int `json:"review_threads"`
	Comments      int `json:"comments"`
}

// RepoStats holds the activity counts for a single repository.
type RepoStats struct {
	Name string `json:"name"`
	Counters
}

// UserStats holds the activity counts for a single organization member,
// together with the number of distinct repositories they committed to and reviewed in.
type UserStats struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Counters
	UniqueRepoCommitCount int `json:"unique_repo_commit_count"`
	UniqueRepoReviewCount int `json:"unique_repo_review_count"`
}

// UserRepoStats holds the activity counts of one user inside one repository.
type UserRepoStats struct {
	Repo  string `json:"repo"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Counters
}
