package domain

import "time"

// Sentinel identities for authors GitHub cannot link to an account.
const (
	UnknownLogin = "UNKNOWN_LOGIN"
	UnknownUser  = "UNKNOWN_USER"
)

// Repo is a repository of the organization. Its identity is Name.
type Repo struct {
	Org  string
	Name string
}

// User is a GitHub account. Login is the identity key, Name is for display only.
type User struct {
	Login string
	Name  string
}

// Commit is a signed commit on a repository's default branch.
type Commit struct {
	Org           string
	Repo          string
	AuthorLogin   string
	AuthorName    string
	CommittedDate time.Time
	Additions     int
	Deletions     int
}

// ReviewCommentsCount is the review-comment activity of one commenter on one pull request.
type ReviewCommentsCount struct {
	User
	Comments      int
	ReviewThreads int
}

// PullRequest is a pull request reduced to the facts the aggregator folds.
// ReviewUsers never contains the author and holds each reviewer once.
type PullRequest struct {
	Org                 string
	Repo                string
	Number              int
	CreatedAt           time.Time
	Author              User
	WasMerged           bool
	ReviewUsers         []User
	ReviewCommentsCount []ReviewCommentsCount
}

// FirstNonEmpty returns the first non-empty value, or fallback when every value is empty.
func FirstNonEmpty(fallback string, values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return fallback
}

// NewUser builds a User from an optional login and a name fallback chain.
func NewUser(login string, names ...string) User {
	return User{
		Login: FirstNonEmpty(UnknownLogin, login),
		Name:  FirstNonEmpty(UnknownUser, append(names, login)...),
	}
}
