// Package export renders the aggregate views of a collection run as tables
// and writes them to disk.
package export

import (
	"github.com/montanaflynn/stats"
	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/rocketmo/gh-org-stats/internal/usecase"
)

// Table names, also used as file and sheet names.
const (
	ReposTable      = "repos"
	UsersTable      = "users"
	UserByRepoTable = "user-by-repo"
	SummaryTable    = "summary"
)

// Table is one tabular view: a header row and one row of scalar cells per record.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

var counterColumns = []string{
	"Commits",
	"Additions",
	"Deletions",
	"Pull requests",
	"Merged pull requests",
	"Code reviews",
	"Review threads started",
	"Code review comments",
}

func counterCells(c domain.Counters) []interface{} {
	return []interface{}{c.Commits, c.Additions, c.Deletions, c.Pulls, c.PullsMerged, c.Reviews, c.ReviewThreads, c.Comments}
}

// Tables renders the three views of report plus a summary of the member view.
func Tables(report *usecase.Report) []Table {
	return []Table{
		repoTable(report.Repos),
		userTable(report.Users),
		userByRepoTable(report.UserRepos),
		summaryTable(report.Users),
	}
}

func repoTable(repos []domain.RepoStats) Table {
	t := Table{Name: ReposTable, Columns: append([]string{"Repository name"}, counterColumns...)}
	for _, repo := range repos {
		t.Rows = append(t.Rows, append([]interface{}{repo.Name}, counterCells(repo.Counters)...))
	}
	return t
}

func userTable(users []domain.UserStats) Table {
	columns := append([]string{"Username", "Profile name"}, counterColumns...)
	columns = append(columns, "Unique repos with at least one commit", "Unique repos with at least one code review")
	t := Table{Name: UsersTable, Columns: columns}
	for _, user := range users {
		row := append([]interface{}{user.Login, user.Name}, counterCells(user.Counters)...)
		t.Rows = append(t.Rows, append(row, user.UniqueRepoCommitCount, user.UniqueRepoReviewCount))
	}
	return t
}

func userByRepoTable(userRepos []domain.UserRepoStats) Table {
	t := Table{Name: UserByRepoTable, Columns: append([]string{"Repository name", "Username", "Profile name"}, counterColumns...)}
	for _, ur := range userRepos {
		t.Rows = append(t.Rows, append([]interface{}{ur.Repo, ur.Login, ur.Name}, counterCells(ur.Counters)...))
	}
	return t
}

// summaryTable describes how each counter is distributed across organization members.
func summaryTable(users []domain.UserStats) Table {
	t := Table{Name: SummaryTable, Columns: []string{"Metric", "Total", "Mean", "Median", "90th percentile", "Max"}}
	series := make([]stats.Float64Data, len(counterColumns))
	for _, user := range users {
		for i, cell := range counterCells(user.Counters) {
			series[i] = append(series[i], float64(cell.(int)))
		}
	}
	for i, metric := range counterColumns {
		t.Rows = append(t.Rows, append([]interface{}{metric}, describe(series[i])...))
	}
	return t
}

func describe(data stats.Float64Data) []interface{} {
	if len(data) == 0 {
		return []interface{}{0.0, 0.0, 0.0, 0.0, 0.0}
	}
	// Errors only arise from empty input, ruled out above.
	total, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p90, _ := stats.Percentile(data, 90)
	maximum, _ := stats.Max(data)
	cells := []interface{}{}
	for _, v := range []float64{total, mean, median, p90, maximum} {
		rounded, _ := stats.Round(v, 2)
		cells = append(cells, rounded)
	}
	return cells
}
