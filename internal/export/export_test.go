package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/rocketmo/gh-org-stats/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testReport() *usecase.Report {
	user := func(login string, commits int) domain.UserStats {
		return domain.UserStats{Login: login, Name: login, Counters: domain.Counters{Commits: commits, Reviews: 1}}
	}
	return &usecase.Report{
		Org: "acme",
		Repos: []domain.RepoStats{
			{Name: "api", Counters: domain.Counters{Commits: 7, Additions: 120, Deletions: 30, Pulls: 2, PullsMerged: 1}},
			{Name: "web", Counters: domain.Counters{Reviews: 3}},
		},
		Users: []domain.UserStats{
			user("alice", 1), user("bob", 2), user("carol", 3), user("dave", 4),
		},
		UserRepos: []domain.UserRepoStats{
			{Repo: "api", Login: "alice", Name: "Alice", Counters: domain.Counters{Commits: 1}},
		},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func tableByName(t *testing.T, tables []Table, name string) Table {
	t.Helper()
	for _, table := range tables {
		if table.Name == name {
			return table
		}
	}
	require.Failf(t, "table not found", "no table %q", name)
	return Table{}
}

func TestTables(t *testing.T) {
	tables := Tables(testReport())
	require.Len(t, tables, 4)

	repos := tableByName(t, tables, ReposTable)
	assert.Equal(t, "Repository name", repos.Columns[0])
	assert.Len(t, repos.Columns, 9)
	assert.Equal(t, []interface{}{"api", 7, 120, 30, 2, 1, 0, 0, 0}, repos.Rows[0])

	users := tableByName(t, tables, UsersTable)
	assert.Equal(t, []string{"Username", "Profile name"}, users.Columns[:2])
	assert.Equal(t, "Unique repos with at least one code review", users.Columns[len(users.Columns)-1])
	for _, row := range users.Rows {
		assert.Len(t, row, len(users.Columns))
	}

	userRepos := tableByName(t, tables, UserByRepoTable)
	assert.Equal(t, []interface{}{"api", "alice", "Alice", 1, 0, 0, 0, 0, 0, 0, 0}, userRepos.Rows[0])
}

func TestTables_Summary(t *testing.T) {
	summary := tableByName(t, Tables(testReport()), SummaryTable)
	require.Len(t, summary.Rows, len(counterColumns))

	assert.Equal(t, []interface{}{"Commits", 10.0, 2.5, 2.5, 3.5, 4.0}, summary.Rows[0])
	assert.Equal(t, []interface{}{"Code reviews", 4.0, 1.0, 1.0, 1.0, 1.0}, summary.Rows[5])
	assert.Equal(t, []interface{}{"Additions", 0.0, 0.0, 0.0, 0.0, 0.0}, summary.Rows[1])

	empty := tableByName(t, Tables(&usecase.Report{}), SummaryTable)
	for _, row := range empty.Rows {
		assert.Equal(t, []interface{}{0.0, 0.0, 0.0, 0.0, 0.0}, row[1:])
	}
}

func TestNewWriter(t *testing.T) {
	testCases := []struct {
		format    string
		want      Writer
		expectErr bool
	}{
		{format: "csv", want: &CSVWriter{}},
		{format: "XLSX", want: &XLSXWriter{}},
		{format: "json", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			writer, err := NewWriter(tc.format, t.TempDir(), testLogger())
			if tc.expectErr {
				assert.ErrorIs(t, err, domain.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, writer)
		})
	}
}

func TestCSVWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	writer, err := NewWriter("csv", dir, testLogger())
	require.NoError(t, err)

	paths, err := writer.Write(context.Background(), Tables(testReport()))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "repos.csv"),
		filepath.Join(dir, "users.csv"),
		filepath.Join(dir, "user-by-repo.csv"),
		filepath.Join(dir, "summary.csv"),
	}, paths)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Repository name", records[0][0])
	assert.Equal(t, []string{"api", "7", "120", "30", "2", "1", "0", "0", "0"}, records[1])
	assert.Equal(t, "web", records[2][0])
}

func TestCSVWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writer := &CSVWriter{dir: t.TempDir(), logger: testLogger()}
	_, err := writer.Write(ctx, Tables(testReport()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXLSXWriter_Write(t *testing.T) {
	dir := t.TempDir()
	writer := &XLSXWriter{dir: dir, logger: testLogger()}

	paths, err := writer.Write(context.Background(), Tables(testReport()))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, WorkbookName)}, paths)

	f, err := excelize.OpenFile(paths[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ReposTable, UsersTable, UserByRepoTable, SummaryTable}, f.GetSheetList())

	rows, err := f.GetRows(ReposTable)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Repository name", rows[0][0])
	assert.Equal(t, []string{"api", "7", "120", "30", "2", "1", "0", "0", "0"}, rows[1])

	summary, err := f.GetRows(SummaryTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"Commits", "10", "2.5", "2.5", "3.5", "4"}, summary[1])
}

func TestRender(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var buf bytes.Buffer
	summary := tableByName(t, Tables(testReport()), SummaryTable)
	require.NoError(t, Render(&buf, summary))

	out := buf.String()
	for _, column := range summary.Columns {
		assert.Contains(t, out, column)
	}
	for _, metric := range counterColumns {
		assert.Contains(t, out, metric)
	}
	assert.Contains(t, out, "3.5")
}
