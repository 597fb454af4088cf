package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rocketmo/gh-org-stats/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolP("verbose", "v", false, "")
	cmd.Flags().String("log-format", "text", "")
	cmd.Flags().StringP("org", "o", "", "")
	cmd.Flags().String("from", "", "")
	cmd.Flags().String("to", "", "")
	cmd.Flags().StringP("output", "O", "", "")
	cmd.Flags().StringP("format", "f", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Org = "from-config"
	cfg.StartDate = "2024-01-01"

	applyFlags(newTestCommand(t, "-o", "from-flag", "--to", "2024-06-30", "-f", "xlsx"), cfg)

	assert.Equal(t, "from-flag", cfg.Org)
	assert.Equal(t, "2024-01-01", cfg.StartDate, "unset flags keep the loaded value")
	assert.Equal(t, "2024-06-30", cfg.EndDate)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, config.FormatXLSX, cfg.OutputFormat)
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		wantLevel logrus.Level
		expectErr bool
	}{
		{name: "defaults", wantLevel: logrus.InfoLevel},
		{name: "verbose", args: []string{"-v"}, wantLevel: logrus.DebugLevel},
		{name: "json", args: []string{"--log-format", "json"}, wantLevel: logrus.InfoLevel},
		{name: "unknown format", args: []string{"--log-format", "xml"}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := newLogger(newTestCommand(t, tc.args...), logrus.Fields{"run_id": "r-1"})
			if tc.expectErr {
				assert.ErrorContains(t, err, "unknown log format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, logger.GetLevel())
		})
	}
}

func TestNewLogger_StampsFields(t *testing.T) {
	cmd := newTestCommand(t, "--log-format", "json")
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	logger, err := newLogger(cmd, logrus.Fields{"run_id": "r-1"})
	require.NoError(t, err)
	logger.WithField("repo", "api").Info("Processed repository")
	logger.WithField("run_id", "explicit").Info("Overridden")

	decoder := json.NewDecoder(&stderr)
	var first, second map[string]interface{}
	require.NoError(t, decoder.Decode(&first))
	require.NoError(t, decoder.Decode(&second))

	assert.Equal(t, "r-1", first["run_id"])
	assert.Equal(t, "api", first["repo"])
	assert.Equal(t, "Processed repository", first["msg"])
	assert.Equal(t, "explicit", second["run_id"], "fields set on the entry win")
}
