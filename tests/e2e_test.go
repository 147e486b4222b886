package tests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/marketeer/internal/cli"
	"github.com/mithrel/marketeer/internal/client/clienttest"
	"github.com/mithrel/marketeer/internal/config"
	"github.com/mithrel/marketeer/internal/wire"
)

// runCLI executes the CLI with the given args and returns stdout, stderr, and error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// setup writes a YAML config and points MARKETEER_SERVER_URL at a fake
// service, so the environment wins over the file's server_url.
func setup(t *testing.T) (cfgPath, dataDir string, srv *clienttest.Server) {
	t.Helper()
	tmpDir := t.TempDir()
	dataDir = filepath.Join(tmpDir, "data")

	cfgPath = filepath.Join(tmpDir, "config.yaml")
	cfgContent := "server_url: \"http://127.0.0.1:1\"\n"
	cfgContent += "data_dir: \"" + dataDir + "\"\n"
	cfgContent += "pager: false\n"
	cfgContent += "output:\n  mode: plain\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	srv = clienttest.NewServer(t)
	t.Setenv("MARKETEER_SERVER_URL", srv.URL)
	return cfgPath, dataDir, srv
}

func TestE2E_AnalyzeThenHistory(t *testing.T) {
	cfgPath, dataDir, srv := setup(t)

	stdout, stderr, err := runCLI(t, "--config", cfgPath, "analyze", "I'm launching a fitness app for Gen Z")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Market Overview\n")
	assert.Contains(t, stdout, "The fitness market is growing.\n")
	assert.Contains(t, stdout, "Agents: market research, marketing strategy\n")
	require.Len(t, srv.Requests(), 1)

	// The result is on disk where a later process can read it.
	_, err = os.Stat(filepath.Join(dataDir, "history.db"))
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigFile(cfgPath)
	ctx := context.Background()
	require.NoError(t, config.Load(ctx, v))
	app, err := wire.BuildApp(ctx, v)
	require.NoError(t, err)
	defer app.Close()

	items, err := app.History.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "req00001", items[0].ID)
	assert.Equal(t, "I'm launching a fitness app for Gen Z", items[0].Result.Query)
	require.Len(t, items[0].Result.Blocks(), 4)
}

func TestE2E_MarkdownOutput(t *testing.T) {
	cfgPath, _, _ := setup(t)
	t.Setenv("MARKETEER_OUTPUT_STYLE", "notty")

	stdout, stderr, err := runCLI(t, "--config", cfgPath, "analyze", "-o", "markdown", "--no-save", "a bakery in a small town")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Market Overview")
	assert.Contains(t, stdout, "Gen Z")
	assert.Contains(t, stdout, "req00001")
}

func TestE2E_ServiceDown(t *testing.T) {
	cfgPath, _, _ := setup(t)
	t.Setenv("MARKETEER_SERVER_URL", "http://127.0.0.1:1")
	t.Setenv("MARKETEER_TIMEOUT", "2s")

	_, _, err := runCLI(t, "--config", cfgPath, "analyze", "a query that never arrives")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze request failed")
}
