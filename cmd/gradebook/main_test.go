package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTextBackend points the global configuration at a fresh data file.
func useTextBackend(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradebook_data.txt")
	viper.Set("data.backend", "text")
	viper.Set("data.path", path)
	t.Cleanup(viper.Reset)
	return path
}

// useSQLiteBackend points the global configuration at a fresh database.
func useSQLiteBackend(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "gradebook.db")
	viper.Set("data.backend", "sqlite")
	viper.Set("database.path", path)
	t.Cleanup(viper.Reset)
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	want := []string{"menu", "students", "grades", "rank", "stats", "weights", "report", "import", "browse", "version"}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing command %q", name)
	}

	for _, flag := range []string{"config", "log-level", "log-format", "data", "backend"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing flag %q", flag)
	}
}

func TestInitConfig_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "class.txt")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "data:\n  path: " + dataPath + "\nlogging:\n  level: debug\nweights:\n  - category: Labs\n    weight: 0.4\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfgFile = cfgPath
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	require.NoError(t, initConfig(nil, nil))
	assert.Equal(t, dataPath, viper.GetString("data.path"))
	assert.Equal(t, "debug", viper.GetString("logging.level"))
	assert.Equal(t, "text", viper.GetString("data.backend"))
}

func TestInitConfig_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: loud\n"), 0o600))

	cfgFile = cfgPath
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	assert.Error(t, initConfig(nil, nil))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, versionCmd())
	require.NoError(t, err)
	assert.Equal(t, "gradebook dev\n", out)
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
