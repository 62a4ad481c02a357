package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/comicvine/internal/cvtwin"
)

func newTwin(t *testing.T) *cvtwin.Server {
	t.Helper()
	twin := cvtwin.New("KEY")
	t.Cleanup(twin.Close)

	twin.AddType(4000, "issue", "issues")
	twin.AddType(4050, "volume", "volumes")
	twin.AddObject("volume", map[string]any{"id": 2127, "name": "The Amazing Spider-Man", "count_of_issues": 700})
	twin.AddObject("volume", map[string]any{"id": 2128, "name": "Spider-Woman", "count_of_issues": 50})
	twin.AddObject("volume", map[string]any{"id": 2129, "name": "Batman", "count_of_issues": 713})
	twin.AddObject("issue", map[string]any{"id": 371103, "name": "Secret Wars", "issue_number": "1"})
	return twin
}

// resetFlags restores flag variables between runs of the shared root command
func resetFlags() {
	cfgFile, outputFormat, filterExpr, preset = "", "", "", ""
	limit, offset, page, pages = 0, 0, 1, 1
	sortOrder, fieldList, apiFilter = "", "", ""
	fetchFull, checkOnly = false, false
	showFields = nil

	var clear func(c *cobra.Command)
	clear = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			clear(sub)
		}
	}
	clear(rootCmd)
}

func run(t *testing.T, twin *cvtwin.Server, extraConfig string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "comicvine:\n  api_key: KEY\n  url: " + twin.BaseURL() + "\nlogging:\n  level: error\n" + extraConfig
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	twin := newTwin(t)

	out, err := run(t, twin, "", "list", "volume", "--limit", "2", "--pages", "2", "-o", "json")
	require.NoError(t, err)

	var result listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "volumes", result.Resource)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Results, 3)
	assert.Equal(t, 2, twin.Count("/api/volumes"))
}

func TestListCommandFilterPreset(t *testing.T) {
	twin := newTwin(t)
	presets := "filter:\n  presets:\n    long: 'count_of_issues > 100'\n"

	out, err := run(t, twin, presets, "list", "volumes", "--preset", "long")
	require.NoError(t, err)
	assert.Contains(t, out, "The Amazing Spider-Man")
	assert.Contains(t, out, "Batman")
	assert.NotContains(t, out, "Spider-Woman")

	_, err = run(t, twin, presets, "list", "volumes", "--preset", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset 'missing' not found")
}

func TestSearchCommand(t *testing.T) {
	twin := newTwin(t)

	out, err := run(t, twin, "", "search", "volume", "spider", "--filter", `Name startsWith "Spider"`, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "query: spider")
	assert.Contains(t, out, "Spider-Woman")
	assert.NotContains(t, out, "Amazing")

	reqs := twin.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "volume", last.Query["resources"])
	assert.Equal(t, "10", last.Query["limit"])
}

func TestGetCommand(t *testing.T) {
	twin := newTwin(t)

	out, err := run(t, twin, "", "get", "volumes", "2127", "2129", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "The Amazing Spider-Man")
	assert.Contains(t, out, "Batman")
	assert.Equal(t, 1, twin.Count("/api/types"))

	out, err = run(t, twin, "", "get", "issue", "371103")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret Wars (ID: 371103)")
	assert.Contains(t, out, "issue_number: 1")
}

func TestGetCommandFilter(t *testing.T) {
	twin := newTwin(t)
	presets := "filter:\n  presets:\n    long: 'count_of_issues > 100'\n"

	out, err := run(t, twin, "", "get", "volume", "2127", "2128", "2129", "--filter", `Name contains "Spider"`, "-o", "json")
	require.NoError(t, err)

	var objects []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &objects))
	require.Len(t, objects, 2)
	assert.Equal(t, "The Amazing Spider-Man", objects[0]["name"])
	assert.Equal(t, "Spider-Woman", objects[1]["name"])

	out, err = run(t, twin, presets, "get", "volume", "2127", "2128", "--preset", "long", "-o", "table", "--show", "count_of_issues")
	require.NoError(t, err)
	assert.Contains(t, out, "The Amazing Spider-Man")
	assert.Contains(t, out, "700")
	assert.NotContains(t, out, "Spider-Woman")
}

func TestGetURLCommandFilter(t *testing.T) {
	twin := newTwin(t)
	detailURL := twin.BaseURL() + "/volume/4050-2128/"

	out, err := run(t, twin, "", "get-url", detailURL)
	require.NoError(t, err)
	assert.Contains(t, out, "Spider-Woman (ID: 2128)")

	out, err = run(t, twin, "", "get-url", detailURL, "--filter", "count_of_issues > 100")
	require.NoError(t, err)
	assert.Equal(t, "No results found\n", out)
}

func TestPresetsCommand(t *testing.T) {
	twin := newTwin(t)
	presets := "filter:\n  presets:\n    long: 'count_of_issues > 100'\n    spider: 'Name contains \"Spider\"'\n"

	out, err := run(t, twin, presets, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "├── long: count_of_issues > 100")
	assert.Contains(t, out, `╰── spider: Name contains "Spider"`)
	assert.Zero(t, twin.Count("/api/volumes"))

	out, err = run(t, twin, presets, "presets", "volumes", "-o", "json")
	require.NoError(t, err)

	var summaries []presetSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "long", summaries[0].Name)
	require.NotNil(t, summaries[0].Matches)
	assert.Equal(t, 2, *summaries[0].Matches)
	require.NotNil(t, summaries[1].Matches)
	assert.Equal(t, 2, *summaries[1].Matches)

	out, err = run(t, twin, "", "presets")
	require.NoError(t, err)
	assert.Equal(t, "No presets configured\n", out)
}

func TestFilterWorkersStoppedAfterCommand(t *testing.T) {
	twin := newTwin(t)

	_, err := run(t, twin, "", "list", "volumes", "--filter", "ID > 0")
	require.NoError(t, err)
	assert.Nil(t, filters)

	// A failing command leaves the manager to the next initialization
	_, err = run(t, twin, "", "list", "comics")
	require.Error(t, err)
	require.NotNil(t, filters)
	require.NoError(t, closeFilters())
	assert.Nil(t, filters)
	assert.NoError(t, closeFilters())
}

func TestTypesAndVersionCommands(t *testing.T) {
	twin := newTwin(t)

	out, err := run(t, twin, "", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "4000: issue / issues")

	out, err = run(t, twin, "", "api-version")
	require.NoError(t, err)
	assert.Equal(t, cvtwin.Version+"\n", out)

	out, err = run(t, twin, "", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Connection successful!")
	assert.Contains(t, out, "- Resource types: 2")
}

func TestCommandErrors(t *testing.T) {
	twin := newTwin(t)

	_, err := run(t, twin, "", "list", "comics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource not supported")

	_, err = run(t, twin, "", "list", "volumes", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	twin.FailWith("/api/volumes", 420)
	_, err = run(t, twin, "", "list", "volumes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	setupLogger(loggingConfig("debug", "console"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setupLogger(loggingConfig("bogus", "json"))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestCurrentVersion(t *testing.T) {
	original := appVersion
	t.Cleanup(func() { appVersion = original })

	appVersion = "dev"
	_, ok := currentVersion()
	assert.False(t, ok)

	appVersion = "v1.2.3"
	v, ok := currentVersion()
	require.True(t, ok)
	assert.Equal(t, "1.2.3", v.String())
}
