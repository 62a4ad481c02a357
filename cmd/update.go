package cmd

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// releaseRepository is the GitHub repository releases are published to
const releaseRepository = "s0up4200/comicvine"

var checkOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update comicvine to the latest release",
	Long:  `Check GitHub for a newer release of comicvine and replace the running binary with it.`,
	Args:  cobra.NoArgs,
	// No API access needed, so skip loading the config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isTerminal(os.Stderr)}).
			With().Timestamp().Logger()
		return nil
	},
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
}

// currentVersion parses the build version; development builds have none
func currentVersion() (semver.Version, bool) {
	v, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, ok := currentVersion()
	if !ok {
		return fmt.Errorf("cannot update a development build (version %q)", appVersion)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", releaseRepository)
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
	}

	if latestVersion.LTE(current) {
		fmt.Fprintf(out, "comicvine %s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "Update available: %s -> %s\n", current, latestVersion)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().
		Str("from", current.String()).
		Str("to", latestVersion.String()).
		Msg("Updating comicvine")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated to %s\n", latestVersion)
	return nil
}
