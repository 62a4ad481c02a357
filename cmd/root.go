package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/comicvine/comicvine"
	"github.com/s0up4200/comicvine/config"
	"github.com/s0up4200/comicvine/filter"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *comicvine.Client
	filters *filter.Manager

	appVersion   = "dev"
	appBuildTime = "unknown"

	// Command flags
	outputFormat string
	filterExpr   string
	preset       string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "comicvine",
	Short: "A command line client for the Comic Vine API",
	Long: `comicvine queries the Comic Vine API: search across resources, page
through lists, fetch single objects by id or detail URL, and narrow results
down with filter expressions.

The API key is read from the config file or the COMICVINE_API_KEY
environment variable.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	// Post-run hooks are skipped when a command fails
	if closeErr := closeFilters(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records the build information reported by --version and used by update.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: tree, table, json or yaml")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(apiVersionCmd)
	rootCmd.AddCommand(typesCmd)
}

// initializeApp loads the configuration and creates the client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if err := validateOutputFormat(cfg.Output.Format); err != nil {
		return err
	}

	logger = setupLogger(cfg.Logging)

	client, err = comicvine.NewClient(cfg.ComicVine.APIKey, logger, cfg.ComicVine.ClientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create Comic Vine client: %w", err)
	}

	if err := closeFilters(); err != nil {
		return err
	}
	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("url", client.BaseURL()).
		Dur("types_ttl", cfg.ComicVine.TypesTTL).
		Msg("Comic Vine client initialized")

	return nil
}

// shutdownApp releases what initializeApp set up
func shutdownApp(cmd *cobra.Command, args []string) error {
	return closeFilters()
}

// closeFilters stops the filter manager's worker pool, if one is running
func closeFilters() error {
	if filters == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := filters.Close(ctx)
	filters = nil
	if err != nil {
		return fmt.Errorf("failed to stop filter workers: %w", err)
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to Comic Vine",
	Long:  `Test the API key against Comic Vine and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintf(out, "Testing connection to Comic Vine at %s...\n", client.BaseURL())

	version, err := client.APIVersion(ctx)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Connection successful!")

	types, err := client.Types(ctx)
	if err != nil {
		return fmt.Errorf("failed to get types: %w", err)
	}

	fmt.Fprintf(out, "\nComic Vine:\n")
	fmt.Fprintf(out, "- API version: %s\n", version)
	fmt.Fprintf(out, "- Resource types: %d\n", len(types))
	fmt.Fprintf(out, "- Types cached for: %s\n", client.TypeCache().TTL())

	if names := filters.ListFilters(); len(names) > 0 {
		fmt.Fprintf(out, "\nFilter presets:\n")
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Fprintf(out, "  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}

// apiVersionCmd represents the api-version command
var apiVersionCmd = &cobra.Command{
	Use:   "api-version",
	Short: "Print the Comic Vine API version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := client.APIVersion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the resource types and their ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := client.Types(cmd.Context())
		if err != nil {
			return err
		}
		return newPrinter(cmd.OutOrStdout()).printTypes(types)
	},
}

// getFilterExpression determines the filter expression to use. An empty
// result means no filtering.
func getFilterExpression() (filter.CompiledFilter, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		f, err := filters.Compile(filterExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	}

	if preset != "" {
		if f, ok := filters.GetFilter(preset); ok {
			return f, nil
		}
		return nil, fmt.Errorf("preset '%s' not found in config", preset)
	}

	if cfg.Filter.DefaultExpression != "" {
		f, err := filters.Compile(cfg.Filter.DefaultExpression)
		if err != nil {
			return nil, fmt.Errorf("invalid default filter expression: %w", err)
		}
		return f, nil
	}

	return nil, nil
}

// applyFilter narrows objects with the selected filter, if any
func applyFilter(ctx context.Context, objects []comicvine.Object) ([]comicvine.Object, error) {
	f, err := getFilterExpression()
	if err != nil || f == nil {
		return objects, err
	}

	matches, err := filters.Evaluate(ctx, f, objects)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("filter", f.Expression()).
		Int("matched", len(matches)).
		Int("total", len(objects)).
		Msg("Applied filter")

	return matches, nil
}
