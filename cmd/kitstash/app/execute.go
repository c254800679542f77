package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/kitstash/internal/cmd/output"
	pkgerrors "github.com/agentstation/kitstash/pkg/errors"
)

// Execute runs the kitstash CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "kitstash",
		Short:   "Scale model kit, paint and project manager",
		Version: a.version,
		Long: `Kitstash keeps track of scale model kits, paints, mixes and build projects.

It ships with an embedded paint catalog for quick adds, checks which kits
have every paint they need, and can enrich kits with details read from a
kit database page through a fetch relay.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Flag defaults come from the loaded config so env and file values survive
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.kitstash.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, wide")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.StorePath, "store", a.config.StorePath, "SQLite file for records, or :memory:")

	if a.out != nil {
		rootCmd.SetOut(a.out)
	}
	rootCmd.SetVersionTemplate("kitstash {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")
	storePath := mustGetString(cmd, "store")

	if cmd.Flags().Changed("config") {
		config, err := LoadConfigFile(mustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("store") {
			config.StorePath = storePath
		}
		a.config = config
	}

	if _, err := output.ParseFormat(format); err != nil {
		return pkgerrors.NewValidationError("format", format, err.Error())
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	a.setLogger(NewLogger(a.config))
	return nil
}

// ExitOnError prints an error and exits with status 1.
// Categorized failures print their user-facing message.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	switch pkgerrors.Classify(err) {
	case pkgerrors.CategoryRelayDenied, pkgerrors.CategoryTimeout, pkgerrors.CategoryBlockedPage,
		pkgerrors.CategoryNothingParsed, pkgerrors.CategoryTransport:
		msg = pkgerrors.Message(err) + " (" + msg + ")"
	}
	_, _ = os.Stderr.WriteString(msg + "\n")
	os.Exit(1)
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
