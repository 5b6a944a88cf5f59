package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cpcf/skein/config"
)

// exitError carries a process exit code out of a command whose failure has
// already been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

type app struct {
	logLevel   string
	configPath string

	logger *slog.Logger
	user   *config.UserConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "skein",
		Short:         "Render project templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr(), cmd.Flags().Changed("config"))
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultUserConfigPath(), "user configuration file")

	cmd.AddCommand(
		newBakeCmd(a),
		newVarsCmd(a),
		newCheckCmd(a),
		newDiffCmd(a),
	)
	return cmd
}

func (a *app) setup(stderr io.Writer, configRequired bool) error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = slog.New(log.NewWithOptions(stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}))

	a.user, err = config.LoadUserConfig(a.configPath, configRequired)
	if err != nil {
		return fmt.Errorf("user config: %w", err)
	}
	return nil
}

// templateArg is the first positional argument, or the bundled default.
func templateArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "pypackage"
}
