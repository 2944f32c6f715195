package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/reexec"
	"github.com/josephlewis42/pipesh/core/shell"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
)

// ExitError carries the status the process should exit with. Anything worth
// saying has already been written by the time it's returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func loadConfig() (*config.Configuration, error) {
	dir := cfgPath
	if dir == "" {
		defaultDir, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = defaultDir
	}

	configuration, err := config.Load(dir)
	if errors.Is(err, fs.ErrPermission) {
		log.Printf("Couldn't read config in %s", dir)
	}
	return configuration, err
}

// openEvents returns the configured event log, or a no-op one if it's
// disabled or can't be opened.
func openEvents(cfg *config.Configuration, diag *log.Logger) (*logger.Logger, func()) {
	fd, err := cfg.OpenEventLog()
	switch {
	case errors.Is(err, config.ErrEventLogDisabled):
		return logger.NewNopLogger(), func() {}
	case err != nil:
		diag.Printf("Not recording events: %v", err)
		return logger.NewNopLogger(), func() {}
	}

	return logger.NewJSONLinesLogRecorder(fd), func() { fd.Close() }
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pipesh [flags] [WORD...]",
	Short: "A line oriented command interpreter",
	Long: `Runs echo, cd, exit and external programs, optionally chained into
pipelines with "|".

With no arguments lines are read from stdin until EOF or exit. Given -c or
command words, the single line is run and its status becomes the exit
status.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if commandLine != "" && len(args) > 0 {
			return errors.New("-c can't be combined with command words")
		}

		diag := log.New(cmd.ErrOrStderr(), "[pipesh] ", 0)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		events, closeEvents := openEvents(cfg, diag)
		defer closeEvents()

		opts := shell.Options{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Events: events,
			Color:  cfg.Color,
			Bridge: &reexec.Bridge{},
			Log:    diag,
		}

		ctx := context.Background()

		if commandLine != "" || len(args) > 0 {
			line := commandLine
			if line == "" {
				line = shell.JoinWords(args)
			}

			status, err := shell.New(opts).RunLine(ctx, line)
			if err != nil {
				return &ExitError{Code: shell.StatusFailure}
			}
			if status != shell.StatusSuccess {
				return &ExitError{Code: status}
			}
			return nil
		}

		var sh *shell.Shell
		if shell.IsTerminal(cmd.InOrStdin()) && shell.IsTerminal(cmd.OutOrStdout()) {
			rl, err := shell.NewReadlineReader(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.HistoryPath(), func() string {
				return shell.ExpandPrompt(cfg.Prompt, sh.State.PromptInfo())
			})
			if err != nil {
				return err
			}
			defer rl.Close()
			opts.Lines = rl
		}

		sh = shell.New(opts)
		if err := sh.Run(ctx); err != nil {
			if errors.Is(err, reexec.ErrSelfExec) {
				return &ExitError{Code: shell.StatusFailure}
			}
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
//
// A re-executed builtin is handled before any flag parsing so its arguments
// reach the builtin untouched.
func Execute() {
	if name, args, ok := reexec.Parse(os.Args[1:]); ok {
		os.Exit(shell.RunBuiltinProcess(name, args, os.Stdin, os.Stdout, os.Stderr))
	}

	err := rootCmd.Execute()

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory (default $HOME/.config/pipesh)")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit with its status")

	// Everything after the first command word belongs to the line.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.SilenceErrors = true
}
