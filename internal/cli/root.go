package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/logger"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// app is the state every command shares once the persistent flags are read.
type app struct {
	configPath string
	cfg        *config.Config
	log        *logger.Logger
	closeLog   func() error
}

func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

func printError(w io.Writer, err error) {
	// Check if it's a structured GridError
	var gridErr *util.GridError
	if errors.As(err, &gridErr) {
		fmt.Fprintln(w, gridErr.Format())
		return
	}
	// Simple error - still format nicely
	fmt.Fprintln(w, styles.ErrorMsg(err.Error()))
}

func newRootCmd() *cobra.Command {
	a := &app{log: logger.Nop()}

	rootCmd := &cobra.Command{
		Use:   "gridview",
		Short: "Explore tabular data in a virtualized terminal grid",
		Long: `gridview shows JSON, YAML, CSV and TSV files or PostgreSQL query
results in an interactive table with filtering, sorting, column
reordering, zoom and smooth scrolling over large row sets.

When stdout is not a terminal, rows are printed as a plain table,
JSON (--json) or tab-separated values (--raw).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/gridview/config.toml)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Version flag template to show more info
	rootCmd.SetVersionTemplate(fmt.Sprintf("gridview version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	rootCmd.AddCommand(
		newViewCmd(a),
		newSQLCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return rootCmd
}

// setup handles the global flags: colors, config and the log file.
func (a *app) setup(cmd *cobra.Command) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		styles.SetNoColor(true)
	}

	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.Path(explicit)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return util.NewError("Invalid configuration").
			WithContext(path).
			WithMessage(err.Error()).
			WithSuggestions("gridview config --list   # Show all keys and defaults").
			Wrap(err)
	}
	a.configPath, a.cfg = path, cfg

	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" {
		logPath = cfg.Log.File
	}
	log, closeLog, err := logger.OpenFile(util.ExpandHome(logPath), cfg.Log.Level)
	if err != nil {
		return err
	}
	a.log, a.closeLog = log, closeLog
	a.log.WithFields(map[string]any{"command": cmd.CommandPath(), "version": Version}).Debug("starting")
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridview.

To load completions:

Bash:
  $ source <(gridview completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ gridview completion zsh > "${fpath[1]}/_gridview"

Fish:
  $ gridview completion fish | source

PowerShell:
  PS> gridview completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gridview version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
