package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/util"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set gridview options",
		Long: `Get and set gridview configuration options.

Examples:
  gridview config table.page_size        # Get value
  gridview config table.layout virtual   # Set value
  gridview config --list                 # List all config
  gridview config --path                 # Show the config file location`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfig(cmd, args)
		},
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")
	cmd.Flags().Bool("path", false, "Print the config file path")

	return cmd
}

func (a *app) runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	showPath, _ := cmd.Flags().GetBool("path")
	out := cmd.OutOrStdout()

	switch {
	case showPath:
		fmt.Fprintln(out, a.configPath)
		return nil
	case listAll:
		for _, key := range config.ListKeys() {
			value, _ := a.cfg.GetValue(key)
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
		return nil
	case len(args) == 0:
		fmt.Fprintln(out, styles.SectionHeader("Available keys"))
		fmt.Fprint(out, config.GenerateHelpText())
		return nil
	case len(args) > 2:
		return util.TooManyArgumentsError(2, len(args))
	}

	key := strings.ToLower(args[0])
	current, ok := a.cfg.GetValue(key)
	if !ok {
		return util.ConfigKeyError(key)
	}

	if len(args) == 1 {
		fmt.Fprintln(out, current)
		return nil
	}

	value := args[1]
	if err := a.cfg.SetValue(key, value); err != nil {
		return util.NewError("Invalid config value").
			WithContext(fmt.Sprintf("%s=%s", key, value)).
			WithMessage(err.Error()).
			Wrap(err)
	}
	if err := a.cfg.Save(a.configPath); err != nil {
		return util.NewError("Cannot save config").
			WithContext(a.configPath).
			WithMessage(err.Error()).
			Wrap(err)
	}
	a.log.WithFields(map[string]any{"key": key, "value": value}).Info("config updated")

	fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Set %s = %s", key, value)))
	return nil
}
