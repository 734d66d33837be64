// Command glaciers is the CLI entrypoint described in spec.md §6: a root
// command carrying global TOML/config-override flags, dispatching to the
// catalog builder and the log/trace decoders.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yulesa/glaciers/internal/config"
	"github.com/yulesa/glaciers/internal/logging"
)

var (
	tomlPath      string
	configEntries map[string]string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "glaciers",
		Short:         "Batch decoder for EVM event logs and call traces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfig()
		},
	}
	root.PersistentFlags().StringVarP(&tomlPath, "toml", "t", "", "load configuration from a TOML document")
	root.PersistentFlags().StringToStringVarP(&configEntries, "config", "c", nil, "set a configuration entry as key=value (repeatable)")

	root.AddCommand(newAbiCmd())
	root.AddCommand(newDecodeLogsCmd())
	root.AddCommand(newDecodeTracesCmd())
	root.AddCommand(newDecodeLogsSingleContractCmd())
	return root
}

// applyConfig loads TOML first, if given, then applies -c overrides so a
// later CLI override always wins over the same key set by TOML.
func applyConfig() error {
	if tomlPath != "" {
		if err := config.SetFromTOML(tomlPath); err != nil {
			return err
		}
	}
	for key, raw := range configEntries {
		if err := config.Set(key, config.ParseCLIValue(raw)); err != nil {
			return err
		}
	}
	return nil
}

func logStart(op, path string) {
	logging.Log.Infof("%s: starting %s", op, path)
}

func logFinish(op, path string, rows int) {
	logging.Log.Infof("%s: finished %s (%d rows)", op, path, rows)
}
