package main

import (
	"github.com/spf13/cobra"

	"github.com/yulesa/glaciers/internal/abicatalog"
	"github.com/yulesa/glaciers/internal/config"
)

func newAbiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abi [ABI_DB_PATH] [ABI_SOURCE_PATH]",
		Short: "Scan an ABI source directory and update the persisted catalog",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			dbPath := cfg.Main.EventsAbiDbFilePath
			sourcePath := cfg.Main.AbiFolderPath
			if len(args) > 0 {
				dbPath = args[0]
			}
			if len(args) > 1 {
				sourcePath = args[1]
			}

			logStart("abi", sourcePath)
			combined, err := abicatalog.UpdateCatalog(dbPath, sourcePath)
			if err != nil {
				return err
			}
			logFinish("abi", dbPath, combined.NumRows())
			return nil
		},
	}
}
