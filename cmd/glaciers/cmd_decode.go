package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yulesa/glaciers/internal/config"
	"github.com/yulesa/glaciers/internal/decoder"
	"github.com/yulesa/glaciers/internal/logging"
)

func newDecodeLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-logs [LOG_PATH] [ABI_DB_PATH]",
		Short: "Decode a log file or folder against the events catalog",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			logPath := cfg.Main.RawLogsFolderPath
			dbPath := cfg.Main.EventsAbiDbFilePath
			if len(args) > 0 {
				logPath = args[0]
			}
			if len(args) > 1 {
				dbPath = args[1]
			}
			return runDecode(cmd.Context(), "decode-logs", logPath, dbPath, decoder.KindLog)
		},
	}
}

func newDecodeTracesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-traces [TRACE_PATH] [ABI_DB_PATH]",
		Short: "Decode a trace file or folder against the functions catalog",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			tracePath := cfg.Main.RawTracesFolderPath
			dbPath := cfg.Main.FunctionsAbiDbFilePath
			if len(args) > 0 {
				tracePath = args[0]
			}
			if len(args) > 1 {
				dbPath = args[1]
			}
			return runDecode(cmd.Context(), "decode-traces", tracePath, dbPath, decoder.KindTrace)
		},
	}
}

func runDecode(ctx context.Context, op, path, catalogPath string, kind decoder.Kind) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	logStart(op, path)
	if info.IsDir() {
		if err := decoder.DecodeFolder(ctx, path, catalogPath, kind); err != nil {
			return err
		}
		logging.Log.Infof("%s: finished %s", op, path)
		return nil
	}

	decoded, err := decoder.DecodeFile(path, catalogPath, kind)
	if err != nil {
		return err
	}
	logFinish(op, path, decoded.NumRows())
	return nil
}
