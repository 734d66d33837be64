package main

import (
	"bytes"
	"fmt"

	eABI "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/yulesa/glaciers/internal/abicatalog"
	"github.com/yulesa/glaciers/internal/codec"
	"github.com/yulesa/glaciers/internal/decoder"
)

// newDecodeLogsSingleContractCmd is the supplemented convenience command
// grounded on original_source/crates/glaciers/src/miscellaneous.rs
// (decode_log_df_using_single_contract): fetch one contract's verified ABI
// from Sourcify and decode a log table against it directly, bypassing the
// persisted catalog entirely.
func newDecodeLogsSingleContractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-logs-single-contract ADDRESS LOG_PATH",
		Short: "Decode logs against one contract's Sourcify-verified ABI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrArg, logPath := args[0], args[1]
			if !common.IsHexAddress(addrArg) {
				return fmt.Errorf("decode-logs-single-contract: %q is not a 20-byte hex address", addrArg)
			}
			address := common.HexToAddress(addrArg)

			logStart("decode-logs-single-contract", logPath)

			abiBytes, err := abicatalog.FetchSourcifyABI(cmd.Context(), address)
			if err != nil {
				return err
			}
			parsedABI, err := eABI.JSON(bytes.NewReader(abiBytes))
			if err != nil {
				return err
			}
			catalog, err := abicatalog.ReadAbiJSON(parsedABI, address)
			if err != nil {
				return err
			}

			raw, err := codec.ReadTable(logPath)
			if err != nil {
				return err
			}
			decoded, err := decoder.DecodeDFWithAbi(raw, catalog, decoder.KindLog)
			if err != nil {
				return err
			}

			logFinish("decode-logs-single-contract", logPath, decoded.NumRows())
			return nil
		},
	}
}
