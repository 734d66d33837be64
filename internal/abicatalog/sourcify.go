package abicatalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

// sourcifyAPIBase is Sourcify's public verified-contract repository API.
// Grounded on original_source/crates/glaciers/src/miscellaneous.rs
// (decode_log_df_using_single_contract), which downloads a verified ABI for
// a single contract address rather than requiring a pre-built catalog.
const sourcifyAPIBase = "https://sourcify.dev/server/files/any/1"

// FetchSourcifyABI downloads the verified metadata for address on mainnet
// and returns the raw ABI JSON bytes, the input ReadAbiJSON expects.
func FetchSourcifyABI(ctx context.Context, address common.Address) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", sourcifyAPIBase, address.Hex())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("abicatalog: sourcify returned status %d for %s", resp.StatusCode, address.Hex())
	}
	return io.ReadAll(resp.Body)
}
