// Orchestrator: spec.md §4.5.1 and §5. Grounded on the teacher's bounded
// worker-pool pattern (pkg/client connection pooling used golang.org/x/sync
// primitives the same way: a semaphore sized to a configured concurrency
// limit, wrapped in an errgroup that fails fast on the first error) and on
// containerman17-l1-data-tools's go.mod, which pulls in golang.org/x/sync
// for exactly this file-then-chunk two-tier worker pool shape.
package decoder

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/yulesa/glaciers/internal/abicatalog"
	"github.com/yulesa/glaciers/internal/codec"
	"github.com/yulesa/glaciers/internal/config"
	"github.com/yulesa/glaciers/internal/logging"
	"github.com/yulesa/glaciers/internal/matcher"
	"github.com/yulesa/glaciers/internal/table"
)

// DecodeFolder enumerates folder's non-directory entries and decodes each
// concurrently, bounded by decoder.max_concurrent_files_decoding. It returns
// the first failure encountered; outstanding in-flight files are allowed to
// finish their current chunk before DecodeFolder returns.
func DecodeFolder(ctx context.Context, folder, catalogPath string, kind Kind) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return &DecoderError{Kind: KindIoError, Err: err}
	}

	limit := config.Get().Decoder.MaxConcurrentFilesDecoding
	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(ctx)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		filePath := filepath.Join(folder, e.Name())
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			_, err := DecodeFile(filePath, catalogPath, kind)
			return err
		})
	}
	return g.Wait()
}

// DecodeFile reads file_path as a table, decodes it, and writes the result
// beside a sibling decoded/ directory with the configured output format.
func DecodeFile(filePath, catalogPath string, kind Kind) (*table.Table, error) {
	raw, err := codec.ReadTable(filePath)
	if err != nil {
		return nil, &DecoderError{Kind: KindIoError, Err: err}
	}

	decoded, err := DecodeDF(raw, catalogPath, kind)
	if err != nil {
		return nil, err
	}

	savePath := decodedSavePath(filePath, kind)
	if dir := filepath.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &DecoderError{Kind: KindIoError, Err: err}
		}
	}
	if err := codec.WriteTable(decoded, savePath); err != nil {
		return nil, &DecoderError{Kind: KindIoError, Err: err}
	}
	logging.Log.Infof("decoder: wrote %s (%d rows)", savePath, decoded.NumRows())
	return decoded, nil
}

// decodedSavePath computes the sibling decoded/ directory path, replacing
// "logs"/"traces" with "decoded_logs"/"decoded_traces" in the filename
// (prepending the replacement if the source word is absent).
func decodedSavePath(filePath string, kind Kind) string {
	dir := filepath.Dir(filePath)
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	from, to := "logs", "decoded_logs"
	if kind == KindTrace {
		from, to = "traces", "decoded_traces"
	}
	var newStem string
	if strings.Contains(stem, from) {
		newStem = strings.Replace(stem, from, to, 1)
	} else {
		newStem = to + "_" + stem
	}

	outExt := "." + config.Get().Decoder.OutputFileFormat
	parent := filepath.Dir(dir)
	return filepath.Join(parent, "decoded", newStem+outExt)
}

// DecodeDF reads the catalog at catalog_path and decodes t against it.
func DecodeDF(t *table.Table, catalogPath string, kind Kind) (*table.Table, error) {
	catalog, err := abicatalog.ReadCatalog(catalogPath)
	if err != nil {
		return nil, &DecoderError{Kind: KindIoError, Err: err}
	}
	return DecodeDFWithAbi(t, catalog, kind)
}

// DecodeDFWithAbi normalizes t's canonical columns, dispatches to the
// matcher per (kind, decoder.algorithm), and decodes the matched rows in
// bounded-concurrency chunks.
func DecodeDFWithAbi(t *table.Table, catalog *table.Table, kind Kind) (*table.Table, error) {
	algorithm := config.Get().Decoder.Algorithm

	var canonical *table.Table
	var hexCols codec.HexDatatypes
	if kind == KindLog {
		canonical = canonicalLogColumns(t)
		hexCols = logHexDatatypes()
	} else {
		canonical = canonicalTraceColumns(t)
		hexCols = traceHexDatatypes()
	}
	canonical, err := codec.HexToBinary(canonical, hexCols)
	if err != nil {
		return nil, &DecoderError{Kind: KindDecodingError, Message: err.Error(), Err: err}
	}

	catalog, err = codec.HexToBinary(catalog, codec.HexDatatypes{"hash": true, "address": true})
	if err != nil {
		return nil, &DecoderError{Kind: KindDecodingError, Message: err.Error(), Err: err}
	}

	var matched *table.Table
	var matchErr error
	switch {
	case kind == KindLog && algorithm == "hash_address":
		matched, matchErr = matcher.MatchLogsByTopic0Address(canonical, catalog)
	case kind == KindLog:
		matched, matchErr = matcher.MatchLogsByTopic0(canonical, catalog)
	case kind == KindTrace && algorithm == "hash_address":
		matched, matchErr = matcher.MatchTracesBy4BytesAddress(canonical, catalog)
	default:
		matched, matchErr = matcher.MatchTracesBy4Bytes(canonical, catalog)
	}
	if matchErr != nil {
		return nil, fromMatcherErr(matchErr)
	}

	return DecodeChunks(matched, kind)
}

// DecodeChunks partitions matched into contiguous slices of at most
// decoder.decoded_chunk_size rows and decodes them concurrently, bounded by
// decoder.max_chunk_threads_per_file. Row order is preserved by assembling
// the final table in slice order regardless of completion order.
func DecodeChunks(matched *table.Table, kind Kind) (*table.Table, error) {
	chunkSize := config.Get().Decoder.DecodedChunkSize
	n := matched.NumRows()
	if n == 0 {
		return matched, nil
	}

	var slices []*table.Table
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		slices = append(slices, matched.Slice(start, end))
	}

	limit := config.Get().Decoder.MaxChunkThreadsPerFile
	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(context.Background())

	results := make([]*table.Table, len(slices))
	for i, chunk := range slices {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			var decoded *table.Table
			var err error
			if kind == KindLog {
				decoded, err = DecodeLogsChunk(chunk)
			} else {
				decoded, err = DecodeTracesChunk(chunk)
			}
			if err != nil {
				return &DecoderError{Kind: KindDecodingError, Message: err.Error(), Err: err}
			}
			results[i] = decoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table.VStack(results...)
}
