// Event kernel: spec.md §4.5.2. Grounded on
// original_source/crates/glaciers/src/log_decoder.rs (decode/
// map_event_sig_and_values) for the per-row state machine and on
// other_examples/71d69cf2 (0xmhha-indexer-go's abi-decoder.go), which
// reconstructs indexed event parameters from topics with go-ethereum's own
// abi.ParseTopicsIntoMap rather than hand-decoding each Solidity type.
package decoder

import (
	"encoding/json"

	eABI "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/yulesa/glaciers/internal/codec"
	"github.com/yulesa/glaciers/internal/config"
	"github.com/yulesa/glaciers/internal/table"
)

// DecodeLogsChunk implements the event kernel over one chunk: for each row
// it parses full_signature, decodes topics/data, and appends
// event_values/event_keys/event_json columns.
func DecodeLogsChunk(chunk *table.Table) (*table.Table, error) {
	n := chunk.NumRows()
	sigCol, hasSig := chunk.Column("full_signature")
	anonCol, _ := chunk.Column("anonymous")
	t0, _ := chunk.Column("topic0")
	t1, _ := chunk.Column("topic1")
	t2, _ := chunk.Column("topic2")
	t3, _ := chunk.Column("topic3")
	dataCol, _ := chunk.Column("data")

	values := table.NewColumn("event_values", table.KindStringList, n)
	keys := table.NewColumn("event_keys", table.KindStringList, n)
	jsons := table.NewColumn("event_json", table.KindString, n)

	for i := 0; i < n; i++ {
		if !hasSig || sigCol.IsNull(i) {
			values.Null[i] = true
			keys.Null[i] = true
			jsons.Null[i] = true
			continue
		}
		anonymous := false
		if anonCol != nil {
			if b, ok := anonCol.BoolAt(i); ok {
				anonymous = b
			}
		}
		ev, err := ParseEvent(sigCol.Str[i], anonymous)
		if err != nil {
			values.Null[i] = true
			keys.Null[i] = true
			jsons.Null[i] = true
			continue
		}

		topics := [4]common.Hash{
			zeroFilledTopic(t0, i), zeroFilledTopic(t1, i),
			zeroFilledTopic(t2, i), zeroFilledTopic(t3, i),
		}
		var data []byte
		if dataCol != nil && !dataCol.IsNull(i) {
			data = dataCol.Bin[i]
		}

		params, vals, keyNames, err := decodeEventRow(ev, anonymous, topics, data)
		if err != nil {
			values.Null[i] = true
			keys.Null[i] = true
			jsons.Null[i] = true
			continue
		}

		values.List[i] = vals
		keys.List[i] = keyNames
		encoded, err := json.Marshal(params)
		if err != nil {
			jsons.Str[i] = "[]"
		} else {
			jsons.Str[i] = string(encoded)
		}
	}

	out := chunk.WithColumn(values).WithColumn(keys).WithColumn(jsons)
	if config.Get().Decoder.OutputHexStringEncoding {
		out = codec.BinaryToHex(out)
	}
	return out, nil
}

func zeroFilledTopic(c *table.Column, row int) common.Hash {
	if c == nil || c.IsNull(row) {
		return common.Hash{}
	}
	return common.BytesToHash(c.Bin[row])
}

// decodeEventRow mirrors the original decode()/map_event_sig_and_values:
// decode indexed values from topics and non-indexed values from data,
// concatenate indexed-then-body, and re-order the descriptor's inputs the
// same way so positions align.
func decodeEventRow(ev *eABI.Event, anonymous bool, topics [4]common.Hash, data []byte) ([]StructuredParam, []string, []string, error) {
	var indexedInputs, nonIndexedInputs eABI.Arguments
	for _, in := range ev.Inputs {
		if in.Indexed {
			indexedInputs = append(indexedInputs, in)
		} else {
			nonIndexedInputs = append(nonIndexedInputs, in)
		}
	}

	topicOffset := 1
	if anonymous {
		topicOffset = 0
	}
	indexedValues := make([]codec.Value, len(indexedInputs))
	for i, in := range indexedInputs {
		idx := topicOffset + i
		var topic common.Hash
		if idx < 4 {
			topic = topics[idx]
		}
		indexedValues[i] = stringifyIndexedTopic(in, topic)
	}

	rawBody, err := nonIndexedInputs.Unpack(data)
	if err != nil {
		return nil, nil, nil, err
	}
	bodyValues := make([]codec.Value, len(nonIndexedInputs))
	for i, in := range nonIndexedInputs {
		var v interface{}
		if i < len(rawBody) {
			v = rawBody[i]
		}
		bodyValues[i] = codec.FromABI(v, in.Type)
	}

	inputsInOrder := append(append(eABI.Arguments{}, indexedInputs...), nonIndexedInputs...)
	allValues := append(append([]codec.Value{}, indexedValues...), bodyValues...)

	params := make([]StructuredParam, len(inputsInOrder))
	vals := make([]string, len(inputsInOrder))
	keys := make([]string, len(inputsInOrder))
	for i, in := range inputsInOrder {
		s := codec.Stringify(allValues[i])
		params[i] = StructuredParam{Name: in.Name, Index: uint32(i), ValueType: in.Type.String(), Value: s}
		vals[i] = s
		keys[i] = in.Name
	}
	return params, vals, keys, nil
}

// stringifyIndexedTopic decodes one indexed event parameter from its
// 32-byte topic word via go-ethereum's own abi.ParseTopicsIntoMap, the same
// reconstruction bind-generated event accessors use. in.Name is reused as
// the map key, synthesized when the signature left the parameter unnamed,
// so one-argument/one-topic calls never collide across indexed parameters.
// Dynamic types (string, bytes, arrays, tuples) are keccak256-hashed by
// Solidity when indexed, so the original value is unrecoverable;
// ParseTopicsIntoMap returns the raw topic hash for those, which is
// surfaced as-is.
func stringifyIndexedTopic(in eABI.Argument, topic common.Hash) codec.Value {
	key := in.Name
	if key == "" {
		key = "indexedArg"
	}
	synthetic := eABI.Argument{Name: key, Type: in.Type, Indexed: true}
	out := make(map[string]interface{})
	if err := eABI.ParseTopicsIntoMap(out, eABI.Arguments{synthetic}, []common.Hash{topic}); err != nil {
		cp := make([]byte, 32)
		copy(cp, topic[:])
		return codec.Value{Kind: codec.KindBytesFixed, Bytes: cp}
	}
	if h, ok := out[key].(common.Hash); ok {
		return codec.Value{Kind: codec.KindBytesFixed, Bytes: h.Bytes()}
	}
	return codec.FromABI(out[key], in.Type)
}
