// Function kernel: spec.md §4.5.3. Grounded on
// original_source/crates/glaciers/src/trace_decoder.rs (decode/
// map_function_sig_and_values), mirrored against the event kernel's shape
// but decoding both the call input and the return output independently.
package decoder

import (
	"encoding/json"

	eABI "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/yulesa/glaciers/internal/codec"
	"github.com/yulesa/glaciers/internal/config"
	"github.com/yulesa/glaciers/internal/table"
)

// DecodeTracesChunk implements the function kernel over one chunk: for each
// row it parses full_signature, decodes the 4-byte-stripped call input and
// the raw output, and appends input_{values,keys,json} and
// output_{values,keys,json} columns.
func DecodeTracesChunk(chunk *table.Table) (*table.Table, error) {
	n := chunk.NumRows()
	sigCol, hasSig := chunk.Column("full_signature")
	mutCol, _ := chunk.Column("state_mutability")
	inputCol, _ := chunk.Column("action_input")
	outputCol, _ := chunk.Column("result_output")

	inValues := table.NewColumn("input_values", table.KindStringList, n)
	inKeys := table.NewColumn("input_keys", table.KindStringList, n)
	inJSON := table.NewColumn("input_json", table.KindString, n)
	outValues := table.NewColumn("output_values", table.KindStringList, n)
	outKeys := table.NewColumn("output_keys", table.KindStringList, n)
	outJSON := table.NewColumn("output_json", table.KindString, n)

	nullRow := func(i int) {
		inValues.Null[i] = true
		inKeys.Null[i] = true
		inJSON.Null[i] = true
		outValues.Null[i] = true
		outKeys.Null[i] = true
		outJSON.Null[i] = true
	}

	for i := 0; i < n; i++ {
		if !hasSig || sigCol.IsNull(i) {
			nullRow(i)
			continue
		}
		mut := ""
		if mutCol != nil && !mutCol.IsNull(i) {
			mut = mutCol.Str[i]
		}
		fn, err := ParseFunction(sigCol.Str[i], mut)
		if err != nil {
			nullRow(i)
			continue
		}

		var input []byte
		if inputCol != nil && !inputCol.IsNull(i) {
			input = inputCol.Bin[i]
			// strip the leading 4-byte selector if present, mirroring
			// decode_function_input's call-data convention.
			if len(input) >= 4 {
				input = input[4:]
			}
		}
		iParams, iVals, iKeys, err := decodeArgsRow(fn.Inputs, input)
		if err != nil {
			inValues.Null[i] = true
			inKeys.Null[i] = true
			inJSON.Null[i] = true
		} else {
			inValues.List[i] = iVals
			inKeys.List[i] = iKeys
			inJSON.Str[i] = marshalParams(iParams)
		}

		var output []byte
		if outputCol != nil && !outputCol.IsNull(i) {
			output = outputCol.Bin[i]
		}
		oParams, oVals, oKeys, err := decodeArgsRow(fn.Outputs, output)
		if err != nil {
			outValues.Null[i] = true
			outKeys.Null[i] = true
			outJSON.Null[i] = true
		} else {
			outValues.List[i] = oVals
			outKeys.List[i] = oKeys
			outJSON.Str[i] = marshalParams(oParams)
		}
	}

	out := chunk.
		WithColumn(inValues).WithColumn(inKeys).WithColumn(inJSON).
		WithColumn(outValues).WithColumn(outKeys).WithColumn(outJSON)
	if config.Get().Decoder.OutputHexStringEncoding {
		out = codec.BinaryToHex(out)
	}
	return out, nil
}

func decodeArgsRow(args eABI.Arguments, data []byte) ([]StructuredParam, []string, []string, error) {
	if len(args) == 0 {
		return []StructuredParam{}, []string{}, []string{}, nil
	}
	raw, err := args.Unpack(data)
	if err != nil {
		return nil, nil, nil, err
	}
	params := make([]StructuredParam, len(args))
	vals := make([]string, len(args))
	keys := make([]string, len(args))
	for i, a := range args {
		var v interface{}
		if i < len(raw) {
			v = raw[i]
		}
		s := codec.Stringify(codec.FromABI(v, a.Type))
		params[i] = StructuredParam{Name: a.Name, Index: uint32(i), ValueType: a.Type.String(), Value: s}
		vals[i] = s
		keys[i] = a.Name
	}
	return params, vals, keys, nil
}

func marshalParams(params []StructuredParam) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
