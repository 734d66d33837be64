package decoder

import (
	"github.com/yulesa/glaciers/internal/codec"
	"github.com/yulesa/glaciers/internal/config"
	"github.com/yulesa/glaciers/internal/table"
)

// Kind selects the log/trace dispatch axis named throughout spec.md §4.5.
type Kind int

const (
	KindLog Kind = iota
	KindTrace
)

// StructuredParam is one decoded parameter record, per spec.md §3/§4.5.
type StructuredParam struct {
	Name      string `json:"name"`
	Index     uint32 `json:"index"`
	ValueType string `json:"value_type"`
	Value     string `json:"value"`
}

// canonicalLogColumns exposes a raw log table's configured column aliases
// under the fixed names the matcher and kernel expect, mirroring the
// as_struct/alias_exprs renaming the original log_decoder performs before
// invoking its UDF. Each aliased column is copied under its canonical name;
// the aliased column itself stays in the table.
func canonicalLogColumns(t *table.Table) *table.Table {
	alias := config.Get().LogDecoder.LogSchema.Alias
	renames := map[string]string{
		alias.Topic0: "topic0", alias.Topic1: "topic1",
		alias.Topic2: "topic2", alias.Topic3: "topic3",
		alias.Data: "data", alias.Address: "address",
	}
	return renameColumns(t, renames)
}

func canonicalTraceColumns(t *table.Table) *table.Table {
	alias := config.Get().TraceDecoder.TraceSchema.Alias
	renames := map[string]string{
		alias.Selector: "selector", alias.ActionInput: "action_input",
		alias.ResultOutput: "result_output", alias.ActionTo: "action_to",
	}
	return renameColumns(t, renames)
}

func renameColumns(t *table.Table, renames map[string]string) *table.Table {
	out := t
	for from, to := range renames {
		if from == "" || from == to {
			continue
		}
		c, ok := out.Column(from)
		if !ok {
			continue
		}
		renamed := *c
		renamed.Name = to
		out = out.WithColumn(&renamed)
	}
	return out
}

// logHexDatatypes/traceHexDatatypes build the codec.HexDatatypes map for
// hex_to_binary normalization from the configured schema datatypes.
func logHexDatatypes() codec.HexDatatypes {
	dt := config.Get().LogDecoder.LogSchema.Datatype
	return codec.HexDatatypes{
		"topic0":  dt.Topic0 == "hex_string",
		"topic1":  dt.Topic1 == "hex_string",
		"topic2":  dt.Topic2 == "hex_string",
		"topic3":  dt.Topic3 == "hex_string",
		"data":    dt.Data == "hex_string",
		"address": dt.Address == "hex_string",
	}
}

func traceHexDatatypes() codec.HexDatatypes {
	dt := config.Get().TraceDecoder.TraceSchema.Datatype
	return codec.HexDatatypes{
		"selector":      dt.Selector == "hex_string",
		"action_input":  dt.ActionInput == "hex_string",
		"result_output": dt.ResultOutput == "hex_string",
		"action_to":     dt.ActionTo == "hex_string",
	}
}
