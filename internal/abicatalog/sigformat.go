package abicatalog

import (
	"strings"

	eABI "github.com/ethereum/go-ethereum/accounts/abi"
)

// EventSignature builds the canonical, re-parseable full_signature text for
// an event, preserving indexed markers and parameter names, so that
// internal/decoder can re-parse it symmetrically (spec.md §4.3's "it is
// later re-parsed for decoding, so its format must round-trip with §4.5").
func EventSignature(ev eABI.Event) string {
	parts := make([]string, len(ev.Inputs))
	for i, in := range ev.Inputs {
		if in.Indexed {
			parts[i] = in.Type.String() + " indexed " + in.Name
		} else {
			parts[i] = in.Type.String() + " " + in.Name
		}
	}
	return ev.Name + "(" + strings.Join(parts, ",") + ")"
}

// FunctionSignature builds the canonical, re-parseable full_signature text
// for a function, including its return types.
func FunctionSignature(fn eABI.Method) string {
	parts := make([]string, len(fn.Inputs))
	for i, in := range fn.Inputs {
		parts[i] = in.Type.String() + " " + in.Name
	}
	sig := fn.Name + "(" + strings.Join(parts, ",") + ")"
	if len(fn.Outputs) > 0 {
		outParts := make([]string, len(fn.Outputs))
		for i, out := range fn.Outputs {
			outParts[i] = out.Type.String() + " " + out.Name
		}
		sig += " returns (" + strings.Join(outParts, ",") + ")"
	}
	return sig
}
