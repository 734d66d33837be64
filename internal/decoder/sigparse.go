package decoder

import (
	"fmt"
	"strings"

	eABI "github.com/ethereum/go-ethereum/accounts/abi"
)

// Re-parsing full_signature is this module's analogue of spec.md's
// parse_event/parse_function library primitive. go-ethereum's accounts/abi
// package only parses structured ABI JSON, not a flat Solidity-style
// signature string with inline "indexed"/parameter-name markers, so the
// catalog builder (internal/abicatalog.EventSignature/FunctionSignature)
// emits — and this file re-parses — a small textual grammar:
// "Name(type0 [indexed] [name0], type1 ...)" for events, and the same shape
// plus an optional " returns (...)" clause for functions. This mirrors
// alloy's Event::parse/Function::parse from the original implementation,
// scaled down to the primitive Solidity types this module decodes.

// parsedArg is one parsed "type [indexed] [name]" parameter.
type parsedArg struct {
	typeStr string
	name    string
	indexed bool
}

// splitTopLevel splits s on commas that are not nested inside parens or
// brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start <= len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func parseArgList(inner string) ([]parsedArg, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, nil
	}
	rawParts := splitTopLevel(inner)
	args := make([]parsedArg, 0, len(rawParts))
	for _, raw := range rawParts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			return nil, fmt.Errorf("decoder: empty parameter in signature %q", inner)
		}
		a := parsedArg{typeStr: fields[0]}
		rest := fields[1:]
		if len(rest) > 0 && rest[0] == "indexed" {
			a.indexed = true
			rest = rest[1:]
		}
		if len(rest) > 0 {
			a.name = rest[0]
		}
		args = append(args, a)
	}
	return args, nil
}

// splitNameAndParens extracts "Name" and the balanced "(...)" body
// immediately following it.
func splitNameAndParens(sig string) (name, inner, remainder string, err error) {
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return "", "", "", fmt.Errorf("decoder: malformed signature %q: missing '('", sig)
	}
	name = strings.TrimSpace(sig[:open])
	depth := 0
	for i := open; i < len(sig); i++ {
		switch sig[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return name, sig[open+1 : i], sig[i+1:], nil
			}
		}
	}
	return "", "", "", fmt.Errorf("decoder: malformed signature %q: unbalanced parens", sig)
}

func toArguments(args []parsedArg) (eABI.Arguments, error) {
	out := make(eABI.Arguments, len(args))
	for i, a := range args {
		t, err := eABI.NewType(a.typeStr, "", nil)
		if err != nil {
			return nil, fmt.Errorf("decoder: unsupported type %q: %w", a.typeStr, err)
		}
		out[i] = eABI.Argument{Name: a.name, Type: t, Indexed: a.indexed}
	}
	return out, nil
}

// ParseEvent re-parses a full_signature string into a go-ethereum Event,
// given whether the source catalog row marked it anonymous.
func ParseEvent(fullSignature string, anonymous bool) (*eABI.Event, error) {
	name, inner, _, err := splitNameAndParens(fullSignature)
	if err != nil {
		return nil, err
	}
	parsed, err := parseArgList(inner)
	if err != nil {
		return nil, err
	}
	args, err := toArguments(parsed)
	if err != nil {
		return nil, err
	}
	ev := eABI.NewEvent(name, name, anonymous, args)
	return &ev, nil
}

// ParseFunction re-parses a full_signature string (optionally with a
// " returns (...)" clause) into a go-ethereum Method.
func ParseFunction(fullSignature string, stateMutability string) (*eABI.Method, error) {
	name, inner, remainder, err := splitNameAndParens(fullSignature)
	if err != nil {
		return nil, err
	}
	inputs, err := parseArgList(inner)
	if err != nil {
		return nil, err
	}
	inArgs, err := toArguments(inputs)
	if err != nil {
		return nil, err
	}

	var outArgs eABI.Arguments
	remainder = strings.TrimSpace(remainder)
	if strings.HasPrefix(remainder, "returns") {
		_, outInner, _, err := splitNameAndParens(remainder)
		if err != nil {
			return nil, err
		}
		outputs, err := parseArgList(outInner)
		if err != nil {
			return nil, err
		}
		outArgs, err = toArguments(outputs)
		if err != nil {
			return nil, err
		}
	}

	isConst := stateMutability == "view" || stateMutability == "pure"
	isPayable := stateMutability == "payable"
	m := eABI.NewMethod(name, name, eABI.Function, stateMutability, isConst, isPayable, inArgs, outArgs)
	return &m, nil
}
