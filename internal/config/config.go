// Package config holds the single process-wide ConfigSnapshot described in
// spec.md §4.1: a read/write-protected cell offering atomic clone-on-read
// and dotted-path atomic writes, optionally bulk-loaded from TOML.
package config

import (
	"strconv"
	"strings"
	"sync"
)

// GlaciersConfig is the top-level "glaciers" config group (spec.md §3).
type GlaciersConfig struct {
	PreferredDataframeType  string // "polars" | "pandas"
	UnnestingHexStringEncoding bool
}

// MainConfig is the "main" config group.
type MainConfig struct {
	EventsAbiDbFilePath    string
	FunctionsAbiDbFilePath string
	AbiFolderPath          string
	RawLogsFolderPath      string
	RawTracesFolderPath    string
}

// AbiReaderConfig is the "abi_reader" config group.
type AbiReaderConfig struct {
	AbiReadMode           string // "events" | "functions" | "both"
	UniqueKey             []string
	OutputHexStringEncoding bool
}

// DecoderConfig is the "decoder" config group.
type DecoderConfig struct {
	Algorithm                  string // "hash" | "hash_address"
	OutputHexStringEncoding    bool
	OutputFileFormat           string // "parquet" | "csv"
	MaxConcurrentFilesDecoding int
	MaxChunkThreadsPerFile     int
	DecodedChunkSize           int
}

// LogSchemaConfig is "log_decoder.log_schema".
type LogSchemaConfig struct {
	Alias    LogAlias
	Datatype LogDatatype
}

type LogAlias struct {
	Topic0, Topic1, Topic2, Topic3, Data, Address string
}

type LogDatatype struct {
	Topic0, Topic1, Topic2, Topic3, Data, Address string // "binary" | "hex_string"
}

func (a LogAlias) AsArray() []string {
	return []string{a.Topic0, a.Topic1, a.Topic2, a.Topic3, a.Data}
}

// TraceSchemaConfig is "trace_decoder.trace_schema".
type TraceSchemaConfig struct {
	Alias    TraceAlias
	Datatype TraceDatatype
}

type TraceAlias struct {
	Selector, ActionInput, ResultOutput, ActionTo string
}

type TraceDatatype struct {
	Selector, ActionInput, ResultOutput, ActionTo string
}

type LogDecoderConfig struct {
	LogSchema LogSchemaConfig
}

type TraceDecoderConfig struct {
	TraceSchema TraceSchemaConfig
}

// ConfigSnapshot is the immutable tree returned by Get; mutating the
// returned value never affects the shared cell.
type ConfigSnapshot struct {
	Glaciers     GlaciersConfig
	Main         MainConfig
	AbiReader    AbiReaderConfig
	Decoder      DecoderConfig
	LogDecoder   LogDecoderConfig
	TraceDecoder TraceDecoderConfig
}

func defaults() ConfigSnapshot {
	return ConfigSnapshot{
		Glaciers: GlaciersConfig{
			PreferredDataframeType:     "polars",
			UnnestingHexStringEncoding: false,
		},
		Main: MainConfig{
			EventsAbiDbFilePath:    "ABIs/ethereum__events__abis.parquet",
			FunctionsAbiDbFilePath: "ABIs/ethereum__functions__abis.parquet",
			AbiFolderPath:          "ABIs/abi_database",
			RawLogsFolderPath:      "data/logs",
			RawTracesFolderPath:    "data/traces",
		},
		AbiReader: AbiReaderConfig{
			AbiReadMode:             "events",
			UniqueKey:               []string{"hash", "full_signature", "address"},
			OutputHexStringEncoding: false,
		},
		Decoder: DecoderConfig{
			Algorithm:                  "hash",
			OutputHexStringEncoding:    false,
			OutputFileFormat:           "parquet",
			MaxConcurrentFilesDecoding: 16,
			MaxChunkThreadsPerFile:     16,
			DecodedChunkSize:           500_000,
		},
		LogDecoder: LogDecoderConfig{
			LogSchema: LogSchemaConfig{
				Alias: LogAlias{
					Topic0: "topic0", Topic1: "topic1", Topic2: "topic2", Topic3: "topic3",
					Data: "data", Address: "address",
				},
				Datatype: LogDatatype{
					Topic0: "binary", Topic1: "binary", Topic2: "binary", Topic3: "binary",
					Data: "binary", Address: "binary",
				},
			},
		},
		TraceDecoder: TraceDecoderConfig{
			TraceSchema: TraceSchemaConfig{
				Alias: TraceAlias{
					Selector: "selector", ActionInput: "action_input",
					ResultOutput: "result_output", ActionTo: "action_to",
				},
				Datatype: TraceDatatype{
					Selector: "binary", ActionInput: "binary",
					ResultOutput: "binary", ActionTo: "binary",
				},
			},
		},
	}
}

// cell is the package-wide reader/writer-protected configuration store.
type cell struct {
	mu   sync.RWMutex
	snap ConfigSnapshot
}

var global = &cell{snap: defaults()}

// Get returns a value copy of the current snapshot; safe for concurrent callers.
func Get() ConfigSnapshot {
	global.mu.RLock()
	defer global.mu.RUnlock()
	snap := global.snap
	snap.AbiReader.UniqueKey = append([]string(nil), global.snap.AbiReader.UniqueKey...)
	return snap
}

// Reset restores built-in defaults. Used by tests.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.snap = defaults()
}

// ErrorKind enumerates ConfigError subvariants (spec.md §7).
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindParse
	KindInvalidTomlFormat
	KindUnsupportedValueType
	KindInvalidFieldOrValue
)

// ConfigError is the error family surfaced by the config component.
type ConfigError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case KindIO:
		return "config: io error: " + e.Err.Error()
	case KindParse:
		return "config: parse error: " + e.Err.Error()
	case KindInvalidTomlFormat:
		return "config: invalid toml format: " + e.Err.Error()
	case KindUnsupportedValueType:
		return "config: unsupported value type at " + e.Path
	case KindInvalidFieldOrValue:
		return "config: invalid field or value at " + e.Path
	default:
		return "config: error"
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalidField(path string) error {
	return &ConfigError{Kind: KindInvalidFieldOrValue, Path: path}
}

// Set applies one dotted-path edit, e.g. "decoder.output_file_format".
// value must be a string, int, bool, or []string.
func Set(path string, value interface{}) error {
	global.mu.Lock()
	defer global.mu.Unlock()
	return setLocked(&global.snap, path, value)
}

func setLocked(s *ConfigSnapshot, path string, value interface{}) error {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "glaciers":
		return setGlaciers(&s.Glaciers, parts[1:], path, value)
	case "main":
		return setMain(&s.Main, parts[1:], path, value)
	case "abi_reader":
		return setAbiReader(&s.AbiReader, parts[1:], path, value)
	case "decoder":
		return setDecoder(&s.Decoder, parts[1:], path, value)
	case "log_decoder":
		return setLogDecoder(&s.LogDecoder, parts[1:], path, value)
	case "trace_decoder":
		return setTraceDecoder(&s.TraceDecoder, parts[1:], path, value)
	default:
		return invalidField(path)
	}
}

func asString(path string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalidField(path)
	}
	return s, nil
}

func asBool(path string, v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int:
		if b == 0 {
			return false, nil
		} else if b == 1 {
			return true, nil
		}
	case int64:
		if b == 0 {
			return false, nil
		} else if b == 1 {
			return true, nil
		}
	}
	return false, invalidField(path)
}

func asPositiveInt(path string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n, nil
		}
	case int64:
		if n > 0 {
			return int(n), nil
		}
	case string:
		if parsed, err := strconv.Atoi(n); err == nil && parsed > 0 {
			return parsed, nil
		}
	}
	return 0, invalidField(path)
}

func asStringList(path string, v interface{}) ([]string, error) {
	switch l := v.(type) {
	case []string:
		return l, nil
	case string:
		return []string{l}, nil
	default:
		return nil, invalidField(path)
	}
}

func oneOfCI(path, v string, options ...string) (string, error) {
	lv := strings.ToLower(v)
	for _, o := range options {
		if lv == o {
			return o, nil
		}
	}
	return "", invalidField(path)
}

func setGlaciers(g *GlaciersConfig, rest []string, path string, value interface{}) error {
	if len(rest) != 1 {
		return invalidField(path)
	}
	switch rest[0] {
	case "preferred_dataframe_type":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		v, err := oneOfCI(path, s, "polars", "pandas")
		if err != nil {
			return err
		}
		g.PreferredDataframeType = v
	case "unnesting_hex_string_encoding":
		b, err := asBool(path, value)
		if err != nil {
			return err
		}
		g.UnnestingHexStringEncoding = b
	default:
		return invalidField(path)
	}
	return nil
}

func setMain(m *MainConfig, rest []string, path string, value interface{}) error {
	if len(rest) != 1 {
		return invalidField(path)
	}
	s, err := asString(path, value)
	if err != nil {
		return err
	}
	switch rest[0] {
	case "events_abi_db_file_path":
		m.EventsAbiDbFilePath = s
	case "functions_abi_db_file_path":
		m.FunctionsAbiDbFilePath = s
	case "abi_folder_path":
		m.AbiFolderPath = s
	case "raw_logs_folder_path":
		m.RawLogsFolderPath = s
	case "raw_traces_folder_path":
		m.RawTracesFolderPath = s
	default:
		return invalidField(path)
	}
	return nil
}

func setAbiReader(a *AbiReaderConfig, rest []string, path string, value interface{}) error {
	if len(rest) != 1 {
		return invalidField(path)
	}
	switch rest[0] {
	case "abi_read_mode":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		v, err := oneOfCI(path, s, "events", "functions", "both")
		if err != nil {
			return err
		}
		a.AbiReadMode = v
	case "unique_key":
		l, err := asStringList(path, value)
		if err != nil {
			return err
		}
		for _, k := range l {
			if _, err := oneOfCI(path, k, "hash", "full_signature", "address"); err != nil {
				return err
			}
		}
		a.UniqueKey = l
	case "output_hex_string_encoding":
		b, err := asBool(path, value)
		if err != nil {
			return err
		}
		a.OutputHexStringEncoding = b
	default:
		return invalidField(path)
	}
	return nil
}

func setDecoder(d *DecoderConfig, rest []string, path string, value interface{}) error {
	if len(rest) != 1 {
		return invalidField(path)
	}
	switch rest[0] {
	case "algorithm":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		v, err := oneOfCI(path, s, "hash", "hash_address")
		if err != nil {
			return err
		}
		d.Algorithm = v
	case "output_hex_string_encoding":
		b, err := asBool(path, value)
		if err != nil {
			return err
		}
		d.OutputHexStringEncoding = b
	case "output_file_format":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		v, err := oneOfCI(path, s, "csv", "parquet")
		if err != nil {
			return err
		}
		d.OutputFileFormat = v
	case "max_concurrent_files_decoding":
		n, err := asPositiveInt(path, value)
		if err != nil {
			return err
		}
		d.MaxConcurrentFilesDecoding = n
	case "max_chunk_threads_per_file":
		n, err := asPositiveInt(path, value)
		if err != nil {
			return err
		}
		d.MaxChunkThreadsPerFile = n
	case "decoded_chunk_size":
		n, err := asPositiveInt(path, value)
		if err != nil {
			return err
		}
		d.DecodedChunkSize = n
	default:
		return invalidField(path)
	}
	return nil
}

func setLogDecoder(l *LogDecoderConfig, rest []string, path string, value interface{}) error {
	if len(rest) < 2 || rest[0] != "log_schema" {
		return invalidField(path)
	}
	switch rest[1] {
	case "log_alias":
		if len(rest) != 3 {
			return invalidField(path)
		}
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		switch rest[2] {
		case "topic0":
			l.LogSchema.Alias.Topic0 = s
		case "topic1":
			l.LogSchema.Alias.Topic1 = s
		case "topic2":
			l.LogSchema.Alias.Topic2 = s
		case "topic3":
			l.LogSchema.Alias.Topic3 = s
		case "data":
			l.LogSchema.Alias.Data = s
		case "address":
			l.LogSchema.Alias.Address = s
		default:
			return invalidField(path)
		}
	case "log_datatype":
		if len(rest) != 3 {
			return invalidField(path)
		}
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		v, err := oneOfCI(path, s, "binary", "hex_string")
		if err != nil {
			return err
		}
		switch rest[2] {
		case "topic0":
			l.LogSchema.Datatype.Topic0 = v
		case "topic1":
			l.LogSchema.Datatype.Topic1 = v
		case "topic2":
			l.LogSchema.Datatype.Topic2 = v
		case "topic3":
			l.LogSchema.Datatype.Topic3 = v
		case "data":
			l.LogSchema.Datatype.Data = v
		case "address":
			l.LogSchema.Datatype.Address = v
		default:
			return invalidField(path)
		}
	default:
		return invalidField(path)
	}
	return nil
}

func setTraceDecoder(tr *TraceDecoderConfig, rest []string, path string, value interface{}) error {
	if len(rest) < 2 || rest[0] != "trace_schema" {
		return invalidField(path)
	}
	switch rest[1] {
	case "trace_alias":
		if len(rest) != 3 {
			return invalidField(path)
		}
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		switch rest[2] {
		case "selector":
			tr.TraceSchema.Alias.Selector = s
		case "action_input":
			tr.TraceSchema.Alias.ActionInput = s
		case "result_output":
			tr.TraceSchema.Alias.ResultOutput = s
		case "action_to":
			tr.TraceSchema.Alias.ActionTo = s
		default:
			return invalidField(path)
		}
	case "trace_datatype":
		if len(rest) != 3 {
			return invalidField(path)
		}
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		v, err := oneOfCI(path, s, "binary", "hex_string")
		if err != nil {
			return err
		}
		switch rest[2] {
		case "selector":
			tr.TraceSchema.Datatype.Selector = v
		case "action_input":
			tr.TraceSchema.Datatype.ActionInput = v
		case "result_output":
			tr.TraceSchema.Datatype.ResultOutput = v
		case "action_to":
			tr.TraceSchema.Datatype.ActionTo = v
		default:
			return invalidField(path)
		}
	default:
		return invalidField(path)
	}
	return nil
}

// ParseCLIValue implements spec.md §6 "Value parsing for -c": lowercase
// string matched in order true/false -> bool, parseable unsigned decimal ->
// number, contains a comma -> list (brackets stripped, elements trimmed),
// else -> string.
func ParseCLIValue(raw string) interface{} {
	lower := strings.ToLower(raw)
	if lower == "true" {
		return true
	}
	if lower == "false" {
		return false
	}
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return int64(n)
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.Trim(p, "[] \t")
			out = append(out, p)
		}
		return out
	}
	return raw
}
