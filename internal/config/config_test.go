package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	Reset()
	snap := Get()
	if snap.Decoder.Algorithm != "hash" {
		t.Fatalf("expected default algorithm hash, got %q", snap.Decoder.Algorithm)
	}
	if snap.Decoder.MaxConcurrentFilesDecoding != 16 {
		t.Fatalf("expected default max_concurrent_files_decoding 16, got %d", snap.Decoder.MaxConcurrentFilesDecoding)
	}
	if snap.Decoder.DecodedChunkSize != 500_000 {
		t.Fatalf("expected default decoded_chunk_size 500000, got %d", snap.Decoder.DecodedChunkSize)
	}
}

func TestSetDottedPath(t *testing.T) {
	Reset()
	if err := Set("decoder.output_file_format", "CSV"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Get().Decoder.OutputFileFormat != "csv" {
		t.Fatalf("expected lowercased csv, got %q", Get().Decoder.OutputFileFormat)
	}
}

func TestSetInvalidFieldFails(t *testing.T) {
	Reset()
	err := Set("decoder.output_file_format", "xml")
	if err == nil {
		t.Fatal("expected error for unsupported file format")
	}
	var cerr *ConfigError
	if !asConfigError(err, &cerr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cerr.Kind != KindInvalidFieldOrValue {
		t.Fatalf("expected InvalidFieldOrValue, got %v", cerr.Kind)
	}
}

func TestSetUniqueKeySingleString(t *testing.T) {
	Reset()
	if err := Set("abi_reader.unique_key", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := Get().AbiReader.UniqueKey
	if len(got) != 1 || got[0] != "hash" {
		t.Fatalf("expected [hash], got %v", got)
	}
}

func TestSetBooleanAcceptsIntegers(t *testing.T) {
	Reset()
	if err := Set("decoder.output_hex_string_encoding", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Get().Decoder.OutputHexStringEncoding {
		t.Fatal("expected true")
	}
}

func TestSetFromTOMLOverridePrecedence(t *testing.T) {
	Reset()
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "glaciers.toml")
	content := "[decoder]\noutput_file_format = \"csv\"\n"
	if err := os.WriteFile(tomlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := SetFromTOML(tomlPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Get().Decoder.OutputFileFormat != "csv" {
		t.Fatalf("expected csv from toml, got %q", Get().Decoder.OutputFileFormat)
	}
	// CLI override applied after TOML wins, per spec.md §8 scenario 6.
	if err := Set("decoder.output_file_format", "parquet"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Get().Decoder.OutputFileFormat != "parquet" {
		t.Fatalf("expected cli override to win, got %q", Get().Decoder.OutputFileFormat)
	}
}

func TestParseCLIValue(t *testing.T) {
	cases := []struct {
		in   string
		want interface{}
	}{
		{"true", true},
		{"FALSE", false},
		{"42", int64(42)},
		{"a,b,c", []string{"a", "b", "c"}},
		{"hello", "hello"},
	}
	for _, c := range cases {
		got := ParseCLIValue(c.in)
		switch want := c.want.(type) {
		case []string:
			gl, ok := got.([]string)
			if !ok || len(gl) != len(want) {
				t.Fatalf("parsing %q: expected %v, got %v", c.in, want, got)
			}
			for i := range want {
				if gl[i] != want[i] {
					t.Fatalf("parsing %q: expected %v, got %v", c.in, want, got)
				}
			}
		default:
			if got != c.want {
				t.Fatalf("parsing %q: expected %v (%T), got %v (%T)", c.in, c.want, c.want, got, got)
			}
		}
	}
}

func asConfigError(err error, target **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
