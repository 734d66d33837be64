package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// SetFromTOML loads the TOML document at path and flattens nested tables
// depth-first into dotted keys, applying each leaf via Set, per spec.md
// §4.1. Supported leaf types: string, integer, boolean, array-of-string.
func SetFromTOML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Kind: KindIO, Err: err}
	}
	var doc map[string]interface{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return &ConfigError{Kind: KindInvalidTomlFormat, Err: err}
	}
	leaves, err := flatten("", doc)
	if err != nil {
		return err
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	for _, leaf := range leaves {
		if err := setLocked(&global.snap, leaf.path, leaf.value); err != nil {
			return err
		}
	}
	return nil
}

type leaf struct {
	path  string
	value interface{}
}

func flatten(prefix string, m map[string]interface{}) ([]leaf, error) {
	var out []leaf
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			sub, err := flatten(path, val)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case string:
			out = append(out, leaf{path, val})
		case bool:
			out = append(out, leaf{path, val})
		case int64:
			out = append(out, leaf{path, val})
		case int:
			out = append(out, leaf{path, int64(val)})
		case uint64:
			out = append(out, leaf{path, int64(val)})
		case []interface{}:
			strs := make([]string, 0, len(val))
			for _, e := range val {
				s, ok := e.(string)
				if !ok {
					return nil, &ConfigError{Kind: KindUnsupportedValueType, Path: path}
				}
				strs = append(strs, s)
			}
			out = append(out, leaf{path, strs})
		default:
			return nil, &ConfigError{Kind: KindUnsupportedValueType, Path: path}
		}
	}
	return out, nil
}
