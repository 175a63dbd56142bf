package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a profile configuration file. JSON is the
// native format; files ending in .yaml or .yml are decoded as YAML.
// Any read, decode, or validation failure is fatal to startup.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse profile config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse profile config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeOrderedObject walks a JSON object's keys in file order, handing
// each key and its raw value to visit. encoding/json's map decoding
// would lose the order rule tie-breaking depends on.
func decodeOrderedObject(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func (c *Config) UnmarshalJSON(data []byte) error {
	*c = nil
	return decodeOrderedObject(data, func(prefix string, raw json.RawMessage) error {
		var rules RuleSet
		if err := json.Unmarshal(raw, &rules); err != nil {
			return fmt.Errorf("rules for prefix %q: %w", prefix, err)
		}
		*c = append(*c, Group{Prefix: prefix, Rules: rules})
		return nil
	})
}

func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	*rs = nil
	return decodeOrderedObject(data, func(name string, raw json.RawMessage) error {
		var rule Rule
		if err := json.Unmarshal(raw, &rule); err != nil {
			return fmt.Errorf("rule %q: %w", name, err)
		}
		*rs = append(*rs, NamedRule{Name: name, Rule: rule})
		return nil
	})
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping of device prefixes, got %s", yamlKind(value.Kind))
	}
	*c = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		prefix := value.Content[i].Value
		var rules RuleSet
		if err := value.Content[i+1].Decode(&rules); err != nil {
			return fmt.Errorf("rules for prefix %q: %w", prefix, err)
		}
		*c = append(*c, Group{Prefix: prefix, Rules: rules})
	}
	return nil
}

func (rs *RuleSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping of rule names, got %s", yamlKind(value.Kind))
	}
	*rs = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var rule Rule
		if err := value.Content[i+1].Decode(&rule); err != nil {
			return fmt.Errorf("rule %q: %w", name, err)
		}
		*rs = append(*rs, NamedRule{Name: name, Rule: rule})
	}
	return nil
}

func yamlKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
