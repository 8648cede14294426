package analyze

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTagKey matches the runtime mapper's default source-name tag.
const DefaultTagKey = "mapsfrom"

// Config is the optional YAML file read with -config. It declares mappings
// for types that cannot carry directives, e.g. types owned by another team.
//
//	tag: mapsfrom
//	mappings:
//	  - from: Person
//	    to: PersonView
//	    with:
//	      - {from: MiddleName, to: Nickname}
//	    ignore: [Password]
type Config struct {
	TagKey      string          `yaml:"tag"`
	TagMatching *bool           `yaml:"tag_matching"`
	Mappings    []MappingConfig `yaml:"mappings"`
}

// MappingConfig declares one source to destination mapping. The destination
// must be declared in one of the loaded packages; From may be qualified with
// the package name of an import of that package.
type MappingConfig struct {
	From   string       `yaml:"from"`
	To     string       `yaml:"to"`
	With   []WithConfig `yaml:"with"`
	Ignore []string     `yaml:"ignore"`
}

// WithConfig pairs source field From with destination field To explicitly.
type WithConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data and validates required fields.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for i, mc := range cfg.Mappings {
		if mc.From == "" || mc.To == "" {
			return nil, fmt.Errorf("config mapping %d: from and to are required", i)
		}
		for j, w := range mc.With {
			if w.From == "" || w.To == "" {
				return nil, fmt.Errorf("config mapping %d (%s -> %s): with entry %d needs from and to", i, mc.From, mc.To, j)
			}
		}
	}
	return &cfg, nil
}

func (c *Config) tagKey() string {
	if c == nil || c.TagKey == "" {
		return DefaultTagKey
	}
	return c.TagKey
}

func (c *Config) tagMatching() bool {
	if c == nil || c.TagMatching == nil {
		return true
	}
	return *c.TagMatching
}
