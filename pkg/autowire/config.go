package autowire

import (
	"fmt"
	"os"
	"reflect"

	"github.com/goccy/go-yaml"

	"github.com/toyz/autowire/internal/errors"
	"github.com/toyz/autowire/internal/typeref"
)

// Config is the file form of the injector options:
//
//	strict: false
//	base: example.com/app/web.Presenter
//	ignore:
//	  - example.com/app/web.Session
type Config struct {
	Strict *bool    `yaml:"strict"`
	Base   string   `yaml:"base,omitempty"`
	Ignore []string `yaml:"ignore,omitempty"`
}

// ParseConfig decodes a YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.WrapConfigurationError("autowire", "parse", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "read", err)
	}
	return ParseConfig(data)
}

// Options converts the configuration to injector options. Type names are
// looked up through resolver.
func (c *Config) Options(resolver TypeResolver) ([]Option, error) {
	if c == nil {
		return nil, nil
	}

	var opts []Option
	if c.Strict != nil {
		opts = append(opts, WithStrict(*c.Strict))
	}

	if c.Base != "" {
		base, err := c.lookup(resolver, "base", c.Base)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBaseType(base))
	}

	if len(c.Ignore) > 0 {
		ignored := make([]reflect.Type, 0, len(c.Ignore))
		for _, name := range c.Ignore {
			t, err := c.lookup(resolver, "ignore", name)
			if err != nil {
				return nil, err
			}
			ignored = append(ignored, t)
		}
		opts = append(opts, WithIgnoreTypes(ignored...))
	}
	return opts, nil
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) lookup(resolver TypeResolver, key, name string) (reflect.Type, error) {
	if resolver == nil {
		return nil, errors.ConfigurationError("autowire",
			fmt.Sprintf("%s: cannot resolve %q without a type resolver", key, name))
	}
	t, ok := resolver.ResolveTypeName(typeref.Normalize(name))
	if !ok {
		cerr := errors.ConfigurationError("autowire", fmt.Sprintf("%s: unknown type %q", key, name))
		cerr.WithSuggestion("declare the type with container.RegisterType")
		return nil, cerr
	}
	return t, nil
}
