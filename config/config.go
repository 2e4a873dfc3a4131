package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/naming"
	"github.com/Yamashou/tsgenc/typeinfo/gqlschema"
)

// DefaultFilenames are searched, in order, by FindConfigFile.
var DefaultFilenames = []string{".tsgenc.yml", "tsgenc.yml", ".tsgenc.yaml", "tsgenc.yaml"}

// Config represents the config file.
type Config struct {
	Go                 *GoConfig      `yaml:"go,omitempty"`
	GraphQL            *GraphQLConfig `yaml:"graphql,omitempty"`
	Naming             NamingConfig   `yaml:"naming,omitempty"`
	Output             OutputConfig   `yaml:"output"`
	Cycles             string         `yaml:"cycles,omitempty"`
	FollowElementTypes bool           `yaml:"follow_element_types,omitempty"`
	Strict             bool           `yaml:"strict,omitempty"`
}

// GoConfig reads types from Go packages.
type GoConfig struct {
	Dir       string   `yaml:"dir,omitempty"`
	Packages  []string `yaml:"packages"`
	Types     []string `yaml:"types,omitempty"`
	StructTag string   `yaml:"struct_tag,omitempty"`
}

// GraphQLConfig reads types from a GraphQL schema.
type GraphQLConfig struct {
	SchemaFilename StringList        `yaml:"schema,omitempty"`
	Endpoint       *EndPointConfig   `yaml:"endpoint,omitempty"`
	Scalars        map[string]string `yaml:"scalars,omitempty"`
	Types          []string          `yaml:"types,omitempty"`
}

// EndPointConfig are the allowed options for the 'endpoint' config.
type EndPointConfig struct {
	Headers http.Header  `yaml:"headers,omitempty"`
	URL     string       `yaml:"url"`
	Client  *http.Client `yaml:"-"`
}

type NamingConfig struct {
	Type       string `yaml:"type,omitempty"`
	Field      string `yaml:"field,omitempty"`
	Unit       string `yaml:"unit,omitempty"`
	UnitSuffix string `yaml:"unit_suffix,omitempty"`
}

type OutputConfig struct {
	Dir        string `yaml:"dir"`
	SingleFile string `yaml:"single_file,omitempty"`
	Index      bool   `yaml:"index,omitempty"`
	Manifest   string `yaml:"manifest,omitempty"`
	Concurrent bool   `yaml:"concurrent,omitempty"`
}

// ManifestPath resolves the manifest file relative to the output directory.
func (o OutputConfig) ManifestPath() string {
	if o.Manifest == "" || filepath.IsAbs(o.Manifest) {
		return o.Manifest
	}
	return filepath.Join(o.Dir, o.Manifest)
}

// StringList accepts either a single string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = StringList{single}
		return nil
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*s = list

	return nil
}

// FindConfigFile returns the first of filenames that exists in dir.
func FindConfigFile(dir string, filenames []string) (string, error) {
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("none of %v found in %s", filenames, dir)
}

// LoadConfig loads and parses the tsgenc config.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if c.Go != nil && c.GraphQL != nil {
		return nil, errors.New("'go' and 'graphql' both specified. Use go to read Go packages, use graphql to read a GraphQL schema")
	}

	if c.Go == nil && c.GraphQL == nil {
		return nil, errors.New("neither 'go' nor 'graphql' specified. Use go to read Go packages, use graphql to read a GraphQL schema")
	}

	if c.Go != nil && len(c.Go.Packages) == 0 {
		return nil, errors.New("go: 'packages' must not be empty")
	}

	if c.GraphQL != nil {
		if err := c.GraphQL.check(); err != nil {
			return nil, fmt.Errorf("graphql: %w", err)
		}
	}

	if c.Output.Dir == "" {
		return nil, errors.New("output: 'dir' must be specified")
	}

	if _, err := c.GeneratorOptions(zap.NewNop()); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *GraphQLConfig) check() error {
	if c.SchemaFilename != nil && c.Endpoint != nil {
		return errors.New("'schema' and 'endpoint' both specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if c.SchemaFilename == nil && c.Endpoint == nil {
		return errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if c.Endpoint != nil && c.Endpoint.URL == "" {
		return errors.New("endpoint: 'url' must be specified")
	}

	for name, kind := range c.Scalars {
		if _, err := gqlschema.ScalarType(kind); err != nil {
			return fmt.Errorf("scalars: %s: %w", name, err)
		}
	}

	return nil
}

// GeneratorOptions converts the naming, cycle and traversal settings into
// codegen options.
func (c *Config) GeneratorOptions(logger *zap.Logger) ([]codegen.Option, error) {
	typeNamer, err := naming.Lookup(c.Naming.Type, naming.PascalCase)
	if err != nil {
		return nil, fmt.Errorf("naming.type: %w", err)
	}
	fieldNamer, err := naming.Lookup(c.Naming.Field, naming.CamelCase)
	if err != nil {
		return nil, fmt.Errorf("naming.field: %w", err)
	}
	unitNamer, err := naming.Lookup(c.Naming.Unit, naming.PascalCase)
	if err != nil {
		return nil, fmt.Errorf("naming.unit: %w", err)
	}
	cycles, err := codegen.ParseCyclePolicy(c.Cycles)
	if err != nil {
		return nil, fmt.Errorf("cycles: %w", err)
	}

	return []codegen.Option{
		codegen.WithTypeNamer(typeNamer),
		codegen.WithFieldNamer(fieldNamer),
		codegen.WithUnitNamer(unitNamer),
		codegen.WithUnitSuffix(c.UnitSuffix()),
		codegen.WithCyclePolicy(cycles),
		codegen.WithElementTypes(c.FollowElementTypes),
		codegen.WithLogger(logger),
	}, nil
}

// UnitSuffix returns the configured unit suffix or the default one.
func (c *Config) UnitSuffix() string {
	if c.Naming.UnitSuffix == "" {
		return codegen.DefaultUnitSuffix
	}
	return c.Naming.UnitSuffix
}
