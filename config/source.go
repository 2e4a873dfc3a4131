package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Yamashou/tsgenc/typeinfo"
	"github.com/Yamashou/tsgenc/typeinfo/gopkg"
	"github.com/Yamashou/tsgenc/typeinfo/gqlschema"
)

// Source is a loaded type provider together with the types to generate.
type Source struct {
	Provider typeinfo.Provider
	Roots    []*typeinfo.Type
}

type lookuper interface {
	typeinfo.Provider
	Lookup(name string) (*typeinfo.Type, error)
	Roots() []*typeinfo.Type
}

// LoadSource loads the Go packages or the GraphQL schema named by the config
// and resolves the root types.
func (c *Config) LoadSource(ctx context.Context, logger *zap.Logger) (*Source, error) {
	var (
		provider lookuper
		types    []string
	)

	switch {
	case c.Go != nil:
		p, err := gopkg.Load(ctx, c.Go.Dir, c.Go.Packages, gopkg.WithStructTag(c.Go.StructTag), gopkg.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("load go packages failed: %w", err)
		}
		provider, types = p, c.Go.Types
	case c.GraphQL != nil:
		p, err := c.GraphQL.load(ctx)
		if err != nil {
			return nil, err
		}
		provider, types = p, c.GraphQL.Types
	default:
		return nil, errors.New("neither 'go' nor 'graphql' specified. Use go to read Go packages, use graphql to read a GraphQL schema")
	}

	source := &Source{Provider: provider}
	if len(types) == 0 {
		source.Roots = provider.Roots()
	}
	for _, name := range types {
		root, err := provider.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("types: %w", err)
		}
		source.Roots = append(source.Roots, root)
	}
	logger.Debug("loaded source", zap.Int("roots", len(source.Roots)))

	return source, nil
}

func (c *GraphQLConfig) load(ctx context.Context) (*gqlschema.Provider, error) {
	var options []gqlschema.Option
	for name, kind := range c.Scalars {
		t, err := gqlschema.ScalarType(kind)
		if err != nil {
			return nil, fmt.Errorf("scalars: %s: %w", name, err)
		}
		options = append(options, gqlschema.WithScalar(name, t))
	}

	switch {
	case c.SchemaFilename != nil:
		filenames, err := schemaFilenames(c.SchemaFilename)
		if err != nil {
			return nil, err
		}
		schema, err := gqlschema.LoadFiles(filenames)
		if err != nil {
			return nil, err
		}
		return gqlschema.New(schema, options...), nil
	case c.Endpoint != nil:
		httpClient := c.Endpoint.Client
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		schema, err := gqlschema.Introspect(ctx, httpClient, c.Endpoint.URL, c.Endpoint.Headers)
		if err != nil {
			return nil, fmt.Errorf("introspect schema failed: %w", err)
		}
		return gqlschema.New(schema, options...), nil
	}

	return nil, errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
}

// schemaFilenames expands glob patterns. A "**" segment matches any number of
// directories.
func schemaFilenames(patterns StringList) ([]string, error) {
	var filenames []string
	for _, pattern := range patterns {
		var matches []string
		if strings.Contains(pattern, "**") {
			parts := strings.SplitN(pattern, "**", 2)
			rest := strings.TrimPrefix(strings.TrimPrefix(parts[1], `\`), `/`)
			if err := filepath.Walk(parts[0], func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if ok, _ := filepath.Match(rest, info.Name()); ok {
					matches = append(matches, path)
				}
				return nil
			}); err != nil {
				return nil, fmt.Errorf("failed to walk schema at root %s: %w", parts[0], err)
			}
		} else {
			var err error
			matches, err = filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to glob schema filename %s: %w", pattern, err)
			}
		}

		for _, m := range matches {
			if !slices.Contains(filenames, m) {
				filenames = append(filenames, m)
			}
		}
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no schema files match %v", []string(patterns))
	}
	slices.Sort(filenames)

	return filenames, nil
}
