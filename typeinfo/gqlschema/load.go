package gqlschema

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/Yamashou/tsgenc/client"
	"github.com/Yamashou/tsgenc/introspection"
)

// LoadFiles parses and validates the SDL files.
func LoadFiles(filenames []string) (*ast.Schema, error) {
	sources := []*ast.Source{{Name: "tsgenc_directives.graphql", Input: Directives, BuiltIn: true}}
	for _, filename := range filenames {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open schema: %w", err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(b)})
	}

	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("load local schema failed: %w", err)
	}

	return schema, nil
}

// Introspect loads the schema of a remote endpoint through the introspection
// query.
func Introspect(ctx context.Context, httpClient *http.Client, endpoint string, header http.Header) (*ast.Schema, error) {
	c := client.NewClient(endpoint, client.WithHTTPClient(httpClient), client.WithHTTPHeader(header))

	var res introspection.Query
	if err := c.Post(ctx, "Query", introspection.Introspection, nil, &res); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}

	var sdl strings.Builder
	formatter.NewFormatter(&sdl).FormatSchemaDocument(introspection.SchemaDocument(&res))

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: endpoint, Input: sdl.String()})
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	return schema, nil
}
