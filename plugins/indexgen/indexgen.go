// Package indexgen writes a barrel index.ts that re-exports every unit.
package indexgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/config"
)

// Filename is the name of the barrel file in the output directory.
const Filename = "index.ts"

type Plugin struct {
	output config.OutputConfig
	result *codegen.Result
	logger *zap.Logger
}

func New(output config.OutputConfig, result *codegen.Result, logger *zap.Logger) *Plugin {
	return &Plugin{output: output, result: result, logger: logger}
}

func (p *Plugin) Name() string {
	return "indexgen"
}

func (p *Plugin) Generate(_ context.Context) error {
	path := filepath.Join(p.output.Dir, Filename)
	if err := os.WriteFile(path, []byte(Render(p.output, p.result)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	p.logger.Debug("wrote index", zap.String("path", path))

	return nil
}

// Render returns the index content. Export lines are sorted by declaration
// name so that the file does not change with emission order.
func Render(output config.OutputConfig, result *codegen.Result) string {
	var sb strings.Builder
	sb.WriteString("/* eslint-disable */\n")
	sb.WriteString("// Code generated by tsgenc, DO NOT EDIT.\n\n")

	if output.SingleFile != "" {
		fmt.Fprintf(&sb, "export * from './%s';\n", module(output.SingleFile))
		return sb.String()
	}

	lines := make([]string, 0, len(result.Units))
	for _, u := range result.Units {
		lines = append(lines, fmt.Sprintf("export { %s } from './%s';\n", u.DeclName, module(u.Name)))
	}
	slices.Sort(lines)
	for _, line := range lines {
		sb.WriteString(line)
	}

	return sb.String()
}

// module strips the extension that TypeScript import specifiers omit.
func module(filename string) string {
	return strings.TrimSuffix(filename, ".ts")
}
