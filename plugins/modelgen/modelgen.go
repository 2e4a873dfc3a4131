// Package modelgen writes the generated units to the output directory.
package modelgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/config"
	"github.com/Yamashou/tsgenc/plugins/manifestgen"
)

type Plugin struct {
	output config.OutputConfig
	result *codegen.Result
	logger *zap.Logger
}

func New(output config.OutputConfig, result *codegen.Result, logger *zap.Logger) *Plugin {
	return &Plugin{output: output, result: result, logger: logger}
}

func (p *Plugin) Name() string {
	return "modelgen"
}

// Generate writes one file per unit, or every unit into output.single_file.
// Units listed in the previous manifest but no longer generated are removed.
func (p *Plugin) Generate(ctx context.Context) error {
	if err := os.MkdirAll(p.output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.output.Dir, err)
	}

	if p.output.SingleFile != "" {
		return p.write(filepath.Join(p.output.Dir, p.output.SingleFile), p.result.SingleFile())
	}

	if err := p.prune(); err != nil {
		return err
	}

	if !p.output.Concurrent {
		for _, u := range p.result.Units {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.write(filepath.Join(p.output.Dir, u.Name), u.Content); err != nil {
				return err
			}
		}
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, u := range p.result.Units {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.write(filepath.Join(p.output.Dir, u.Name), u.Content)
		})
	}

	return eg.Wait()
}

func (p *Plugin) write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	p.logger.Debug("wrote unit", zap.String("path", path))

	return nil
}

func (p *Plugin) prune() error {
	if p.output.Manifest == "" {
		return nil
	}

	previous, err := manifestgen.Read(p.output.ManifestPath())
	if err != nil {
		return err
	}
	if previous == nil {
		return nil
	}

	current := make(map[string]bool, len(p.result.Units))
	for _, u := range p.result.Units {
		current[u.Name] = true
	}
	for _, entry := range previous.Units {
		if current[entry.Name] || entry.Name != filepath.Base(entry.Name) {
			continue
		}
		path := filepath.Join(p.output.Dir, entry.Name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale unit %s: %w", path, err)
		}
		p.logger.Info("removed stale unit", zap.String("path", path))
	}

	return nil
}
