package plugins

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/config"
	"github.com/Yamashou/tsgenc/plugins/indexgen"
	"github.com/Yamashou/tsgenc/plugins/manifestgen"
	"github.com/Yamashou/tsgenc/plugins/modelgen"
)

// GenerateCode writes the units of result and the files derived from them.
func GenerateCode(ctx context.Context, cfg *config.Config, result *codegen.Result, logger *zap.Logger) error {
	// modelgen
	modelGen := modelgen.New(cfg.Output, result, logger)
	if err := modelGen.Generate(ctx); err != nil {
		return fmt.Errorf("%s failed: %w", modelGen.Name(), err)
	}

	// indexgen
	if cfg.Output.Index {
		indexGen := indexgen.New(cfg.Output, result, logger)
		if err := indexGen.Generate(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", indexGen.Name(), err)
		}
	}

	// manifestgen
	if cfg.Output.Manifest != "" {
		manifestGen := manifestgen.New(cfg.Output.ManifestPath(), result, logger)
		if err := manifestGen.Generate(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", manifestGen.Name(), err)
		}
	}

	logger.Info("generated units", zap.Int("units", len(result.Units)), zap.String("dir", cfg.Output.Dir))

	return nil
}
