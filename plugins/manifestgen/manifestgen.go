// Package manifestgen writes a JSON manifest of the generated units.
//
// The manifest lets downstream tooling detect changed declarations by hash and
// lets the next run prune units that are no longer generated.
package manifestgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"go.uber.org/zap"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/typeinfo"
)

// Manifest is the content of the manifest file.
type Manifest struct {
	Units       []Entry      `json:"units"`
	ForwardRefs []ForwardRef `json:"forwardRefs,omitempty"`
}

// Entry describes one written unit.
type Entry struct {
	Name        string `json:"name"`
	Declaration string `json:"declaration"`
	Type        string `json:"type"`
	Kind        string `json:"kind"`
	SHA256      string `json:"sha256"`
}

type ForwardRef struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Field string `json:"field"`
}

// Build creates the manifest of result. Entries keep the emission order.
func Build(result *codegen.Result) *Manifest {
	m := &Manifest{Units: make([]Entry, 0, len(result.Units))}
	for _, u := range result.Units {
		sum := sha256.Sum256([]byte(u.Content))
		m.Units = append(m.Units, Entry{
			Name:        u.Name,
			Declaration: u.DeclName,
			Type:        u.Type.String(),
			Kind:        kind(u.Type),
			SHA256:      hex.EncodeToString(sum[:]),
		})
	}
	for _, ref := range result.ForwardRefs {
		m.ForwardRefs = append(m.ForwardRefs, ForwardRef{From: ref.From.String(), To: ref.To.String(), Field: ref.Field})
	}

	return m
}

func kind(t *typeinfo.Type) string {
	if t.Kind == typeinfo.KindEnum {
		return "enum"
	}
	return "class"
}

// Read loads a manifest written by a previous run. A missing file is not an
// error and yields nil.
func Read(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unable to parse manifest %s: %w", path, err)
	}

	return &m, nil
}

// Plugin writes the manifest file.
type Plugin struct {
	path   string
	result *codegen.Result
	logger *zap.Logger
}

func New(path string, result *codegen.Result, logger *zap.Logger) *Plugin {
	return &Plugin{path: path, result: result, logger: logger}
}

func (p *Plugin) Name() string {
	return "manifestgen"
}

func (p *Plugin) Generate(_ context.Context) error {
	b, err := json.Marshal(Build(p.result), jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	b = append(b, '\n')

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", p.path, err)
	}
	if err := os.WriteFile(p.path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.path, err)
	}
	p.logger.Debug("wrote manifest", zap.String("path", p.path), zap.Int("units", len(p.result.Units)))

	return nil
}
