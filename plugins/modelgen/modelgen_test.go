package modelgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/config"
	"github.com/Yamashou/tsgenc/typeinfo"
)

func TestPlugin_Generate_Prune(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	previous := `{"units":[{"name":"Old.model.ts","declaration":"Old","type":"Old","kind":"class","sha256":""},{"name":"../outside.ts","declaration":"Outside","type":"Outside","kind":"class","sha256":""}]}`
	for name, content := range map[string]string{
		"manifest.json": previous,
		"Old.model.ts":  "export class Old {\n}\n",
		"custom.ts":     "export const custom = 1;\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	s := typeinfo.NewStatic()
	result, err := codegen.New(s).Generate(s.Struct("User", typeinfo.NewField("Name", typeinfo.StringType)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	p := New(config.OutputConfig{Dir: dir, Manifest: "manifest.json"}, result, zaptest.NewLogger(t))
	if err := p.Generate(t.Context()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name   string
		file   string
		exists bool
	}{
		{name: "前回のmanifestにあり今回生成されないユニットは削除される", file: "Old.model.ts", exists: false},
		{name: "manifestにないファイルは残る", file: "custom.ts", exists: true},
		{name: "今回生成されたユニットが書き出される", file: "User.model.ts", exists: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := os.Stat(filepath.Join(dir, tt.file))
			if exists := err == nil; exists != tt.exists {
				t.Errorf("%s exists = %v, want %v", tt.file, exists, tt.exists)
			}
		})
	}
}

func TestPlugin_Generate_Canceled(t *testing.T) {
	t.Parallel()

	s := typeinfo.NewStatic()
	result, err := codegen.New(s).Generate(s.Struct("User", typeinfo.NewField("Name", typeinfo.StringType)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, concurrent := range []bool{false, true} {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		p := New(config.OutputConfig{Dir: t.TempDir(), Concurrent: concurrent}, result, zaptest.NewLogger(t))
		if err := p.Generate(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Generate(concurrent=%v) error = %v, want context.Canceled", concurrent, err)
		}
	}
}
