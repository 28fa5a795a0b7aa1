package backend

import (
	"context"
	"path/filepath"
	"testing"

	"salesdash/internal/config"
	"salesdash/internal/repo"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sqlite"}); err == nil {
		t.Fatalf("expected error for sqlite without a path")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory"})
	if err != nil || cfg.Type != MemoryBackend {
		t.Fatalf("memory config = %+v, %v", cfg, err)
	}
}

func TestCreateBackend(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "sqlite", config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "nested", "sales.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			t.Cleanup(func() {
				if err := res.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			})

			n, err := res.Repository.Count(ctx, repo.Filter{})
			if err != nil || n != 0 {
				t.Fatalf("fresh backend count = %d, %v", n, err)
			}
		})
	}
}

func TestCreateBackendRejectsInvalidType(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Fatalf("expected error")
	}
}
