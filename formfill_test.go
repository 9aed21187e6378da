package formfill

import (
	"context"
	"io/fs"
	"testing"

	"github.com/goliatone/go-formfill/pkg/config"
	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/session"
)

func TestEmbeddedTemplates(t *testing.T) {
	for _, name := range []string{"layout.tmpl", "login.tmpl", "form.tmpl"} {
		if _, err := fs.Stat(EmbeddedTemplates(), name); err != nil {
			t.Errorf("template %s: %v", name, err)
		}
	}
}

func TestGatewaySelectsSource(t *testing.T) {
	cfg := &config.Config{APIEndpoint: "https://api.example.com", FormSource: config.SourceHTTP}
	client, source, err := Gateway(cfg, nil, nil)
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	if source != gateway.FormSource(client) {
		t.Fatalf("http source should be the client")
	}

	cfg.FormSource = "file:pkg/gateway/testdata/survey.yaml"
	_, source, err = Gateway(cfg, nil, nil)
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	if _, ok := source.(*gateway.FileSource); !ok {
		t.Fatalf("expected file source, got %T", source)
	}

	if _, _, err := Gateway(&config.Config{}, nil, nil); err == nil {
		t.Fatalf("expected missing endpoint error")
	}
}

func TestBackendDrivers(t *testing.T) {
	ctx := context.Background()

	backend, closeFn, err := Backend(ctx, &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := backend.(*session.MemoryBackend); !ok {
		t.Fatalf("expected memory backend, got %T", backend)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	backend, _, err = Backend(ctx, &config.Config{Store: config.StoreConfig{Driver: config.StoreFile, Dir: t.TempDir()}})
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	if _, ok := backend.(*session.FileBackend); !ok {
		t.Fatalf("expected file backend, got %T", backend)
	}

	if _, _, err := Backend(ctx, &config.Config{Store: config.StoreConfig{Driver: "disk"}}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
