package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/logging"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

func testApp(t *testing.T, config *Config, opts ...Option) *App {
	t.Helper()
	clearEnv(t)
	opts = append([]Option{WithConfig(config), WithLogger(logging.NewNopLogger())}, opts...)
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := testApp(t, &Config{})

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_CatalogNotConfigured verifies the error without a catalog.
func TestApp_CatalogNotConfigured(t *testing.T) {
	app := testApp(t, &Config{})
	_, err := app.Catalog()
	var ce *errors.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Catalog() error = %v, want ConfigError", err)
	}
}

// TestApp_CatalogSelection verifies which source the configuration builds.
func TestApp_CatalogSelection(t *testing.T) {
	dir := t.TempDir()

	app := testApp(t, &Config{CatalogDir: dir, CatalogURL: "https://flowcells.example.org"})
	src, err := app.Catalog()
	if err != nil {
		t.Fatalf("Catalog() failed: %v", err)
	}
	if _, ok := src.(*catalog.DirSource); !ok {
		t.Errorf("Catalog() = %T, want *catalog.DirSource", src)
	}

	app = testApp(t, &Config{CatalogURL: "https://flowcells.example.org", CatalogTTL: time.Minute})
	src, err = app.Catalog()
	if err != nil {
		t.Fatalf("Catalog() failed: %v", err)
	}
	if _, ok := src.(*catalog.Cached); !ok {
		t.Errorf("Catalog() = %T, want *catalog.Cached", src)
	}

	again, _ := app.Catalog()
	if again != src {
		t.Error("Catalog() returned a new source on the second call")
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

// TestApp_Catalog_ThreadSafe verifies concurrent Catalog() calls share a source.
func TestApp_Catalog_ThreadSafe(t *testing.T) {
	app := testApp(t, &Config{CatalogDir: t.TempDir()})

	const goroutines = 10
	sources := make([]catalog.Source, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sources[idx], _ = app.Catalog()
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if sources[i] != sources[0] {
			t.Fatalf("goroutine %d got a different source", i)
		}
	}
}

// TestApp_WithCatalog verifies an injected source survives reconfiguration.
func TestApp_WithCatalog(t *testing.T) {
	src := catalog.SourceFunc(func(context.Context, string) ([]samplesheet.BarcodeSet, error) {
		return nil, nil
	})
	app := testApp(t, &Config{}, WithCatalog(src))
	app.reconfigure(&Config{CatalogURL: "https://flowcells.example.org"})

	got, err := app.Catalog()
	if err != nil {
		t.Fatalf("Catalog() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Catalog() returned nil")
	}
	if _, ok := got.(catalog.SourceFunc); !ok {
		t.Errorf("Catalog() = %T, want the injected source", got)
	}
}

// TestExecute_Lanes runs a subcommand through the root command.
func TestExecute_Lanes(t *testing.T) {
	app := testApp(t, &Config{LogOutput: "stderr"})

	out, err := run(t, app, "--format", "json", "lanes", "format", "3", "1,2", "8")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	var result struct {
		Canonical string `json:"canonical"`
		Lanes     []int  `json:"lanes"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.Canonical != "1-3,8" {
		t.Errorf("canonical = %s, want 1-3,8", result.Canonical)
	}
	if len(result.Lanes) != 4 {
		t.Errorf("lanes = %v, want 4 lanes", result.Lanes)
	}
}

// TestExecute_InvalidFormat verifies the root rejects unknown formats.
func TestExecute_InvalidFormat(t *testing.T) {
	app := testApp(t, &Config{LogOutput: "stderr"})
	_, err := run(t, app, "--format", "xml", "lanes", "format", "1")
	if !errors.IsValidationError(err) {
		t.Fatalf("Execute() error = %v, want validation error", err)
	}
}

// TestExecute_CatalogDirFlag verifies --catalog-dir replaces the source.
func TestExecute_CatalogDirFlag(t *testing.T) {
	dir := catalog.NewDirSource(t.TempDir())
	if _, err := dir.WriteSet("demo", samplesheet.BarcodeSet{
		ID: "set-1", Name: "TruSeq Single", ShortName: "truseq",
		Entries: []samplesheet.BarcodeEntry{{ID: "bc-1", Name: "A01", Sequence: "ACGT"}},
	}); err != nil {
		t.Fatal(err)
	}

	app := testApp(t, &Config{LogOutput: "stderr"})
	out, err := run(t, app, "--catalog-dir", dir.Root, "-o", "json", "catalog", "list", "demo")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out, `"short_name": "truseq"`) {
		t.Errorf("output does not list the set:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	app := testApp(t, &Config{LogOutput: "stderr"})
	out, err := run(t, app, "version")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if out != "flowsheet version 1.0.0\n" {
		t.Errorf("version output = %q", out)
	}

	out, err = run(t, app, "version", "-v")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out, "commit: abc123") || !strings.Contains(out, "go version:") {
		t.Errorf("verbose version output = %q", out)
	}
}
