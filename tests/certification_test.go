package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/internal/testutils"
	"github.com/qqdb/molstar/pkg/domain"
)

// TestCertificationSuite runs every build script under tests/specs against
// a stock asset set. A conforming script builds cleanly, settles with all
// cells ok, and is idempotent: applying it a second time changes nothing.
func TestCertificationSuite(t *testing.T) {
	specsDir := "specs" // Relative to this test file

	entries, err := filepath.Glob(filepath.Join(specsDir, "*.yaml"))
	if err != nil {
		t.Fatalf("Failed to list specs: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("No spec scripts found")
	}

	for _, specPath := range entries {
		specName := filepath.Base(specPath)
		t.Run(specName, func(t *testing.T) {
			runSpec(t, specPath)
		})
	}
}

func runSpec(t *testing.T, scriptPath string) {
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}

	// 1. Stock assets every spec script may reference
	assets := textAssets(map[string]string{
		"mem://water.xyz":   waterXYZ,
		"mem://shifted.xyz": shiftedXYZ,
	})
	assets["mem://blob.ccp4"] = gaussianMap(t, 16)

	plugin := newPlugin(t, assets,
		molstar.WithRenderBackend(testutils.NewFakeBackend()),
	)

	// 2. First application must settle green
	ctx := context.Background()
	if err := plugin.BuildScript(ctx, script); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	cells := plugin.Cells()
	if len(cells) < 2 {
		t.Fatalf("Expected at least one cell besides the root, got %d", len(cells))
	}
	versions := make(map[domain.Ref]uint64)
	for _, cell := range cells {
		if cell.Status != domain.StatusOK {
			t.Errorf("Cell %s settled %s (%s)", cell.Transform.Ref, cell.Status, cell.Err)
		}
		versions[cell.Transform.Ref] = cell.Version
	}

	// 3. Re-applying the same script must be a no-op
	if err := plugin.BuildScript(ctx, script); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	for _, cell := range plugin.Cells() {
		if got, want := cell.Version, versions[cell.Transform.Ref]; got != want {
			t.Errorf("Cell %s version moved %d -> %d on identical rebuild", cell.Transform.Ref, want, got)
		}
	}
}
