package module

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/veltra-lang/veltc/internal/config"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/source"
)

const testdataRoot = "testdata/modules"

func newTestCompiler(searchDirs ...string) *ModuleCompiler {
	dirs := append([]string{testdataRoot}, searchDirs...)
	locator := source.New(dirs)
	cfg := config.Configuration{SourceDirectories: dirs}
	state := NewState(cfg, locator)
	return NewModuleCompiler(state, OSFileReader{}, nil)
}

// moduleGraphFixture describes a module dependency graph for test
// purposes (testdata/modules/cycle/graph.yaml): just names and the
// modules each one imports, with no concrete syntax to maintain.
type moduleGraphFixture struct {
	Modules []struct {
		Name    string   `yaml:"name"`
		Imports []string `yaml:"imports"`
	} `yaml:"modules"`
}

// loadModuleGraph decodes a graph fixture and materializes one minimal
// source file per module into a fresh temp directory, returning that
// directory so it can be added to a Locator's search path ahead of the
// shared std::bootstrap/std::prelude fixtures.
func loadModuleGraph(t *testing.T, path string) (moduleGraphFixture, string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var graph moduleGraphFixture
	require.NoError(t, yaml.Unmarshal(raw, &graph))

	dir := t.TempDir()
	for _, m := range graph.Modules {
		var src strings.Builder
		for _, imp := range m.Imports {
			src.WriteString("import " + imp + "\n")
		}
		logical := strings.ReplaceAll(m.Name, "::", "/") + sourceExtension
		full := filepath.Join(dir, filepath.FromSlash(logical))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(src.String()), 0o644))
	}
	return graph, dir
}

// Testable property 6 / scenario E6: a cyclic module graph terminates
// instead of recursing forever, and every module in the cycle appears in
// the run's module table exactly once.
func TestModuleCycleTerminates(t *testing.T) {
	graph, dir := loadModuleGraph(t, filepath.Join(testdataRoot, "cycle", "graph.yaml"))
	c := newTestCompiler(dir)

	mod := c.Compile("cycle::a")

	require.NotNil(t, mod)
	assert.False(t, c.State.Diagnostics.HasErrors(), "errors: %v", c.State.Diagnostics.Errors())

	a, ok := c.State.Modules["cycle::a"]
	require.True(t, ok)
	assert.Same(t, mod, a)

	b, ok := c.State.Modules["cycle::b"]
	require.True(t, ok, "cycle::b should have been compiled as a's dependency")

	// b's own import of a must resolve to the same in-flight record rather
	// than triggering a second, recursive compile of a.
	assert.Same(t, a, c.State.Modules["cycle::a"])
	assert.NotNil(t, b.Type)

	// every module the fixture declares ends up recorded, by exactly the
	// name the fixture gave it.
	var wantNames []string
	for _, m := range graph.Modules {
		wantNames = append(wantNames, m.Name)
	}
	var gotNames []string
	for _, m := range graph.Modules {
		if _, ok := c.State.Modules[m.Name]; ok {
			gotNames = append(gotNames, m.Name)
		}
	}
	if diff := cmp.Diff(wantNames, gotNames); diff != "" {
		t.Errorf("compiled module set mismatch (-want +got):\n%s", diff)
	}
}

// Testable property 11: redefining a reserved constant (Self, ThisModule,
// _INKOC) as an object or trait name is reported, not silently accepted.
func TestReservedConstantRedefinitionReported(t *testing.T) {
	c := newTestCompiler()

	c.Compile("reserved")

	errs := c.State.Diagnostics.Errors()
	require.NotEmpty(t, errs)

	var found bool
	for _, r := range errs {
		if r.Code == diag.NameReservedConstant {
			found = true
		}
	}
	assert.True(t, found, "expected a NameReservedConstant diagnostic, got: %v", errs)
}

// Testable property 7: diagnostics only accumulate across a run. Compiling
// a broken module followed by a clean one must never reduce the sink's
// recorded reports.
func TestDiagnosticsAreMonotonicAcrossCompiles(t *testing.T) {
	c := newTestCompiler()

	c.Compile("reserved")
	afterFirst := c.State.Diagnostics.Len()
	require.Greater(t, afterFirst, 0)

	c.Compile("ok")
	afterSecond := c.State.Diagnostics.Len()

	assert.GreaterOrEqual(t, afterSecond, afterFirst, "sink must never lose a previously recorded report")

	// every report observed after the first compile is still present
	firstReports := append([]*diag.Report(nil), c.State.Diagnostics.All()[:afterFirst]...)
	for i, r := range firstReports {
		assert.Same(t, r, c.State.Diagnostics.All()[i])
	}
}

func TestIsReservedConstant(t *testing.T) {
	assert.True(t, IsReservedConstant("Self"))
	assert.True(t, IsReservedConstant("ThisModule"))
	assert.True(t, IsReservedConstant("_INKOC"))
	assert.False(t, IsReservedConstant("Thing"))
}
