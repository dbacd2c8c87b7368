package appview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forgekit/pkgcore/journal"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReinitRequiresRootManifest(t *testing.T) {
	root := t.TempDir()
	if _, err := Reinit(root, nil); err == nil {
		t.Fatal("Reinit should fail without a root package.json")
	}
}

func TestReinitScansInstalledModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `{"name":"app","version":"1.0.0"}`)

	modDir := filepath.Join(root, ModulesDir, "gadget")
	writeFile(t, filepath.Join(modDir, ManifestName), `{"name":"gadget","version":"1.0.0"}`)
	writeFile(t, filepath.Join(modDir, journal.Name), `[]`)

	state, err := Reinit(root, nil)
	if err != nil {
		t.Fatalf("Reinit: %v", err)
	}
	if state.Main.Name != "app" {
		t.Errorf("Main.Name = %q, want app", state.Main.Name)
	}
	if _, ok := state.Installed["gadget"]; !ok {
		t.Errorf("gadget should be in Installed, got %+v", state.Installed)
	}
}

func TestReinitSkipsModuleWithoutJournal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `{"name":"app","version":"1.0.0"}`)

	modDir := filepath.Join(root, ModulesDir, "half-installed")
	writeFile(t, filepath.Join(modDir, ManifestName), `{"name":"half-installed","version":"1.0.0"}`)
	// No journal.json written.

	state, err := Reinit(root, nil)
	if err != nil {
		t.Fatalf("Reinit: %v", err)
	}
	if _, ok := state.Installed["half-installed"]; ok {
		t.Error("a module without a journal should not be counted as installed")
	}
}

func TestIncludePathsOrdersModulesThenApp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `{"name":"app","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "source", "app.js"), "x")

	for _, name := range []string{"zeta", "alpha"} {
		modDir := filepath.Join(root, ModulesDir, name)
		writeFile(t, filepath.Join(modDir, ManifestName), `{"name":"`+name+`","version":"1.0.0"}`)
		writeFile(t, filepath.Join(modDir, journal.Name), `[]`)
		writeFile(t, filepath.Join(modDir, "source", "main.js"), "x")
	}

	state, err := Reinit(root, nil)
	if err != nil {
		t.Fatalf("Reinit: %v", err)
	}

	source, _ := state.IncludePaths()
	want := []string{
		filepath.Join(root, ModulesDir, "alpha", "source"),
		filepath.Join(root, ModulesDir, "zeta", "source"),
		filepath.Join(root, "source"),
	}
	if len(source) != len(want) {
		t.Fatalf("source = %v, want %v", source, want)
	}
	for i := range want {
		if source[i] != want[i] {
			t.Errorf("source[%d] = %q, want %q", i, source[i], want[i])
		}
	}
}
