package supplier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forgekit/pkgcore/version"
)

func writeCatalogEntry(t *testing.T, root, name, ver, manifest, archiveContents string) {
	t.Helper()
	dir := filepath.Join(root, name, ver)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "archive.tar.gz"), []byte(archiveContents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalManifestPicksBestVersion(t *testing.T) {
	root := t.TempDir()
	writeCatalogEntry(t, root, "gadget", "1.0.0", `{"name":"gadget","version":"1.0.0"}`, "v1")
	writeCatalogEntry(t, root, "gadget", "2.0.0", `{"name":"gadget","version":"2.0.0"}`, "v2")

	s := NewLocal(root)
	desc, err := s.Manifest("gadget", mustConstraint("<2.0.0"))
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if desc.Version.String() != "1.0.0" {
		t.Errorf("Manifest picked %s, want 1.0.0", desc.Version)
	}
}

func TestLocalStoreReadsArchiveBytes(t *testing.T) {
	root := t.TempDir()
	writeCatalogEntry(t, root, "gadget", "1.0.0", `{"name":"gadget","version":"1.0.0"}`, "payload")

	s := NewLocal(root)
	dest := filepath.Join(t.TempDir(), "gadget.archive")
	if err := s.Store(dest, "gadget", version.Any()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("Store wrote %q, want payload", data)
	}
}

func TestLocalManifestNotFoundForUnknownPackage(t *testing.T) {
	root := t.TempDir()
	s := NewLocal(root)
	if _, err := s.Manifest("missing", version.Any()); err == nil {
		t.Fatal("expected an error for an unknown package")
	}
}
