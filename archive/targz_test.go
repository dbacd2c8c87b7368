package archive

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func buildTarGz(t *testing.T, entries map[string]string, dirs []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for _, d := range dirs {
		if err := tw.WriteHeader(&tar.Header{Name: d, Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range entries {
		hdr := &tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeFilesAndDirs(t *testing.T) {
	data := buildTarGz(t, map[string]string{
		"widget-1.0.0/package.json":   `{"name":"widget"}`,
		"widget-1.0.0/source/main.js": "console.log(1)",
	}, []string{"widget-1.0.0/", "widget-1.0.0/source/"})

	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	members, err := d.Members()
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 4 {
		t.Fatalf("Members = %d, want 4: %+v", len(members), members)
	}

	var dirCount, fileCount int
	for _, m := range members {
		switch m.Kind {
		case Dir:
			dirCount++
		case File:
			fileCount++
		}
	}
	if dirCount != 2 || fileCount != 2 {
		t.Errorf("dirCount=%d fileCount=%d, want 2,2", dirCount, fileCount)
	}
}

func TestExpandReturnsFileContents(t *testing.T) {
	data := buildTarGz(t, map[string]string{
		"pkg/a.txt": "hello",
	}, nil)

	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	members, _ := d.Members()
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}

	b, err := d.Expand(members[0])
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if string(b) != "hello" {
		t.Errorf("Expand = %q, want hello", b)
	}
}

func TestExpandRejectsDirMember(t *testing.T) {
	data := buildTarGz(t, nil, []string{"onlydir/"})

	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	members, _ := d.Members()
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}

	if _, err := d.Expand(members[0]); err == nil {
		t.Error("Expand on a directory member should fail")
	}
}

func TestDecodeCleansMemberPaths(t *testing.T) {
	data := buildTarGz(t, map[string]string{
		"widget/./source/main.js": "x",
	}, nil)

	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	members, _ := d.Members()
	if len(members) != 1 || members[0].Path != "widget/source/main.js" {
		t.Fatalf("Path = %q, want cleaned widget/source/main.js", members)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a gzip stream"))); err == nil {
		t.Fatal("Decode should fail on non-gzip input")
	}
}

func TestOpenReadsFromDisk(t *testing.T) {
	data := buildTarGz(t, map[string]string{"a.txt": "hello"}, nil)
	path := filepath.Join(t.TempDir(), "pkg.tar.gz")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	members, _ := d.Members()
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.tar.gz")); err == nil {
		t.Fatal("Open should fail for a missing file")
	}
}
