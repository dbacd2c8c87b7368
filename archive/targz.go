package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// TarGz is a Driver over a .tar.gz archive. The container structure is
// parsed with the standard library's archive/tar (no ecosystem
// tar-container library appears anywhere in the reference corpus); the
// gzip layer uses klauspost/compress/gzip as a faster drop-in for the
// stdlib codec, matching how the corpus's own indirect dependency on it
// is used elsewhere.
//
// Members are decoded eagerly at Open time into memory, since package
// archives in this domain are small application modules, not build
// artifacts.
type TarGz struct {
	members []Member
	bytes   map[string][]byte
}

// Open decodes the .tar.gz archive at path into a TarGz driver, or
// fails with an error the caller should wrap as
// *pkgerrors.ArchiveInvalidError.
func Open(path string) (*TarGz, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a .tar.gz stream from r into a TarGz driver.
func Decode(r io.Reader) (*TarGz, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening gzip stream")
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	d := &TarGz{bytes: map[string][]byte{}}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading tar entry")
		}

		p := normalizePath(hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			d.members = append(d.members, Member{Path: p, Kind: Dir})
		case tar.TypeReg:
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, tr); err != nil {
				return nil, errors.Wrapf(err, "reading %s", hdr.Name)
			}
			d.members = append(d.members, Member{Path: p, Kind: File})
			d.bytes[p] = buf.Bytes()
		default:
			// Symlinks and other special types are not part of this
			// spec's install contract; skip them.
		}
	}

	return d, nil
}

func (d *TarGz) Members() ([]Member, error) { return d.members, nil }

func (d *TarGz) Expand(m Member) ([]byte, error) {
	if m.Kind != File {
		return nil, errors.Errorf("%s is not a file member", m.Path)
	}
	b, ok := d.bytes[m.Path]
	if !ok {
		return nil, errors.Errorf("member %s not found in archive", m.Path)
	}
	return b, nil
}
