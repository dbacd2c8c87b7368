package installer

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/forgekit/pkgcore/internal/fs"
	"github.com/forgekit/pkgcore/internal/pkglog"
	"github.com/forgekit/pkgcore/journal"
	"github.com/forgekit/pkgcore/pkgerrors"
)

// UninstallResult reports what Uninstall actually removed.
type UninstallResult struct {
	FilesRemoved int
	DirsRemoved  int
	Strays       []string // journaled files already gone when uninstall ran
}

// Uninstall executes spec §4.4 for the package at modPath: load its
// journal (fatal *pkgerrors.NoJournal if absent), delete every
// RegularFile entry, then remove every Directory entry that is empty —
// deepest first — logging *pkgerrors.AlienContents and skipping any
// that are not. Finally removes modPath itself if it ended up empty,
// else fails with AlienContents at the package-root level.
func Uninstall(modPath, name string, log *pkglog.Logger) (*UninstallResult, error) {
	if log == nil {
		log = pkglog.New(nil)
	}

	journalPath := filepath.Join(modPath, journal.Name)
	f, err := os.Open(journalPath)
	if err != nil {
		return nil, &pkgerrors.NoJournal{Package: name, Path: modPath}
	}
	j, err := journal.Load(f)
	f.Close()
	if err != nil {
		return nil, &pkgerrors.NoJournal{Package: name, Path: modPath}
	}

	res := &UninstallResult{}

	for _, rel := range j.Files() {
		full := filepath.Join(modPath, filepath.FromSlash(rel))
		if !fs.Exists(full) {
			log.Warnf("%s", (&pkgerrors.StrayMissing{Package: name, Path: rel}).Error())
			res.Strays = append(res.Strays, rel)
			continue
		}
		if err := os.Remove(full); err != nil {
			return res, err
		}
		res.FilesRemoved++
	}

	// journal.json itself is journaled as a RegularFile entry (the seal
	// marker) but must outlive every other removal so a crash mid-
	// uninstall still has something to resume from; remove it last.
	dirs := append([]string(nil), j.Dirs()...)
	sort.Slice(dirs, func(i, k int) bool { return len(dirs[i]) > len(dirs[k]) })

	for _, rel := range dirs {
		full := filepath.Join(modPath, filepath.FromSlash(rel))
		empty, err := fs.IsEmptyDir(full)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return res, err
		}
		if !empty {
			log.Warnf("%s", (&pkgerrors.AlienContents{Package: name, Path: rel}).Error())
			continue
		}
		if err := os.Remove(full); err != nil {
			return res, err
		}
		res.DirsRemoved++
	}

	if err := os.Remove(journalPath); err != nil && !os.IsNotExist(err) {
		return res, err
	}

	empty, err := fs.IsEmptyDir(modPath)
	if err != nil {
		return res, err
	}
	if !empty {
		return res, &pkgerrors.AlienContents{Package: name, Path: modPath}
	}
	if err := os.Remove(modPath); err != nil {
		return res, err
	}

	log.Logf("uninstalled %s: %d file(s), %d dir(s) removed, %d stray(s)\n", name, res.FilesRemoved, res.DirsRemoved, len(res.Strays))
	return res, nil
}
