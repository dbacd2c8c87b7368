// Package appview reads the root application and its currently
// installed modules from the local filesystem (spec §3/§4.5, C4). Every
// call to Reinit drops in-memory state and re-scans disk — the
// application state has no other source of truth.
//
// Grounded on golang-dep's project.go (root discovery) and rootdata.go
// (installed-project enumeration), adapted from a GOPATH vendor tree to
// this spec's <root>/modules/<name> layout.
package appview

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/internal/pkglog"
	"github.com/forgekit/pkgcore/journal"
	"github.com/forgekit/pkgcore/pkgerrors"
)

// ManifestName is the well-known application/module manifest filename.
const ManifestName = "package.json"

// ModulesDir is the directory beneath root holding installed modules.
const ModulesDir = "modules"

// State is the re-materialized Application state of spec §3.
type State struct {
	Root      string
	Main      *descriptor.Package
	Installed map[string]*descriptor.Package
}

// Reinit scans root and returns a fresh State: the root manifest (fatal
// via *pkgerrors.ConfigError if missing or invalid) and every installed
// module under <root>/modules/* whose own manifest is readable and
// whose journal exists. Non-directories under modules/ are ignored;
// unreadable module manifests are logged and skipped, never fatal. Two
// modules resolving to the same name is fatal (*pkgerrors.DuplicateInstalled).
func Reinit(root string, log *pkglog.Logger) (*State, error) {
	if log == nil {
		log = pkglog.New(nil)
	}

	mainPath := filepath.Join(root, ManifestName)
	f, err := os.Open(mainPath)
	if err != nil {
		return nil, &pkgerrors.ConfigError{Path: mainPath, Err: err}
	}
	main, err := descriptor.Parse(f)
	f.Close()
	if err != nil {
		return nil, &pkgerrors.ConfigError{Path: mainPath, Err: err}
	}
	main.SourceRoot = root

	state := &State{
		Root:      root,
		Main:      main,
		Installed: map[string]*descriptor.Package{},
	}

	modulesPath := filepath.Join(root, ModulesDir)
	entries, err := godirwalk.ReadDirents(modulesPath, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, errors.Wrapf(err, "scanning %s", modulesPath)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modPath := filepath.Join(modulesPath, entry.Name())

		manifestPath := filepath.Join(modPath, ManifestName)
		mf, err := os.Open(manifestPath)
		if err != nil {
			log.Warnf("skipping %s: %v", modPath, err)
			continue
		}
		desc, err := descriptor.Parse(mf)
		mf.Close()
		if err != nil {
			log.Warnf("skipping %s: %v", modPath, err)
			continue
		}
		desc.SourceRoot = modPath

		journalPath := filepath.Join(modPath, journal.Name)
		if _, err := os.Stat(journalPath); err != nil {
			log.Warnf("skipping %s: no readable journal at %s", modPath, journalPath)
			continue
		}

		if existing, ok := state.Installed[desc.Name]; ok {
			return nil, &pkgerrors.DuplicateInstalled{
				Name:  desc.Name,
				First: existing.SourceRoot,
				Other: modPath,
			}
		}
		state.Installed[desc.Name] = desc
	}

	return state, nil
}

// IncludePaths returns the source and views include paths of spec
// §4.5: for each installed module (in a stable, name-sorted order) the
// paths modules/<name>/source and modules/<name>/views if they exist
// and are directories, followed by the application's own source and
// views.
func (s *State) IncludePaths() (source []string, views []string) {
	names := make([]string, 0, len(s.Installed))
	for name := range s.Installed {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		modPath := filepath.Join(s.Root, ModulesDir, name)
		if p := filepath.Join(modPath, "source"); isDir(p) {
			source = append(source, p)
		}
		if p := filepath.Join(modPath, "views"); isDir(p) {
			views = append(views, p)
		}
	}

	if p := filepath.Join(s.Root, "source"); isDir(p) {
		source = append(source, p)
	}
	if p := filepath.Join(s.Root, "views"); isDir(p) {
		views = append(views, p)
	}

	return source, views
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// DepsTxtName is the well-known include-path file emitted alongside the
// application manifest (spec §6).
const DepsTxtName = "deps.txt"

// WriteDepsTxt renders source/views include paths as the two-line
// deps.txt format of spec §6: `-I<path>` entries joined by `;` on line
// 1, `-J<path>` entries on line 2. Absent include paths yield an empty
// line.
func (s *State) WriteDepsTxt() error {
	source, views := s.IncludePaths()

	line := func(prefix string, paths []string) string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = prefix + p
		}
		return joinSemi(out)
	}

	content := line("-I", source) + "\n" + line("-J", views) + "\n"
	return os.WriteFile(filepath.Join(s.Root, DepsTxtName), []byte(content), 0o644)
}

func joinSemi(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ";"
		}
		out += p
	}
	return out
}
