// Package pkgerrors defines the error taxonomy of §7: one concrete type
// per named error kind, each carrying the context spec.md documents for
// it. Every type satisfies error and is designed to be matched with
// errors.As by callers that need to distinguish fatal from advisory
// failures.
package pkgerrors

import "fmt"

// ConfigError signals a missing or invalid package.json at the
// application root. It halts the enclosing operation.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid application manifest at %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ResolutionStalled reports that the resolver reached a fixpoint with a
// non-empty missing set. Surfaced by the planner as Failure actions.
type ResolutionStalled struct {
	Missing []string
}

func (e *ResolutionStalled) Error() string {
	return fmt.Sprintf("resolution stalled with %d package(s) still missing: %v", len(e.Missing), e.Missing)
}

// ResolutionConflict reports a non-empty conflict set at fixpoint.
// Surfaced by the planner as Conflict actions.
type ResolutionConflict struct {
	Names []string
}

func (e *ResolutionConflict) Error() string {
	return fmt.Sprintf("conflicting constraints for %d package(s): %v", len(e.Names), e.Names)
}

// SupplierErrorKind classifies a SupplierError.
type SupplierErrorKind int

const (
	// NotFound means the supplier has no manifest/archive satisfying the request.
	NotFound SupplierErrorKind = iota
	// NetworkError means the supplier's transport failed transiently.
	NetworkError
	// ArchiveInvalid means the fetched archive failed to decode.
	ArchiveInvalid
)

func (k SupplierErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case NetworkError:
		return "NetworkError"
	case ArchiveInvalid:
		return "ArchiveInvalid"
	default:
		return "Unknown"
	}
}

// SupplierError wraps any failure reported by a supplier.Supplier or
// archive.Driver. During resolution these are logged and retried on the
// next iteration; during install they are fatal for that action.
type SupplierError struct {
	Kind    SupplierErrorKind
	Package string
	Err     error
}

func (e *SupplierError) Error() string {
	return fmt.Sprintf("supplier error (%s) for %s: %v", e.Kind, e.Package, e.Err)
}

func (e *SupplierError) Unwrap() error { return e.Err }

// TempOccupied means the installer's download temp path already exists.
type TempOccupied struct {
	Path string
}

func (e *TempOccupied) Error() string {
	return fmt.Sprintf("temp download path already occupied: %s", e.Path)
}

// AlreadyInstalled means the destination module directory already exists.
type AlreadyInstalled struct {
	Package string
	Path    string
}

func (e *AlreadyInstalled) Error() string {
	return fmt.Sprintf("package %s is already installed at %s", e.Package, e.Path)
}

// NoJournal means no journal.json exists for the package being uninstalled.
type NoJournal struct {
	Package string
	Path    string
}

func (e *NoJournal) Error() string {
	return fmt.Sprintf("no journal for package %s at %s; manual cleanup required", e.Package, e.Path)
}

// DuplicateInstalled means two installed module directories resolved to
// the same package name.
type DuplicateInstalled struct {
	Name  string
	First string
	Other string
}

func (e *DuplicateInstalled) Error() string {
	return fmt.Sprintf("package %q installed twice: %s and %s", e.Name, e.First, e.Other)
}

// InstallInterrupted reports a partially materialized install: Install
// returns it when a step fails after the package directory was created.
type InstallInterrupted struct {
	Package string
	Journal []string // "<kind>:<relative path>" for each entry the partial journal did record
}

func (e *InstallInterrupted) Error() string {
	return fmt.Sprintf("install of %s was interrupted; %d journal entries recorded before failure", e.Package, len(e.Journal))
}

// AlienContents means a directory slated for removal during uninstall
// was non-empty, or the package root itself was non-empty after all
// journaled entries were removed. Warned per-directory; fatal for the
// uninstall at the package-root level.
type AlienContents struct {
	Package string
	Path    string
}

func (e *AlienContents) Error() string {
	return fmt.Sprintf("%s: %s contains files pkgcore did not create", e.Package, e.Path)
}

// ArchiveInvalidError means an archive could not be parsed into a member list.
type ArchiveInvalidError struct {
	Path string
	Err  error
}

func (e *ArchiveInvalidError) Error() string {
	return fmt.Sprintf("invalid archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveInvalidError) Unwrap() error { return e.Err }

// StrayMissing records a journal entry whose file was already gone at
// uninstall time. Never fatal; logged via pkglog.Logger.Warnf.
type StrayMissing struct {
	Package string
	Path    string
}

func (e *StrayMissing) Error() string {
	return fmt.Sprintf("%s: journaled file %s is already gone", e.Package, e.Path)
}
