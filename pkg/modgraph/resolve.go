package modgraph

import (
	"path/filepath"
	"strings"
)

// ResolvedKind discriminates the outcome of specifier resolution.
type ResolvedKind int

// Resolution outcomes.
const (
	// ResolvedFile means the specifier denotes a concrete file in the
	// snapshot.
	ResolvedFile ResolvedKind = iota
	// ResolvedPackage means the specifier addresses an external package;
	// only its root name is identified.
	ResolvedPackage
	// ResolvedNone means the specifier names a path that exists as neither
	// file nor directory index.
	ResolvedNone
)

// Resolved is the result of resolving one import specifier.
type Resolved struct {
	Kind ResolvedKind
	// Path is the canonical file path when Kind is ResolvedFile.
	Path string
	// Package is the package root name when Kind is ResolvedPackage.
	Package string
}

// scopedPackageSegments is how many path segments a scoped package name
// (@scope/pkg) retains.
const scopedPackageSegments = 2

// PackageRoot extracts the root package name from a non-relative specifier.
// Scoped names keep their first two segments, unscoped names their first.
func PackageRoot(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") {
		if len(parts) >= scopedPackageSegments {
			return parts[0] + "/" + parts[1]
		}

		return parts[0]
	}

	return parts[0]
}

// IsRelative reports whether a specifier addresses the local tree rather
// than an external package.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, ".")
}

// Resolve maps an import specifier, as seen from the module at fromModule,
// to a concrete file in the snapshot. The candidate order is fixed: the
// literal path with each module extension appended, then an index file
// inside the path taken as a directory. The first existing candidate wins so
// diagnostics stay reproducible. Non-relative specifiers resolve to their
// package root name without touching the tree.
func (s *Snapshot) Resolve(fromModule, specifier string) Resolved {
	if !IsRelative(specifier) {
		return Resolved{Kind: ResolvedPackage, Package: PackageRoot(specifier)}
	}

	base := filepath.Clean(filepath.Join(filepath.Dir(fromModule), filepath.FromSlash(specifier)))

	// Stylesheet specifiers carry their extension already; they resolve
	// literally and are exempt from symbol checking.
	if strings.HasSuffix(specifier, ".css") {
		if s.FileExists(base) {
			return Resolved{Kind: ResolvedFile, Path: base}
		}

		return Resolved{Kind: ResolvedNone}
	}

	for _, ext := range moduleExtensions {
		candidate := base + ext
		if s.FileExists(candidate) {
			return Resolved{Kind: ResolvedFile, Path: candidate}
		}
	}

	if s.DirExists(base) {
		for _, index := range indexBasenames {
			candidate := filepath.Join(base, index)
			if s.FileExists(candidate) {
				return Resolved{Kind: ResolvedFile, Path: candidate}
			}
		}
	}

	return Resolved{Kind: ResolvedNone}
}
