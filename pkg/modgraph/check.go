package modgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Checker walks a snapshot's modules, resolves every import, and compares
// requested symbols against the export graph. External package roots seen
// along the way are collected for the dependency cross-check.
type Checker struct {
	snap     *Snapshot
	graph    *Graph
	packages map[string]struct{}
}

// NewChecker creates a checker with a fresh export graph over the snapshot.
func NewChecker(snap *Snapshot) *Checker {
	return &Checker{
		snap:     snap,
		graph:    NewGraph(snap),
		packages: make(map[string]struct{}),
	}
}

// Graph exposes the underlying export graph, mainly for tests.
func (c *Checker) Graph() *Graph { return c.graph }

// PackageRoots returns the sorted external package roots collected so far.
func (c *Checker) PackageRoots() []string {
	out := make([]string, 0, len(c.packages))
	for name := range c.packages {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// CheckAll checks every module in the snapshot, in relative-path order, and
// returns the combined diagnostics. Snapshot read-failure warnings are
// included up front.
func (c *Checker) CheckAll() []Diagnostic {
	diags := append([]Diagnostic(nil), c.snap.Warnings()...)

	for _, mod := range c.snap.Modules() {
		diags = append(diags, c.CheckModule(mod)...)
	}

	return diags
}

// CheckModule checks one module: duplicate exports first, then every import
// statement it carries.
func (c *Checker) CheckModule(mod *Module) []Diagnostic {
	diags := c.checkDuplicateExports(mod)

	for _, stmt := range ExtractImports(mod.Text) {
		diags = append(diags, c.checkImport(mod, stmt)...)
	}

	return diags
}

// checkDuplicateExports flags names both declared with an export keyword and
// re-listed in a local export block. This is a self-check; no cross-module
// resolution is involved.
func (c *Checker) checkDuplicateExports(mod *Module) []Diagnostic {
	raw := ExtractExports(mod.Text)
	if len(raw.LocalLists) == 0 {
		return nil
	}

	declared := make(map[string]struct{}, len(raw.Direct))
	for _, name := range raw.Direct {
		declared[name] = struct{}{}
	}

	seen := make(map[string]struct{})

	var dup []string

	for _, entry := range raw.LocalLists {
		if _, ok := declared[entry.Source]; !ok {
			continue
		}

		if _, done := seen[entry.Source]; done {
			continue
		}

		seen[entry.Source] = struct{}{}
		dup = append(dup, entry.Source)
	}

	sort.Strings(dup)

	diags := make([]Diagnostic, 0, len(dup))
	for _, name := range dup {
		diags = append(diags, Diagnostic{
			Kind:     KindDuplicateExport,
			Severity: severityFor(KindDuplicateExport),
			Module:   mod.Rel,
			Symbol:   name,
			Detail:   fmt.Sprintf("%q is exported by declaration and re-listed in an export block", name),
		})
	}

	return diags
}

// checkImport resolves one import statement and checks its requested symbols
// against the target's export set.
func (c *Checker) checkImport(mod *Module, stmt ImportStatement) []Diagnostic {
	if !IsRelative(stmt.Specifier) {
		c.packages[PackageRoot(stmt.Specifier)] = struct{}{}

		return nil
	}

	// Stylesheets are resolved for presence only; they export nothing.
	if strings.HasSuffix(stmt.Specifier, ".css") {
		if c.snap.Resolve(mod.Path, stmt.Specifier).Kind != ResolvedFile {
			return []Diagnostic{{
				Kind:      KindMissingModule,
				Severity:  severityFor(KindMissingModule),
				Module:    mod.Rel,
				Specifier: stmt.Specifier,
				Detail:    "stylesheet path does not exist",
			}}
		}

		return nil
	}

	resolved := c.snap.Resolve(mod.Path, stmt.Specifier)
	if resolved.Kind != ResolvedFile {
		return []Diagnostic{{
			Kind:      KindMissingModule,
			Severity:  severityFor(KindMissingModule),
			Module:    mod.Rel,
			Specifier: stmt.Specifier,
			Detail:    "path exists as neither file nor directory index",
		}}
	}

	exports := c.graph.ExportsOf(resolved.Path)
	if exports.HasWildcard {
		// The target forwards an unresolved wildcard; specific-symbol
		// checks would guess, so they are suppressed.
		return nil
	}

	var diags []Diagnostic

	for _, symbol := range stmt.Symbols {
		diag, ok := c.checkSymbol(mod, stmt.Specifier, symbol, exports)
		if ok {
			diags = append(diags, diag)
		}
	}

	return diags
}

// checkSymbol applies the shape rules for a single requested symbol.
func (c *Checker) checkSymbol(mod *Module, specifier string, symbol ImportedSymbol, exports *ExportSet) (Diagnostic, bool) {
	diag := Diagnostic{
		Severity:  SeverityError,
		Module:    mod.Rel,
		Specifier: specifier,
		Symbol:    symbol.Name,
	}

	switch symbol.Kind {
	case ImportNamespace:
		// Resolution succeeded; a namespace import has no symbol to check.
		return Diagnostic{}, false

	case ImportDefault:
		if exports.HasDefault {
			return Diagnostic{}, false
		}

		if exports.Has(symbol.Name) {
			diag.Kind = KindExportShapeMismatch
			diag.Detail = fmt.Sprintf("%q is a named export; use a named import", symbol.Name)

			return diag, true
		}

		diag.Kind = KindDefaultExportMismatch
		diag.Detail = "target has no default export"

		return diag, true

	case ImportNamed:
		if exports.Has(symbol.Name) {
			return Diagnostic{}, false
		}

		if exports.HasDefault {
			diag.Kind = KindDefaultExportMismatch
			diag.Detail = fmt.Sprintf("target only has a default export; import %q as default", symbol.Name)

			return diag, true
		}

		diag.Kind = KindMissingExport
		diag.Detail = fmt.Sprintf("available exports: %s", availableList(exports))

		return diag, true
	}

	return Diagnostic{}, false
}

// availableList formats the export names for a missing-export detail line.
func availableList(exports *ExportSet) string {
	names := exports.Names()
	if len(names) == 0 {
		return "(none)"
	}

	return strings.Join(names, ", ")
}
