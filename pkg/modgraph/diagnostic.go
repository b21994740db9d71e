package modgraph

import "fmt"

// Kind identifies one of the closed set of diagnostic categories emitted
// by the import checker and the dependency cross-checker.
type Kind string

// Diagnostic kinds.
const (
	// KindMissingModule indicates a relative specifier that resolves to no
	// file, directory index, or extension candidate.
	KindMissingModule Kind = "missing_module"
	// KindMissingExport indicates a named import requesting a symbol absent
	// from the target's resolved export set.
	KindMissingExport Kind = "missing_export"
	// KindDefaultExportMismatch indicates a default-export shape disagreement
	// with no plausible alternate import form.
	KindDefaultExportMismatch Kind = "default_export_mismatch"
	// KindExportShapeMismatch indicates a named/default shape disagreement
	// where a plausible alternate import form exists.
	KindExportShapeMismatch Kind = "export_shape_mismatch"
	// KindDuplicateExport indicates a module exporting the same name through
	// two different mechanisms.
	KindDuplicateExport Kind = "duplicate_export"
	// KindUndeclaredDependency indicates an external package import whose
	// root name is absent from the declared dependency manifest.
	KindUndeclaredDependency Kind = "undeclared_dependency"
	// KindReadFailure indicates a module file that could not be read; the
	// module degrades to empty export/import data.
	KindReadFailure Kind = "read_failure"
)

// Severity classifies how a diagnostic affects the surrounding tool's
// exit status. The engine itself never exits.
type Severity string

// Severity levels.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one finding produced during a validation run.
type Diagnostic struct {
	Kind      Kind     `json:"kind"      yaml:"kind"`
	Severity  Severity `json:"severity"  yaml:"severity"`
	Module    string   `json:"module"    yaml:"module"`
	Specifier string   `json:"specifier,omitempty" yaml:"specifier,omitempty"`
	Symbol    string   `json:"symbol,omitempty"    yaml:"symbol,omitempty"`
	Detail    string   `json:"detail,omitempty"    yaml:"detail,omitempty"`
}

// String renders the diagnostic in a single grep-friendly line.
func (d Diagnostic) String() string {
	out := fmt.Sprintf("[%s] %s", d.Kind, d.Module)
	if d.Specifier != "" {
		out += fmt.Sprintf(" %q", d.Specifier)
	}

	if d.Symbol != "" {
		out += fmt.Sprintf(" symbol %q", d.Symbol)
	}

	if d.Detail != "" {
		out += ": " + d.Detail
	}

	return out
}

// severityFor returns the severity conventionally attached to a kind.
func severityFor(kind Kind) Severity {
	if kind == KindReadFailure {
		return SeverityWarning
	}

	return SeverityError
}
