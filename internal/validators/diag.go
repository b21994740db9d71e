package validators

import (
	"fmt"

	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

// Diagnostic kinds produced by the stage checks themselves, on top of the
// engine's closed set.
const (
	// KindMissingInput indicates a required run input (ERD, OpenAPI contract,
	// package.json) that could not be loaded.
	KindMissingInput modgraph.Kind = "missing_input"
	// KindMissingFile indicates an expected generated file that is absent.
	KindMissingFile modgraph.Kind = "missing_file"
	// KindMissingPattern indicates a file present but lacking required content.
	KindMissingPattern modgraph.Kind = "missing_pattern"
	// KindInvalidDocument indicates a malformed or inconsistent input document.
	KindInvalidDocument modgraph.Kind = "invalid_document"
	// KindStyleViolation indicates disallowed module syntax (CommonJS) or a
	// naming convention breach.
	KindStyleViolation modgraph.Kind = "style_violation"
	// KindManifestViolation indicates a package.json requirement breach.
	KindManifestViolation modgraph.Kind = "manifest_violation"
	// KindRouteMismatch indicates a view without a route or vice versa.
	KindRouteMismatch modgraph.Kind = "route_mismatch"
	// KindBaselineDrift indicates a previous-stage file changed since its
	// baseline was recorded.
	KindBaselineDrift modgraph.Kind = "baseline_drift"
)

// collector accumulates diagnostics and counts the named checks a stage ran.
type collector struct {
	diags  []modgraph.Diagnostic
	checks int
}

// check marks the start of one named check.
func (c *collector) check() { c.checks++ }

func (c *collector) add(diag modgraph.Diagnostic) {
	c.diags = append(c.diags, diag)
}

func (c *collector) errorf(kind modgraph.Kind, module, format string, args ...any) {
	c.add(modgraph.Diagnostic{
		Kind:     kind,
		Severity: modgraph.SeverityError,
		Module:   module,
		Detail:   fmt.Sprintf(format, args...),
	})
}

func (c *collector) warnf(kind modgraph.Kind, module, format string, args ...any) {
	c.add(modgraph.Diagnostic{
		Kind:     kind,
		Severity: modgraph.SeverityWarning,
		Module:   module,
		Detail:   fmt.Sprintf(format, args...),
	})
}

// merge appends engine diagnostics wholesale.
func (c *collector) merge(diags []modgraph.Diagnostic) {
	c.diags = append(c.diags, diags...)
}

func (c *collector) outcome() Outcome {
	return Outcome{Diagnostics: c.diags, Checks: c.checks}
}

// requireFile reads a file under the root, emitting a missing-file error when
// it does not exist. The second return reports presence.
func (c *collector) requireFile(in *Inputs, rel string) (string, bool) {
	text, ok := in.ReadFile(rel)
	if !ok {
		c.errorf(KindMissingFile, rel, "expected file is missing")

		return "", false
	}

	return text, true
}
