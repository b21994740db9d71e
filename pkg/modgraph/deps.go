package modgraph

import "sort"

// CheckDependencies verifies every externally-addressed package root seen
// during the import walk against the declared dependency set. Pure set
// difference; no file I/O. The declared set conventionally unions runtime
// and development dependencies.
func CheckDependencies(packageRoots []string, declared map[string]struct{}) []Diagnostic {
	roots := append([]string(nil), packageRoots...)
	sort.Strings(roots)

	var diags []Diagnostic

	for _, root := range roots {
		if _, ok := declared[root]; ok {
			continue
		}

		diags = append(diags, Diagnostic{
			Kind:      KindUndeclaredDependency,
			Severity:  severityFor(KindUndeclaredDependency),
			Module:    "package.json",
			Specifier: root,
			Detail:    "imported package is not declared in the dependency manifest",
		})
	}

	return diags
}
