package validators

import "github.com/stagegate-dev/stagegate/pkg/modgraph"

// runEngine executes a full resolution pass over the snapshot: duplicate
// exports, import resolution, and symbol availability for every module.
func runEngine(in *Inputs) []modgraph.Diagnostic {
	return modgraph.NewChecker(in.Snapshot).CheckAll()
}

// runEngineWithDependencies additionally cross-checks every external package
// root seen during the walk against the declared manifest dependencies.
func runEngineWithDependencies(in *Inputs) []modgraph.Diagnostic {
	checker := modgraph.NewChecker(in.Snapshot)
	diags := checker.CheckAll()

	if in.Manifest != nil {
		diags = append(diags, modgraph.CheckDependencies(checker.PackageRoots(), in.Manifest.Declared())...)
	}

	return diags
}
