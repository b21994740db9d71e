package modgraph

import (
	"math"
	"sort"
)

// ExportSet is the transitively complete set of symbols a module exports.
// Once finalized for a module it is immutable and cached under that module's
// canonical path.
type ExportSet struct {
	names map[string]struct{}
	// HasDefault marks a default export.
	HasDefault bool
	// HasWildcard marks that the module forwards an unknown set (a wildcard
	// re-export whose target could not be resolved inside the tree), making
	// specific-symbol checks inconclusive.
	HasWildcard bool
}

// NewExportSet returns an empty export set.
func NewExportSet() *ExportSet {
	return &ExportSet{names: make(map[string]struct{})}
}

// Add records an exported name. The reserved name `default` flips the
// default flag instead of entering the name set.
func (e *ExportSet) Add(name string) {
	if name == defaultName {
		e.HasDefault = true

		return
	}

	e.names[name] = struct{}{}
}

// Has reports whether name is in the export set.
func (e *ExportSet) Has(name string) bool {
	_, ok := e.names[name]

	return ok
}

// Len returns the number of named exports.
func (e *ExportSet) Len() int { return len(e.names) }

// Names returns the sorted named exports.
func (e *ExportSet) Names() []string {
	out := make([]string, 0, len(e.names))
	for name := range e.names {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// untainted is the sentinel taint depth meaning no open cycle below the
// current frame.
const untainted = math.MaxInt

// Graph computes transitively complete export sets over a snapshot. Each
// canonical path moves through three states: unseen, in-progress, and
// finalized. A lookup landing on an in-progress path has hit a re-export
// cycle and yields an empty set that is never cached. Frames computed while
// such a cycle was open stay provisional (also uncached): their sets are
// missing the names the in-progress ancestor contributes, and caching them
// would permanently truncate legitimately exporting barrel files. The
// ancestor frame itself finalizes exactly, because the only names its
// cycle-broken descendants omit are the ones it adds directly.
type Graph struct {
	snap       *Snapshot
	finalized  map[string]*ExportSet
	stackIndex map[string]int
	stackDepth int
	taintDepth int
}

// NewGraph creates an export graph over the given snapshot.
func NewGraph(snap *Snapshot) *Graph {
	return &Graph{
		snap:       snap,
		finalized:  make(map[string]*ExportSet),
		stackIndex: make(map[string]int),
		taintDepth: untainted,
	}
}

// ExportsOf returns the full export set of the module at the given canonical
// path, inlining wildcard re-exports. Results are memoized; barrel files
// imported from many modules are computed once.
func (g *Graph) ExportsOf(path string) *ExportSet {
	if cached, ok := g.finalized[path]; ok {
		return cached
	}

	if depth, busy := g.stackIndex[path]; busy {
		// Cycle: frames above the target are now provisional.
		if depth+1 < g.taintDepth {
			g.taintDepth = depth + 1
		}

		return NewExportSet()
	}

	mod, ok := g.snap.Lookup(path)
	if !ok {
		return NewExportSet()
	}

	depth := g.stackDepth
	g.stackIndex[path] = depth
	g.stackDepth++

	set := g.build(mod)

	g.stackDepth--
	delete(g.stackIndex, path)

	if depth < g.taintDepth {
		g.finalized[path] = set
		// Any tainted frames were strictly deeper and are popped by now.
		g.taintDepth = untainted
	}

	return set
}

// build assembles a module's export set from its raw extraction: direct
// names, local list names, named re-export edges, then inlined wildcards.
func (g *Graph) build(mod *Module) *ExportSet {
	raw := ExtractExports(mod.Text)

	set := NewExportSet()
	set.HasDefault = raw.HasDefault

	for _, name := range raw.Direct {
		set.Add(name)
	}

	for _, entry := range raw.LocalLists {
		set.Add(entry.Exported)
	}

	for _, edge := range raw.Reexports {
		for _, entry := range edge.Entries {
			// `default as X` re-exports the source's default under the
			// name X, a plain named export downstream. `X as default`
			// (or a bare `default`) marks this module's default.
			set.Add(entry.Exported)
		}
	}

	for _, specifier := range raw.Wildcards {
		resolved := g.snap.Resolve(mod.Path, specifier)
		if resolved.Kind != ResolvedFile {
			set.HasWildcard = true

			continue
		}

		target := g.ExportsOf(resolved.Path)
		for name := range target.names {
			// Wildcard re-export never forwards the default export.
			set.names[name] = struct{}{}
		}

		if target.HasWildcard {
			set.HasWildcard = true
		}
	}

	return set
}
