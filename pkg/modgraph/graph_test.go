package modgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

func TestExportsOf_DirectAndLocal(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/api.ts": `
const request = () => {};
export const get = () => {};
export { request as fetchData };
export default request;
`,
	})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf(modByRel(t, snap, "src/api.ts").Path)

	assert.Equal(t, []string{"fetchData", "get"}, set.Names())
	assert.True(t, set.HasDefault)
	assert.False(t, set.HasWildcard)
}

func TestExportsOf_WildcardInlining_StripsDefault(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/index.ts": "export * from './D';",
		"src/D.ts": `
export const foo = 1;
export default function D() {}
`,
	})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf(modByRel(t, snap, "src/index.ts").Path)

	assert.True(t, set.Has("foo"))
	assert.False(t, set.HasDefault)
}

func TestExportsOf_NamedReexport_DefaultAlias(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/index.ts":     "export { default as UserCard, UserBadge } from './UserCard';",
		"src/UserCard.tsx": "export default function UserCard() {}\nexport const UserBadge = 1;",
	})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf(modByRel(t, snap, "src/index.ts").Path)

	// The aliased default becomes a plain named export downstream.
	assert.True(t, set.Has("UserCard"))
	assert.True(t, set.Has("UserBadge"))
	assert.False(t, set.HasDefault)
}

func TestExportsOf_Idempotent(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/index.ts": "export * from './a';\nexport * from './b';",
		"src/a.ts":     "export const alpha = 1;",
		"src/b.ts":     "export const beta = 2;",
	})

	graph := modgraph.NewGraph(snap)
	path := modByRel(t, snap, "src/index.ts").Path

	first := graph.ExportsOf(path)
	second := graph.ExportsOf(path)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"alpha", "beta"}, first.Names())
}

func TestExportsOf_CycleSafety_BothOrders(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"src/a.ts": "export const fromA = 1;\nexport * from './b';",
		"src/b.ts": "export const fromB = 2;\nexport * from './a';",
	}

	for _, first := range []string{"src/a.ts", "src/b.ts"} {
		t.Run("first="+first, func(t *testing.T) {
			t.Parallel()

			snap := newSnapshot(t, files)
			graph := modgraph.NewGraph(snap)

			pathA := modByRel(t, snap, "src/a.ts").Path
			pathB := modByRel(t, snap, "src/b.ts").Path

			if first == "src/a.ts" {
				graph.ExportsOf(pathA)
			} else {
				graph.ExportsOf(pathB)
			}

			union := []string{"fromA", "fromB"}
			assert.Equal(t, union, graph.ExportsOf(pathA).Names())
			assert.Equal(t, union, graph.ExportsOf(pathB).Names())
		})
	}
}

func TestExportsOf_ThreeModuleCycle(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/a.ts": "export const fromA = 1;\nexport * from './b';",
		"src/b.ts": "export const fromB = 2;\nexport * from './c';",
		"src/c.ts": "export const fromC = 3;\nexport * from './a';",
	})

	graph := modgraph.NewGraph(snap)
	union := []string{"fromA", "fromB", "fromC"}

	for _, rel := range []string{"src/a.ts", "src/b.ts", "src/c.ts"} {
		assert.Equal(t, union, graph.ExportsOf(modByRel(t, snap, rel).Path).Names(), rel)
	}
}

func TestExportsOf_ChainedWildcards(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/index.ts":      "export * from './components';",
		"src/components.ts": "export * from './leaf';\nexport const Button = 1;",
		"src/leaf.ts":       "export const Leaf = 1;\nexport default 0;",
	})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf(modByRel(t, snap, "src/index.ts").Path)

	assert.Equal(t, []string{"Button", "Leaf"}, set.Names())
	assert.False(t, set.HasDefault)
}

func TestExportsOf_UnresolvedWildcard_MarksInconclusive(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/index.ts": "export const own = 1;\nexport * from './missing';",
	})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf(modByRel(t, snap, "src/index.ts").Path)

	assert.True(t, set.Has("own"))
	assert.True(t, set.HasWildcard)
}

func TestExportsOf_WildcardAmbiguityPropagates(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/index.ts": "export * from './mid';",
		"src/mid.ts":   "export const mid = 1;\nexport * from './gone';",
	})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf(modByRel(t, snap, "src/index.ts").Path)

	assert.True(t, set.Has("mid"))
	assert.True(t, set.HasWildcard)
}

func TestExportsOf_UnknownPath(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{"src/a.ts": "export const a = 1;"})

	graph := modgraph.NewGraph(snap)
	set := graph.ExportsOf("/nonexistent/whatever.ts")

	require.NotNil(t, set)
	assert.Zero(t, set.Len())
}
