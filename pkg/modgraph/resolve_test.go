package modgraph_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

func TestResolve_FileBeforeDirectoryIndex(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/main.ts":      "import { x } from './foo';",
		"src/foo.ts":       "export const x = 1;",
		"src/foo/index.ts": "export const y = 2;",
	})

	from := modByRel(t, snap, "src/main.ts")
	resolved := snap.Resolve(from.Path, "./foo")

	require.Equal(t, modgraph.ResolvedFile, resolved.Kind)
	assert.Equal(t, filepath.Join(snap.Root(), "src", "foo.ts"), resolved.Path)
}

func TestResolve_ExtensionOrder(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/main.ts":  "",
		"src/Card.tsx": "export default function Card() {}",
		"src/Card.jsx": "export default function Card() {}",
	})

	from := modByRel(t, snap, "src/main.ts")
	resolved := snap.Resolve(from.Path, "./Card")

	require.Equal(t, modgraph.ResolvedFile, resolved.Kind)
	assert.Equal(t, filepath.Join(snap.Root(), "src", "Card.tsx"), resolved.Path)
}

func TestResolve_DirectoryIndexOrder(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/main.ts":         "",
		"src/views/index.ts":  "export * from './Home';",
		"src/views/index.tsx": "export default function Views() {}",
		"src/views/Home.tsx":  "export const Home = 1;",
	})

	from := modByRel(t, snap, "src/main.ts")
	resolved := snap.Resolve(from.Path, "./views")

	require.Equal(t, modgraph.ResolvedFile, resolved.Kind)
	assert.Equal(t, filepath.Join(snap.Root(), "src", "views", "index.ts"), resolved.Path)
}

func TestResolve_ParentRelative(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/components/UserList.tsx": "",
		"src/types/index.ts":          "export interface User {}",
	})

	from := modByRel(t, snap, "src/components/UserList.tsx")
	resolved := snap.Resolve(from.Path, "../types")

	require.Equal(t, modgraph.ResolvedFile, resolved.Kind)
	assert.Equal(t, filepath.Join(snap.Root(), "src", "types", "index.ts"), resolved.Path)
}

func TestResolve_Unresolved(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{"src/main.ts": ""})

	from := modByRel(t, snap, "src/main.ts")

	assert.Equal(t, modgraph.ResolvedNone, snap.Resolve(from.Path, "./missing").Kind)
	assert.Equal(t, modgraph.ResolvedNone, snap.Resolve(from.Path, "../outside/missing").Kind)
}

func TestResolve_ExternalPackage(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{"src/main.ts": ""})

	from := modByRel(t, snap, "src/main.ts")

	resolved := snap.Resolve(from.Path, "react-dom/client")
	require.Equal(t, modgraph.ResolvedPackage, resolved.Kind)
	assert.Equal(t, "react-dom", resolved.Package)

	scoped := snap.Resolve(from.Path, "@vitejs/plugin-react")
	require.Equal(t, modgraph.ResolvedPackage, scoped.Kind)
	assert.Equal(t, "@vitejs/plugin-react", scoped.Package)
}

func TestResolve_Stylesheet(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(t, map[string]string{
		"src/main.ts": "",
		"src/app.css": ".app {}",
	})

	from := modByRel(t, snap, "src/main.ts")

	assert.Equal(t, modgraph.ResolvedFile, snap.Resolve(from.Path, "./app.css").Kind)
	assert.Equal(t, modgraph.ResolvedNone, snap.Resolve(from.Path, "./missing.css").Kind)
}
