package modgraph

import (
	"regexp"
	"strings"
)

// Extraction is lexical, not syntactic: declaration and re-export forms are
// recognized by pattern over the raw text. Irregular whitespace is tolerated;
// export-like text inside comments or string literals is not distinguished.
// That mirrors the generator's own conventions and keeps the extractor a pure
// function of the module text.
var (
	declExportPattern = regexp.MustCompile(
		`export\s+(?:async\s+)?(?:interface|type|const|let|var|function|class)\s+(\w+)`)
	exportListPattern = regexp.MustCompile(
		`export\s*\{\s*([^}]*?)\s*\}(?:\s*from\s*['"]([^'"]+)['"])?`)
	wildcardExportPattern = regexp.MustCompile(
		`export\s*\*\s*from\s*['"]([^'"]+)['"]`)
	defaultExportPattern = regexp.MustCompile(`export\s+default\b`)
)

// defaultName is the reserved export name marking a default export inside
// a re-export list.
const defaultName = "default"

// ExportAlias is one entry of an export list. Source is the name as written
// before any `as` clause; Exported is the outward-visible name.
type ExportAlias struct {
	Source   string
	Exported string
}

// ReexportEdge is a grouped re-export list that names a source module. The
// edge is pending: the graph builder decides how its entries contribute to
// the final export set.
type ReexportEdge struct {
	Entries   []ExportAlias
	Specifier string
}

// RawExports is the direct, non-transitive extraction result for one module.
type RawExports struct {
	// Direct holds declaration-bound exported names, in appearance order.
	Direct []string
	// LocalLists holds entries of sourceless export lists (local aliasing
	// of already-declared names).
	LocalLists []ExportAlias
	// Reexports holds pending named re-export edges.
	Reexports []ReexportEdge
	// Wildcards holds pending wildcard edge specifiers, in order. A module
	// can carry more than one.
	Wildcards []string
	// HasDefault marks a default-export declaration.
	HasDefault bool
}

// ExtractExports scans one module's source text for everything it exports
// directly. Transitive forms (named and wildcard re-exports naming a source
// module) are returned as pending edges, not resolved here.
func ExtractExports(text string) RawExports {
	var raw RawExports

	for _, match := range declExportPattern.FindAllStringSubmatch(text, -1) {
		raw.Direct = append(raw.Direct, match[1])
	}

	for _, match := range exportListPattern.FindAllStringSubmatch(text, -1) {
		entries := parseExportList(match[1])
		if len(entries) == 0 {
			continue
		}

		if match[2] == "" {
			raw.LocalLists = append(raw.LocalLists, entries...)
		} else {
			raw.Reexports = append(raw.Reexports, ReexportEdge{
				Entries:   entries,
				Specifier: match[2],
			})
		}
	}

	for _, match := range wildcardExportPattern.FindAllStringSubmatch(text, -1) {
		raw.Wildcards = append(raw.Wildcards, match[1])
	}

	if defaultExportPattern.MatchString(text) {
		raw.HasDefault = true
	}

	return raw
}

// parseExportList splits the interior of an export list into alias entries.
// `foo` yields foo/foo; `foo as bar` yields foo/bar; a leading `type`
// keyword is dropped.
func parseExportList(list string) []ExportAlias {
	var entries []ExportAlias

	for _, item := range strings.Split(list, ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "type" && len(fields) > 1 {
			fields = fields[1:]
		}

		entry := ExportAlias{Source: fields[0], Exported: fields[0]}

		const aliasFieldCount = 3
		if len(fields) >= aliasFieldCount && fields[1] == "as" {
			entry.Exported = fields[2]
		}

		entries = append(entries, entry)
	}

	return entries
}
