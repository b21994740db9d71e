package modgraph

import (
	"regexp"
	"strings"
)

// ImportKind tags the shape of one requested symbol.
type ImportKind int

// Import shapes.
const (
	// ImportNamed is a `import { X } from ...` request.
	ImportNamed ImportKind = iota
	// ImportDefault is a `import X from ...` request.
	ImportDefault
	// ImportNamespace is a `import * as X from ...` request.
	ImportNamespace
)

// ImportedSymbol is one requested symbol with its shape tag.
type ImportedSymbol struct {
	Name string
	Kind ImportKind
}

// ImportStatement is one import extracted from a module: the ordered symbol
// requests and the raw specifier string.
type ImportStatement struct {
	Symbols   []ImportedSymbol
	Specifier string
}

var (
	namedImportPattern = regexp.MustCompile(
		`import\s*(?:type\s+)?\{\s*([^}]+?)\s*\}\s*from\s*['"]([^'"]+)['"]`)
	defaultImportPattern = regexp.MustCompile(
		`import\s+(\w+)\s+from\s+['"]([^'"]+)['"]`)
	namespaceImportPattern = regexp.MustCompile(
		`import\s*\*\s*as\s+(\w+)\s+from\s+['"]([^'"]+)['"]`)
)

// ExtractImports scans one module's source text for its import statements.
// Side-effect imports (`import './x.css'`) carry no symbols and are not
// reported. The scan is lexical, matching the extractor's conventions.
func ExtractImports(text string) []ImportStatement {
	var statements []ImportStatement

	for _, match := range namedImportPattern.FindAllStringSubmatch(text, -1) {
		symbols := parseNamedImportList(match[1])
		if len(symbols) == 0 {
			continue
		}

		statements = append(statements, ImportStatement{
			Symbols:   symbols,
			Specifier: match[2],
		})
	}

	for _, match := range defaultImportPattern.FindAllStringSubmatch(text, -1) {
		if match[1] == "type" {
			continue
		}

		statements = append(statements, ImportStatement{
			Symbols:   []ImportedSymbol{{Name: match[1], Kind: ImportDefault}},
			Specifier: match[2],
		})
	}

	for _, match := range namespaceImportPattern.FindAllStringSubmatch(text, -1) {
		statements = append(statements, ImportStatement{
			Symbols:   []ImportedSymbol{{Name: match[1], Kind: ImportNamespace}},
			Specifier: match[2],
		})
	}

	return statements
}

// parseNamedImportList splits a brace list into named symbol requests. The
// pre-alias name is what must exist on the target, so `X as Y` requests X.
func parseNamedImportList(list string) []ImportedSymbol {
	var symbols []ImportedSymbol

	for _, item := range strings.Split(list, ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "type" && len(fields) > 1 {
			fields = fields[1:]
		}

		symbols = append(symbols, ImportedSymbol{Name: fields[0], Kind: ImportNamed})
	}

	return symbols
}
