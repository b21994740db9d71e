package validators

import (
	"regexp"
	"sort"
	"strings"

	"github.com/stagegate-dev/stagegate/pkg/erd"
)

// apiEntityPattern extracts the collection segment from an API path, with an
// optional version segment: /api/users and /api/v1/users both yield "users".
var apiEntityPattern = regexp.MustCompile(`^/api/(?:v\d+/)?(\w+)`)

// camelBoundaryPattern finds lower-to-upper transitions for snake casing.
var camelBoundaryPattern = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// singularize strips the common plural suffixes used by generated API
// collections. It is intentionally naive; the pipeline names collections
// with regular plurals.
func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ses"), strings.HasSuffix(word, "xes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	default:
		return word
	}
}

// capitalize upper-cases the first byte of an ASCII identifier.
func capitalize(word string) string {
	if word == "" {
		return word
	}

	return strings.ToUpper(word[:1]) + word[1:]
}

// lowerFirst lower-cases the first byte of an ASCII identifier.
func lowerFirst(word string) string {
	if word == "" {
		return word
	}

	return strings.ToLower(word[:1]) + word[1:]
}

// upperSnake converts CamelCase to UPPER_SNAKE_CASE: UserForm -> USER_FORM.
func upperSnake(name string) string {
	return strings.ToUpper(camelBoundaryPattern.ReplaceAllString(name, `${1}_${2}`))
}

// entitiesFromOpenAPI derives the entity names the generator worked from by
// scanning the contract's API paths. Falls back to the ERD entity list when
// no contract is available.
func entitiesFromOpenAPI(contract *erd.OpenAPI, doc *erd.Document) []string {
	seen := make(map[string]struct{})

	var names []string

	add := func(name string) {
		if name == "" {
			return
		}

		if _, dup := seen[name]; dup {
			return
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	if contract != nil {
		for path := range contract.Paths {
			match := apiEntityPattern.FindStringSubmatch(path)
			if match == nil {
				continue
			}

			add(capitalize(singularize(match[1])))
		}

		sort.Strings(names)
	}

	if len(names) == 0 && doc != nil {
		for _, entity := range doc.Entities {
			add(entity.Name)
		}
	}

	return names
}
