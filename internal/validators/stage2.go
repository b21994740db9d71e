package validators

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	reactComponentPattern = regexp.MustCompile(`(React\.FC|function\s+\w+|const\s+\w+[^\n]*=>)`)
	requireCallPattern    = regexp.MustCompile(`=\s*require\s*\(`)
	moduleExportsPattern  = regexp.MustCompile(`module\.exports\s*=`)
	formTagPattern        = regexp.MustCompile(`<form[\s>]`)
)

// operationMethods maps ERD operations to the service method each one is
// generated as.
var operationMethods = map[string]string{
	"list":   "getAll",
	"read":   "getById",
	"create": "create",
	"update": "update",
	"delete": "delete",
}

// Stage2 validates the types/services/components stage: one type definition,
// service object, and component pair per entity, plus barrel exports and
// module hygiene.
type Stage2 struct{}

// Descriptor implements Validator.
func (*Stage2) Descriptor() Descriptor {
	return Descriptor{
		Stage:       2,
		Name:        "entity-scaffolding",
		Description: "per-entity types, services, components, and barrels",
	}
}

// Validate implements Validator.
func (v *Stage2) Validate(_ context.Context, in *Inputs) Outcome {
	var c collector

	entities := entitiesFromOpenAPI(in.OpenAPI, in.ERD)

	c.check()

	if len(entities) == 0 {
		c.errorf(KindMissingInput, "openapi.json",
			"no entities could be derived from the contract or the erd")

		return c.outcome()
	}

	for _, entity := range entities {
		v.checkTypes(&c, in, entity)
		v.checkService(&c, in, entity)
		v.checkComponents(&c, in, entity)
	}

	v.checkBarrels(&c, in, entities)

	c.check()
	checkModuleHygiene(&c, in, "src/")

	c.check()
	c.merge(runEngine(in))

	return c.outcome()
}

func (v *Stage2) checkTypes(c *collector, in *Inputs, entity string) {
	c.check()

	rel := fmt.Sprintf("src/types/%s.types.ts", entity)

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	for _, suffix := range []string{"", "Create", "Update"} {
		if !hasExportedInterface(text, entity+suffix) {
			c.errorf(KindMissingPattern, rel, "missing exported interface %s%s", entity, suffix)
		}
	}

	if !hasExportedInterface(text, entity+"Response") {
		c.warnf(KindMissingPattern, rel, "no %sResponse interface declared", entity)
	}

	v.checkInterfaceFields(c, in, rel, text, entity)
}

// checkInterfaceFields cross-checks the base interface body against the ERD
// field list when the document is available.
func (*Stage2) checkInterfaceFields(c *collector, in *Inputs, rel, text, entity string) {
	if in.ERD == nil {
		return
	}

	for _, declared := range in.ERD.Entities {
		if declared.Name != entity {
			continue
		}

		body := interfaceBody(text, entity)
		if body == "" {
			return
		}

		for name := range declared.Fields {
			if !regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\??\s*:`).MatchString(body) {
				c.warnf(KindMissingPattern, rel,
					"interface %s does not declare field %q from the erd", entity, name)
			}
		}

		return
	}
}

func (*Stage2) checkService(c *collector, in *Inputs, entity string) {
	c.check()

	camel := lowerFirst(entity)
	rel := fmt.Sprintf("src/services/%s.service.ts", camel)

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !regexp.MustCompile(`export\s+const\s+` + camel + `Service\s*=`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing exported const %sService", camel)
	}

	if !strings.Contains(text, "./api") && !strings.Contains(text, "../config/api") {
		c.errorf(KindMissingPattern, rel, "service does not import the shared api client")
	}

	if !strings.Contains(text, entity) {
		c.warnf(KindMissingPattern, rel, "service does not reference the %s types", entity)
	}

	if in.ERD == nil {
		return
	}

	for _, declared := range in.ERD.Entities {
		if declared.Name != entity {
			continue
		}

		for _, op := range declared.Operations {
			method, ok := operationMethods[op]
			if !ok {
				continue
			}

			if !regexp.MustCompile(`\b` + method + `\s*[:(=<]`).MatchString(text) {
				c.errorf(KindMissingPattern, rel,
					"operation %q requires a %s method on %sService", op, method, camel)
			}
		}

		return
	}
}

func (*Stage2) checkComponents(c *collector, in *Inputs, entity string) {
	c.check()

	listRel := fmt.Sprintf("src/components/%sList.tsx", entity)
	if text, ok := c.requireFile(in, listRel); ok {
		if !reactComponentPattern.MatchString(text) {
			c.errorf(KindMissingPattern, listRel, "no React component definition found")
		}
	}

	formRel := fmt.Sprintf("src/components/%sForm.tsx", entity)
	if text, ok := c.requireFile(in, formRel); ok {
		if !formTagPattern.MatchString(text) {
			c.warnf(KindMissingPattern, formRel, "component renders no <form> element")
		}

		if !strings.Contains(text, entity+"Create") && !strings.Contains(text, entity+"Update") {
			c.warnf(KindMissingPattern, formRel, "form does not use the %s DTO types", entity)
		}
	}
}

func (*Stage2) checkBarrels(c *collector, in *Inputs, entities []string) {
	barrels := []struct {
		rel     string
		entries func(entity string) []string
	}{
		{"src/types/index.ts", func(entity string) []string {
			return []string{fmt.Sprintf("./%s.types", entity)}
		}},
		{"src/services/index.ts", func(entity string) []string {
			return []string{fmt.Sprintf("./%s.service", lowerFirst(entity))}
		}},
		{"src/components/index.ts", func(entity string) []string {
			return []string{fmt.Sprintf("./%sList", entity), fmt.Sprintf("./%sForm", entity)}
		}},
	}

	for _, barrel := range barrels {
		c.check()

		text, ok := c.requireFile(in, barrel.rel)
		if !ok {
			continue
		}

		if !strings.Contains(text, "export") {
			c.errorf(KindMissingPattern, barrel.rel, "barrel file contains no export statements")

			continue
		}

		for _, entity := range entities {
			for _, entry := range barrel.entries(entity) {
				if !strings.Contains(text, entry) {
					c.warnf(KindMissingPattern, barrel.rel, "barrel does not re-export %q", entry)
				}
			}
		}
	}
}

// hasExportedInterface reports an `export interface Name` declaration.
func hasExportedInterface(text, name string) bool {
	return regexp.MustCompile(`export\s+interface\s+` + regexp.QuoteMeta(name) + `\b`).MatchString(text)
}

// interfaceBody returns the first brace block of the named interface, empty
// when not found. Lexical; nested braces inside the body are tolerated only
// until the first unbalanced close.
func interfaceBody(text, name string) string {
	pattern := regexp.MustCompile(`export\s+interface\s+` + regexp.QuoteMeta(name) + `\b[^{]*\{`)

	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	depth := 1
	for i := loc[1]; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[loc[1]:i]
			}
		}
	}

	return text[loc[1]:]
}

// checkModuleHygiene flags CommonJS constructs in the ES-module tree.
func checkModuleHygiene(c *collector, in *Inputs, prefix string) {
	for _, mod := range in.ModulesUnder(prefix) {
		if requireCallPattern.MatchString(mod.Text) {
			c.errorf(KindStyleViolation, mod.Rel, "CommonJS require() call in an ES module")
		}

		if moduleExportsPattern.MatchString(mod.Text) {
			c.errorf(KindStyleViolation, mod.Rel, "module.exports assignment in an ES module")
		}
	}
}
