package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/stagegate-dev/stagegate/pkg/erd"
)

// stage1Doc is the diagnostic module name for document-level findings.
const stage1Doc = "erd.json"

// parameterizedConstraints are the constraint prefixes that carry a value,
// e.g. max_length:255.
var parameterizedConstraints = []string{
	"max_length:", "min_length:", "min_value:", "max_value:", "default:",
}

// requiredPasswordKeys are the recognized password policy settings.
var requiredPasswordKeys = map[string]struct{}{
	"min_length":            {},
	"require_uppercase":     {},
	"require_lowercase":     {},
	"require_numbers":       {},
	"require_special_chars": {},
}

// Stage1 validates the ERD document: schema conformance first, then the
// cross-section consistency the schema cannot express.
type Stage1 struct{}

// Descriptor implements Validator.
func (*Stage1) Descriptor() Descriptor {
	return Descriptor{
		Stage:       1,
		Name:        "erd-document",
		Description: "ERD schema and structural consistency",
	}
}

// Validate implements Validator.
func (v *Stage1) Validate(_ context.Context, in *Inputs) Outcome {
	var c collector

	c.check()

	if in.ERD == nil {
		c.errorf(KindMissingInput, stage1Doc, "erd document could not be loaded")

		return c.outcome()
	}

	c.check()

	schemaErrors, err := erd.ValidateSchema(in.ERDRaw)
	if err != nil {
		c.errorf(KindInvalidDocument, stage1Doc, "schema validation failed: %v", err)
	}

	for _, schemaErr := range schemaErrors {
		c.errorf(KindInvalidDocument, stage1Doc, "%s", schemaErr.String())
	}

	v.checkProjectInfo(&c, in.ERD)
	v.checkEntities(&c, in.ERD)
	v.checkRelationships(&c, in.ERD)
	v.checkPages(&c, in.ERD)
	v.checkBusinessLogic(&c, in.ERD)

	return c.outcome()
}

func (*Stage1) checkProjectInfo(c *collector, doc *erd.Document) {
	c.check()

	info := doc.ProjectInfo

	if info.Name == "" {
		c.errorf(KindInvalidDocument, stage1Doc, "project_info.name is empty")
	}

	if _, ok := erd.ValidComplexityLevels[info.EntityComplexity]; !ok {
		c.errorf(KindInvalidDocument, stage1Doc,
			"project_info.entity_complexity %q is not a recognized level", info.EntityComplexity)
	}

	if info.TotalEntities != len(doc.Entities) {
		c.errorf(KindInvalidDocument, stage1Doc,
			"project_info.total_entities is %d but %d entities are declared",
			info.TotalEntities, len(doc.Entities))
	}
}

func (v *Stage1) checkEntities(c *collector, doc *erd.Document) {
	c.check()

	if len(doc.Entities) == 0 {
		c.errorf(KindInvalidDocument, stage1Doc, "no entities declared")

		return
	}

	names := doc.EntityNames()

	for _, entity := range doc.Entities {
		module := fmt.Sprintf("%s#%s", stage1Doc, entity.Name)

		if entity.Name != capitalize(entity.Name) {
			c.warnf(KindStyleViolation, module, "entity name should be PascalCase")
		}

		if entity.Name != singularize(entity.Name) {
			c.warnf(KindStyleViolation, module, "entity name should be singular")
		}

		v.checkEntityFields(c, module, entity)
		v.checkEntityOperations(c, module, entity)

		for _, rel := range entity.Relationships {
			if _, ok := erd.ValidEntityRelationshipTypes[rel.Type]; !ok {
				c.errorf(KindInvalidDocument, module,
					"relationship type %q is not recognized", rel.Type)
			}

			if _, ok := names[rel.RelatedEntity]; !ok {
				c.errorf(KindInvalidDocument, module,
					"relationship references unknown entity %q", rel.RelatedEntity)
			}
		}
	}
}

func (*Stage1) checkEntityFields(c *collector, module string, entity erd.Entity) {
	idField, hasID := entity.Fields["id"]
	if !hasID {
		c.errorf(KindInvalidDocument, module, "missing required field \"id\"")
	} else {
		if idField.Type != "integer" {
			c.errorf(KindInvalidDocument, module, "field \"id\" must be integer, got %q", idField.Type)
		}

		if !hasConstraint(idField, "primary_key") {
			c.errorf(KindInvalidDocument, module, "field \"id\" must carry the primary_key constraint")
		}
	}

	for _, stamp := range []string{"createdAt", "updatedAt"} {
		field, ok := entity.Fields[stamp]
		if !ok {
			c.errorf(KindInvalidDocument, module, "missing required field %q", stamp)

			continue
		}

		if field.Type != "datetime" {
			c.errorf(KindInvalidDocument, module, "field %q must be datetime, got %q", stamp, field.Type)
		}

		if !hasConstraint(field, "required") {
			c.warnf(KindInvalidDocument, module, "field %q should carry the required constraint", stamp)
		}
	}

	for name, field := range entity.Fields {
		if _, ok := erd.ValidFieldTypes[field.Type]; !ok {
			c.errorf(KindInvalidDocument, module, "field %q has unrecognized type %q", name, field.Type)
		}

		for _, constraint := range field.Constraints {
			if !validConstraint(constraint) {
				c.errorf(KindInvalidDocument, module,
					"field %q has unrecognized constraint %q", name, constraint)
			}
		}
	}
}

func (*Stage1) checkEntityOperations(c *collector, module string, entity erd.Entity) {
	if len(entity.Operations) == 0 {
		c.warnf(KindInvalidDocument, module, "no operations declared")
	}

	for _, op := range entity.Operations {
		if _, ok := erd.ValidOperations[op]; !ok {
			c.errorf(KindInvalidDocument, module, "operation %q is not recognized", op)
		}
	}
}

func (*Stage1) checkRelationships(c *collector, doc *erd.Document) {
	c.check()

	names := doc.EntityNames()

	for i, rel := range doc.Relationships {
		module := fmt.Sprintf("%s#relationships[%d]", stage1Doc, i)

		if _, ok := erd.ValidGlobalRelationshipTypes[rel.RelationshipType]; !ok {
			c.errorf(KindInvalidDocument, module,
				"relationship type %q is not recognized", rel.RelationshipType)
		}

		for _, entity := range []string{rel.FromEntity, rel.ToEntity} {
			if _, ok := names[entity]; !ok {
				c.errorf(KindInvalidDocument, module, "references unknown entity %q", entity)
			}
		}

		if rel.RelationshipType == "many_to_many" && !strings.Contains(rel.ForeignKey, ",") {
			c.warnf(KindInvalidDocument, module,
				"many_to_many relationships usually declare both join keys, got %q", rel.ForeignKey)
		}
	}
}

func (*Stage1) checkPages(c *collector, doc *erd.Document) {
	c.check()

	names := doc.EntityNames()

	for _, page := range doc.FrontendPages {
		module := fmt.Sprintf("%s#page:%s", stage1Doc, page.Name)

		for _, entity := range page.EntitiesUsed {
			if _, ok := names[entity]; !ok {
				c.errorf(KindInvalidDocument, module, "uses unknown entity %q", entity)
			}
		}

		for _, op := range page.Operations {
			if _, ok := erd.ValidOperations[op]; !ok {
				c.errorf(KindInvalidDocument, module, "operation %q is not recognized", op)
			}
		}
	}
}

func (*Stage1) checkBusinessLogic(c *collector, doc *erd.Document) {
	c.check()

	auth := doc.BusinessLogic.Authentication
	if auth.Enabled {
		if _, ok := erd.ValidAuthMethods[auth.Method]; !ok {
			c.errorf(KindInvalidDocument, stage1Doc,
				"authentication method %q is not recognized", auth.Method)
		}

		if len(auth.LoginFields) == 0 {
			c.errorf(KindInvalidDocument, stage1Doc, "authentication enabled without login_fields")
		}

		for key := range auth.PasswordRequirements {
			if _, ok := requiredPasswordKeys[key]; !ok {
				c.warnf(KindInvalidDocument, stage1Doc,
					"unrecognized password requirement %q", key)
			}
		}
	}

	authz := doc.BusinessLogic.Authorization
	if authz.RoleBased && len(authz.Roles) == 0 {
		c.errorf(KindInvalidDocument, stage1Doc, "role-based authorization declared without roles")
	}

	names := doc.EntityNames()
	for entity := range authz.ResourcePermissions {
		if _, ok := names[entity]; !ok {
			c.warnf(KindInvalidDocument, stage1Doc,
				"resource_permissions references unknown entity %q", entity)
		}
	}
}

func hasConstraint(field erd.Field, name string) bool {
	for _, constraint := range field.Constraints {
		if constraint == name {
			return true
		}
	}

	return false
}

func validConstraint(constraint string) bool {
	if _, ok := erd.ValidConstraints[constraint]; ok {
		return true
	}

	for _, prefix := range parameterizedConstraints {
		if strings.HasPrefix(constraint, prefix) {
			return true
		}
	}

	return false
}
