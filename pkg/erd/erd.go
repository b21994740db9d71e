// Package erd models the entity-relationship document and OpenAPI contract
// that drive the scaffolding pipeline. Validators load these inputs once per
// run and check the generated tree against them.
package erd

import (
	"encoding/json"
	"fmt"
	"os"
)

// Valid enumerations for ERD attributes.
var (
	// ValidFieldTypes are the storable field types.
	ValidFieldTypes = newSet("integer", "float", "string", "boolean", "datetime", "json", "array", "text")
	// ValidConstraints are the recognized field constraints. Parameterized
	// constraints (max_length:N and friends) are validated by prefix.
	ValidConstraints = newSet("primary_key", "auto_increment", "required", "unique", "foreign_key", "indexed")
	// ValidOperations are the CRUD operations an entity or page may declare.
	ValidOperations = newSet("create", "read", "update", "delete", "list")
	// ValidEntityRelationshipTypes are per-entity relationship kinds.
	ValidEntityRelationshipTypes = newSet("has_many", "belongs_to", "many_to_many", "has_one")
	// ValidGlobalRelationshipTypes are document-level relationship kinds.
	ValidGlobalRelationshipTypes = newSet("one_to_many", "many_to_one", "one_to_one", "many_to_many")
	// ValidAuthMethods are the supported authentication methods.
	ValidAuthMethods = newSet("session", "token", "oauth", "none")
	// ValidComplexityLevels are the declared entity complexity levels.
	ValidComplexityLevels = newSet("simple", "moderate", "complex")
)

func newSet(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}

	return out
}

// Document is the parsed ERD input.
type Document struct {
	ProjectInfo   ProjectInfo    `json:"project_info"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	FrontendPages []Page         `json:"frontend_pages"`
	BusinessLogic BusinessLogic  `json:"business_logic"`
}

// ProjectInfo carries document-level metadata.
type ProjectInfo struct {
	Name             string `json:"name"`
	TotalEntities    int    `json:"total_entities"`
	EntityComplexity string `json:"entity_complexity"`
}

// Entity is one modeled entity with its fields and operations.
type Entity struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Fields        map[string]Field     `json:"fields"`
	Operations    []string             `json:"operations"`
	Relationships []EntityRelationship `json:"relationships"`
}

// Field is one entity attribute.
type Field struct {
	Type        string   `json:"type"`
	Constraints []string `json:"constraints"`
	Description string   `json:"description"`
}

// EntityRelationship is a relationship declared on an entity.
type EntityRelationship struct {
	Type          string `json:"type"`
	RelatedEntity string `json:"related_entity"`
	Description   string `json:"description"`
}

// Relationship is a document-level relationship between two entities.
type Relationship struct {
	FromEntity       string `json:"from_entity"`
	ToEntity         string `json:"to_entity"`
	RelationshipType string `json:"relationship_type"`
	ForeignKey       string `json:"foreign_key"`
	Description      string `json:"description"`
}

// Page is one declared frontend page.
type Page struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	EntitiesUsed []string `json:"entities_used"`
	Operations   []string `json:"operations"`
}

// BusinessLogic groups authentication and authorization declarations.
type BusinessLogic struct {
	Authentication Authentication `json:"authentication"`
	Authorization  Authorization  `json:"authorization"`
}

// Authentication declares the auth method and password policy.
type Authentication struct {
	Enabled              bool           `json:"enabled"`
	Method               string         `json:"method"`
	LoginFields          []string       `json:"login_fields"`
	PasswordRequirements map[string]any `json:"password_requirements"`
}

// Authorization declares role-based access rules.
type Authorization struct {
	RoleBased           bool                           `json:"role_based"`
	Roles               []string                       `json:"roles"`
	Permissions         map[string]any                 `json:"permissions"`
	ResourcePermissions map[string]map[string][]string `json:"resource_permissions"`
}

// EntityNames returns the set of declared entity names.
func (d *Document) EntityNames() map[string]struct{} {
	out := make(map[string]struct{}, len(d.Entities))
	for _, entity := range d.Entities {
		out[entity.Name] = struct{}{}
	}

	return out
}

// Load reads and decodes an ERD document. The raw bytes are returned
// alongside the model so schema validation can run on the exact input.
func Load(path string) (*Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read erd %s: %w", path, err)
	}

	var doc Document

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, nil, fmt.Errorf("decode erd %s: %w", path, err)
	}

	return &doc, data, nil
}
