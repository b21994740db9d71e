package erd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/pkg/erd"
)

// validERD is a minimal document that conforms to the schema.
const validERD = `{
  "project_info": {"name": "taskapp", "total_entities": 2, "entity_complexity": "simple"},
  "entities": [
    {
      "name": "User",
      "description": "Application user",
      "fields": {
        "id": {"type": "integer", "constraints": ["primary_key"], "description": "PK"},
        "createdAt": {"type": "datetime", "constraints": ["required"], "description": "created"},
        "updatedAt": {"type": "datetime", "constraints": ["required"], "description": "updated"}
      },
      "operations": ["create", "read", "list"],
      "relationships": [{"type": "has_many", "related_entity": "Task", "description": "owns"}]
    },
    {
      "name": "Task",
      "description": "A task",
      "fields": {
        "id": {"type": "integer", "constraints": ["primary_key"], "description": "PK"},
        "createdAt": {"type": "datetime", "constraints": ["required"], "description": "created"},
        "updatedAt": {"type": "datetime", "constraints": ["required"], "description": "updated"}
      },
      "operations": ["create", "read", "update", "delete", "list"],
      "relationships": [{"type": "belongs_to", "related_entity": "User", "description": "owner"}]
    }
  ],
  "relationships": [
    {"from_entity": "User", "to_entity": "Task", "relationship_type": "one_to_many", "foreign_key": "userId", "description": "user tasks"}
  ],
  "frontend_pages": [
    {"name": "TaskList", "description": "list", "entities_used": ["Task"], "operations": ["list"]}
  ],
  "business_logic": {
    "authentication": {"enabled": true, "method": "token", "login_fields": ["email"], "password_requirements": {"min_length": 8}},
    "authorization": {"role_based": true, "roles": ["admin"], "permissions": {}, "resource_permissions": {}}
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_ValidDocument(t *testing.T) {
	t.Parallel()

	doc, raw, err := erd.Load(writeFile(t, "erd.json", validERD))
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	assert.Equal(t, "taskapp", doc.ProjectInfo.Name)
	assert.Equal(t, 2, doc.ProjectInfo.TotalEntities)
	require.Len(t, doc.Entities, 2)
	assert.Equal(t, "User", doc.Entities[0].Name)
	assert.Contains(t, doc.EntityNames(), "Task")
	require.Len(t, doc.Relationships, 1)
	assert.Equal(t, "one_to_many", doc.Relationships[0].RelationshipType)
}

func TestValidateSchema_Conforming(t *testing.T) {
	t.Parallel()

	violations, err := erd.ValidateSchema([]byte(validERD))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateSchema_MissingSection(t *testing.T) {
	t.Parallel()

	violations, err := erd.ValidateSchema([]byte(`{"project_info": {"name": "x", "total_entities": 1, "entity_complexity": "simple"}}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}

func TestValidateSchema_BadEnum(t *testing.T) {
	t.Parallel()

	bad := `{
  "project_info": {"name": "x", "total_entities": 1, "entity_complexity": "extreme"},
  "entities": [{"name": "A", "description": "", "fields": {}, "operations": [], "relationships": []}],
  "relationships": [],
  "frontend_pages": [],
  "business_logic": {"authentication": {}, "authorization": {}}
}`

	violations, err := erd.ValidateSchema([]byte(bad))
	require.NoError(t, err)
	require.NotEmpty(t, violations)
}

func TestLoadOpenAPI_And_HasPath(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "openapi.json", `{
  "openapi": "3.0.0",
  "paths": {
    "/api/users": {"get": {"operationId": "listUsers"}},
    "/api/users/{id}": {"get": {"operationId": "getUser"}}
  }
}`)

	doc, err := erd.LoadOpenAPI(path)
	require.NoError(t, err)

	assert.True(t, doc.HasPath("/api/users"))
	assert.True(t, doc.HasPath("/api/users/{userId}"))
	assert.False(t, doc.HasPath("/api/tasks"))
	assert.False(t, doc.HasPath("/api/users/{id}/posts"))
}
