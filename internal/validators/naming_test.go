package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stagegate-dev/stagegate/pkg/erd"
)

func TestSingularize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"tasks":      "task",
		"categories": "category",
		"statuses":   "status",
		"boxes":      "box",
		"user":       "user",
		"address":    "address",
	}

	for plural, singular := range cases {
		assert.Equal(t, singular, singularize(plural), plural)
	}
}

func TestUpperSnake(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TASK", upperSnake("Task"))
	assert.Equal(t, "USER_FORM", upperSnake("UserForm"))
	assert.Equal(t, "ORDER_LINE_ITEM", upperSnake("OrderLineItem"))
}

func TestEntitiesFromOpenAPI(t *testing.T) {
	t.Parallel()

	contract := &erd.OpenAPI{Paths: map[string]map[string]erd.Operation{
		"/api/tasks":          {},
		"/api/tasks/{id}":     {},
		"/api/v1/categories":  {},
		"/health":             {},
		"/api/users/{userId}": {},
	}}

	assert.Equal(t, []string{"Category", "Task", "User"}, entitiesFromOpenAPI(contract, nil))
}

func TestEntitiesFromOpenAPI_FallsBackToERD(t *testing.T) {
	t.Parallel()

	doc := &erd.Document{Entities: []erd.Entity{{Name: "Invoice"}, {Name: "Customer"}}}

	assert.Equal(t, []string{"Invoice", "Customer"}, entitiesFromOpenAPI(nil, doc))
}
