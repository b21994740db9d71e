package erd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// OpenAPI is the subset of the pipeline's OpenAPI contract the validators
// consume: the path map with its per-method operations.
type OpenAPI struct {
	OpenAPIVersion string                          `json:"openapi"`
	Paths          map[string]map[string]Operation `json:"paths"`
}

// Operation is one path+method entry.
type Operation struct {
	OperationID string `json:"operationId"`
	Summary     string `json:"summary"`
}

// LoadOpenAPI reads and decodes an OpenAPI JSON contract.
func LoadOpenAPI(path string) (*OpenAPI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi %s: %w", path, err)
	}

	var doc OpenAPI

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode openapi %s: %w", path, err)
	}

	return &doc, nil
}

// HasPath reports whether the contract declares the given path, treating
// path parameters as wildcards (/users/{id} matches /users/3 templates by
// segment shape, not by value).
func (o *OpenAPI) HasPath(path string) bool {
	if _, ok := o.Paths[path]; ok {
		return true
	}

	want := strings.Split(strings.Trim(path, "/"), "/")

	for declared := range o.Paths {
		have := strings.Split(strings.Trim(declared, "/"), "/")
		if segmentsMatch(want, have) {
			return true
		}
	}

	return false
}

// segmentsMatch compares path segments, letting {param} segments match any
// value on either side.
func segmentsMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] == b[i] {
			continue
		}

		if isParam(a[i]) || isParam(b[i]) {
			continue
		}

		return false
	}

	return true
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
