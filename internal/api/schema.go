package api

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/bayesdx/internal/service"
)

//go:embed schemas/requests.json
var requestSchemas []byte

const schemaURL = "schema://bayesdx/requests.json"

// schemaCache caches compiled request schemas by operation.
var schemaCache sync.Map // map[service.Operation]*jsonschema.Schema

// validateBody checks a raw request body against the schema of op.
// Returns *requestError on failure.
func validateBody(op service.Operation, raw []byte) error {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &requestError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	compiled, err := compiledSchema(op)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", op, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return &requestError{Reason: schemaMessage(err)}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(op service.Operation) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(op); ok {
		return cached.(*jsonschema.Schema), nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(requestSchemas))
	if err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL + "#/$defs/" + string(op))
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(op, compiled)
	return compiled, nil
}

// schemaMessage flattens a multi-line validation error into one line.
func schemaMessage(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), "-"))
	}
	return strings.Join(lines, "; ")
}
