package schema

import (
	"fmt"
	"reflect"
	"time"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/tagly/format"
)

// schemaForTypeInternal returns a JSON schema representation for a given reflect.Type.
// The inSlice flag is used to determine if we are processing an element inside a slice.
func schemaForTypeInternal(t reflect.Type, inSlice bool) map[string]interface{} {
	schema := make(map[string]interface{})

	// time.Time is an ISO 8601 string
	if t == reflect.TypeOf(time.Time{}) {
		schema["type"] = "string"
		schema["format"] = "date-time"
		return schema
	}

	if t.Kind() == reflect.Ptr {
		schema = schemaForTypeInternal(t.Elem(), inSlice)
		if !inSlice {
			schema["nullable"] = true
		}
		return schema
	}

	switch t.Kind() {
	case reflect.Bool:
		schema["type"] = "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema["type"] = "integer"
	case reflect.Float32, reflect.Float64:
		schema["type"] = "number"
	case reflect.String:
		schema["type"] = "string"
	case reflect.Slice, reflect.Array:
		schema["type"] = "array"
		schema["items"] = schemaForTypeInternal(t.Elem(), true)
	case reflect.Map:
		schema["type"] = "object"
		schema["additionalProperties"] = schemaForTypeInternal(t.Elem(), false)
	case reflect.Struct:
		schema["type"] = "object"
		properties, required := structToProperties(t)
		schema["properties"] = properties
		if len(required) > 0 {
			schema["required"] = required
		}
	case reflect.Interface:
		// any value
	default:
		schema["type"] = "string"
	}
	return schema
}

// structToProperties converts a struct type into input schema properties and required fields.
// Fields tagged `json:",omitempty"` or of pointer type are optional; a `description` tag is copied.
func structToProperties(t reflect.Type) (mcpschema.ToolInputSchemaProperties, []string) {
	properties := make(mcpschema.ToolInputSchemaProperties)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, _ := format.Parse(field.Tag, "json", "format")
		if tag == nil {
			tag = &format.Tag{}
		}
		if tag.Ignore {
			continue
		}
		name := field.Name
		if tag.Name != "" {
			name = tag.Name
		}
		fieldSchema := schemaForTypeInternal(field.Type, false)
		if description := field.Tag.Get("description"); description != "" {
			fieldSchema["description"] = description
		}
		if tag.DateFormat != "" {
			fieldSchema["format"] = tag.DateFormat
		}
		properties[name] = fieldSchema
		if field.Type.Kind() != reflect.Ptr && !tag.Omitempty {
			required = append(required, name)
		}
	}
	return properties, required
}

// LoadInputSchema builds a tool input schema from a struct (or pointer to struct).
func LoadInputSchema(v interface{}) (mcpschema.ToolInputSchema, error) {
	ret := mcpschema.ToolInputSchema{Type: "object"}
	t := reflect.TypeOf(v)
	if t == nil {
		return ret, fmt.Errorf("expected a struct type, got nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ret, fmt.Errorf("expected a struct type, got %s", t.Kind())
	}
	ret.Properties, ret.Required = structToProperties(t)
	return ret, nil
}
