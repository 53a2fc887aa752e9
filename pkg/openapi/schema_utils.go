package openapi

import (
	"mime/multipart"
	"reflect"
	"strings"
)

var fileHeaderType = reflect.TypeOf(multipart.FileHeader{})

// GenerateSchema describes the JSON shape of v. Nil yields nil.
func GenerateSchema(v any) *Schema {
	if v == nil {
		return nil
	}
	return schemaFor(reflect.TypeOf(v))
}

func schemaFor(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case t == fileHeaderType:
		return &Schema{Type: "string", Format: "binary"}
	case t.Kind() == reflect.Struct:
		return objectSchema(t)
	case t.Kind() == reflect.Slice:
		return &Schema{Type: "array", Items: schemaFor(t.Elem())}
	case t.Kind() == reflect.Bool:
		return &Schema{Type: "boolean"}
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		return &Schema{Type: "integer"}
	default:
		return &Schema{Type: "string"}
	}
}

// objectSchema follows encoding/json naming: json tags win, "-" is skipped
// and untagged embedded structs are flattened into the parent.
func objectSchema(t reflect.Type) *Schema {
	schema := &Schema{Type: "object", Properties: make(map[string]*Schema)}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || (!field.IsExported() && !field.Anonymous) {
			continue
		}

		if field.Anonymous && name == "" {
			if inner := schemaFor(field.Type); inner.Type == "object" {
				for k, v := range inner.Properties {
					schema.Properties[k] = v
				}
				continue
			}
		}

		if name == "" {
			name = field.Name
		}
		schema.Properties[name] = schemaFor(field.Type)
	}
	return schema
}
