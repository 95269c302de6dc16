// Package openapi derives the form's field schema from an OpenAPI document,
// so the record shape can live next to the API contract instead of in code.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Extensions recognized on the request body schema and its properties.
const (
	extFieldOrder = "x-field-order"
	extValidator  = "x-validator"
)

// LoadFields reads an OpenAPI document from disk and extracts the field
// schema from the named operation's JSON request body.
func LoadFields(ctx context.Context, path, operationID string) (schema.Fields, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read document: %w", err)
	}
	return FieldsFromData(ctx, raw, operationID)
}

// FieldsFromData extracts the field schema from raw OpenAPI content.
func FieldsFromData(ctx context.Context, raw []byte, operationID string) (schema.Fields, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestBodySchema(operation)
	if body == nil {
		return nil, fmt.Errorf("openapi: operation %q has no JSON request body schema", operationID)
	}

	fields, err := fieldsFromSchema(body)
	if err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("openapi: derived schema invalid: %w", err)
	}
	return fields, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media, ok := operation.RequestBody.Value.Content["application/json"]
	if !ok || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

func fieldsFromSchema(body *openapi3.Schema) (schema.Fields, error) {
	if len(body.Properties) == 0 {
		return nil, errors.New("openapi: request body schema has no properties")
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	names, err := propertyOrder(body)
	if err != nil {
		return nil, err
	}

	fields := make(schema.Fields, 0, len(names))
	for _, name := range names {
		ref, ok := body.Properties[name]
		if !ok || ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("openapi: ordered property %q not in schema", name)
		}
		property := ref.Value

		field := schema.FieldDescriptor{
			Name:        name,
			Label:       labelFor(property.Title, name),
			Kind:        kindFor(property),
			Required:    required[name],
			Placeholder: placeholderFor(property),
		}
		field.Validator = validatorFor(property, field.Kind, field.Required)
		fields = append(fields, field)
	}
	return fields, nil
}

// propertyOrder returns property names in presentation order. Properties in
// kin-openapi are an unordered map, so an explicit x-field-order extension
// wins; without one the names sort alphabetically for stable output.
func propertyOrder(body *openapi3.Schema) ([]string, error) {
	raw, ok := body.Extensions[extFieldOrder]
	if !ok {
		names := make([]string, 0, len(body.Properties))
		for name := range body.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("openapi: %s must be an array of property names", extFieldOrder)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("openapi: %s entries must be non-empty strings", extFieldOrder)
		}
		names = append(names, name)
	}
	return names, nil
}

func kindFor(property *openapi3.Schema) schema.FieldKind {
	switch property.Format {
	case "email":
		return schema.FieldEmail
	case "tel", "phone":
		return schema.FieldTel
	case "date":
		return schema.FieldDate
	default:
		return schema.FieldText
	}
}

// validatorFor consults the x-validator extension first, then falls back to
// the kind's default validator. Optional free-text fields get none.
func validatorFor(property *openapi3.Schema, kind schema.FieldKind, required bool) string {
	if raw, ok := property.Extensions[extValidator]; ok {
		if name, ok := raw.(string); ok {
			return strings.TrimSpace(name)
		}
	}

	switch kind {
	case schema.FieldEmail:
		return schema.ValidatorEmail
	case schema.FieldTel:
		return schema.ValidatorPhone
	case schema.FieldDate:
		return schema.ValidatorDate
	default:
		if required {
			return schema.ValidatorName
		}
		return ""
	}
}

func placeholderFor(property *openapi3.Schema) string {
	if property.Example == nil {
		return ""
	}
	if example, ok := property.Example.(string); ok {
		return example
	}
	return ""
}

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// labelFor prefers the schema's title, otherwise humanizes the property name
// by splitting on underscores/dashes and camelCase boundaries.
func labelFor(title, name string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	words := strings.Fields(word)
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}
