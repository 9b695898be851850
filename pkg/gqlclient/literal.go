package gqlclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Literal encodes value as a GraphQL literal of the declared type. Scalars
// are written as JSON, enums as bare names, input objects as {key: value}
// with keys in declared order and lists as [a, b].
func (s *Schema) Literal(ref TypeRef, value any) (string, error) {
	if isNil(value) {
		return "null", nil
	}

	if ref.Elem != nil {
		return s.listLiteral(*ref.Elem, value)
	}

	if s.IsEnum(ref.Name) {
		return enumLiteral(value)
	}

	if in, ok := s.Input(ref.Name); ok {
		return s.objectLiteral(in, value)
	}

	lit, err := jsonLiteral(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s value: %w", ref.Name, err)
	}
	return lit, nil
}

// jsonLiteral writes value as JSON without HTML escaping, so strings read the
// same as they would from JSON.stringify.
func jsonLiteral(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (s *Schema) listLiteral(elem TypeRef, value any) (string, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		// A single value is accepted where a list is expected.
		item, err := s.Literal(elem, value)
		if err != nil {
			return "", err
		}
		return "[" + item + "]", nil
	}

	items := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, err := s.Literal(elem, rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		items = append(items, item)
	}
	return "[" + strings.Join(items, ", ") + "]", nil
}

func enumLiteral(value any) (string, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.String {
		return "", fmt.Errorf("enum value must be a string, got %T", value)
	}
	if rv.String() == "" {
		return "", ErrEmptyEnumValue
	}
	return rv.String(), nil
}

func (s *Schema) objectLiteral(in *InputType, value any) (string, error) {
	fields, err := toMap(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", in.Name, err)
	}

	entries := make([]string, 0, len(fields))
	for _, f := range in.Fields {
		v, ok := fields[f.Name]
		if !ok {
			continue
		}
		lit, err := s.Literal(f.Type, v)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", in.Name, f.Name, err)
		}
		entries = append(entries, f.Name+": "+lit)
	}

	// Keys the input type does not declare are passed through as JSON so
	// the server can report them.
	var extra []string
	for k := range fields {
		if _, ok := in.Field(k); !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		lit, err := jsonLiteral(fields[k])
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", in.Name, k, err)
		}
		entries = append(entries, k+": "+lit)
	}

	return "{" + strings.Join(entries, ", ") + "}", nil
}

// toMap turns a map or struct into its JSON object form so struct tags decide
// the key names.
func toMap(value any) (map[string]any, error) {
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	if m, ok := value.(Args); ok {
		return m, nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("expected an object, got %T", value)
	}
	return m, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
