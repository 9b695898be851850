package gqlclient

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// RequiredPolicy decides when a required argument counts as missing.
type RequiredPolicy int

const (
	// Truthy treats absent, nil, false, zero, NaN and empty strings as
	// missing. Empty maps and slices are present.
	Truthy RequiredPolicy = iota
	// Presence treats only absent and nil values as missing.
	Presence
)

// ParseRequiredPolicy maps a configuration value to a policy.
func ParseRequiredPolicy(s string) (RequiredPolicy, error) {
	switch strings.ToLower(s) {
	case "", "truthy":
		return Truthy, nil
	case "presence":
		return Presence, nil
	default:
		return Truthy, fmt.Errorf("unknown required check %q: expected truthy or presence", s)
	}
}

func (p RequiredPolicy) String() string {
	if p == Presence {
		return "presence"
	}
	return "truthy"
}

// Missing reports whether a required argument should be rejected.
func (p RequiredPolicy) Missing(args Args, name string) bool {
	v, ok := args[name]
	if !ok || isNil(v) {
		return true
	}
	if p == Presence {
		return false
	}
	return isFalsy(v)
}

func isFalsy(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}
