package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsRemote reports whether location names a live endpoint.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load reads a schema from a URL, an introspection JSON file or an SDL file.
// headers are only used for remote locations.
func Load(ctx context.Context, location string, headers map[string]string) (*Schema, error) {
	if location == "" {
		return nil, fmt.Errorf("no schema location configured")
	}

	if IsRemote(location) {
		return Fetch(ctx, location, headers)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	var s *Schema
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		s, err = ParseIntrospection(data)
	case ".graphql", ".graphqls", ".gql":
		s, err = ParseSDL(filepath.Base(location), string(data))
	default:
		return nil, fmt.Errorf("unsupported schema file %s: expected .json, .graphql, .graphqls or .gql", location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schema from %s: %w", location, err)
	}

	s.Source = location
	return s, nil
}
