package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyTestdata(t *testing.T, src, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders([]string{"Authorization: Bearer abc", "X-Trace:  1 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "Bearer abc", "X-Trace": "1"}, headers)

	_, err = parseHeaders([]string{"missing-colon"})
	assert.Error(t, err)
	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	copyTestdata(t, "../internal/generator/testdata/shop.graphql", dir, "shop.graphql")

	postGenerate := ""
	if runtime.GOOS != "windows" {
		postGenerate = "post_generate:\n  - touch generated.marker\n"
	}
	configPath := filepath.Join(dir, "gqlflux.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("schema: shop.graphql\noutput:\n  path: gql\n"+postGenerate), 0644))

	cmd := GenerateCmd()
	cmd.SetArgs([]string{"--config", configPath, "--quiet"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"types.ts", "queries.ts", "resources.ts", "hooks.ts", "runtime.ts", "index.ts", "manifest.json"} {
		assert.FileExists(t, filepath.Join(dir, "gql", name))
	}
	if postGenerate != "" {
		assert.FileExists(t, filepath.Join(dir, "generated.marker"))
	}
}

func TestGenerateCommandTargetFlag(t *testing.T) {
	dir := t.TempDir()
	schemaPath := copyTestdata(t, "../internal/generator/testdata/shop.graphql", dir, "shop.graphql")
	out := filepath.Join(dir, "client")

	cmd := GenerateCmd()
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "gqlflux.yaml"),
		"--schema", schemaPath,
		"--out", out,
		"--target", "go",
		"--quiet",
	})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(out, "types.go"))
	assert.FileExists(t, filepath.Join(out, "operations.go"))
	assert.NoFileExists(t, filepath.Join(out, "types.ts"))
}

func TestGenerateCommandFailsOnBrokenSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "broken.graphql")
	require.NoError(t, os.WriteFile(schemaPath, []byte("type Query { user: Missing }"), 0644))

	cmd := GenerateCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "gqlflux.yaml"), "--schema", schemaPath, "--out", filepath.Join(dir, "out"), "--quiet"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	assert.Error(t, cmd.Execute())
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestIntrospectCommand(t *testing.T) {
	body, err := os.ReadFile("../internal/schema/testdata/shop.json")
	require.NoError(t, err)

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "schemas", "schema.json")
	cmd := IntrospectCmd()
	cmd.SetArgs([]string{server.URL, "-o", output, "-H", "Authorization: Bearer token", "--quiet"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "Bearer token", gotAuth)

	saved, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, json.Valid(saved))
	assert.Contains(t, string(saved), "\n  \"data\": {")
}

func TestConfigInitNonInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlflux.yaml")

	cmd := ConfigCmd()
	cmd.SetArgs([]string{"init", path, "--yes", "--schema", "https://api.example.com/graphql", "--target", "apollo"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "schema: https://api.example.com/graphql")
	assert.Contains(t, string(data), "target: apollo")
	assert.NotContains(t, string(data), "hooks")

	again := ConfigCmd()
	again.SetArgs([]string{"init", path, "--yes"})
	again.SilenceUsage = true
	again.SilenceErrors = true
	assert.Error(t, again.Execute())
}
