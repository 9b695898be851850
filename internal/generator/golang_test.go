package generator

import (
	goast "go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/token"
	gotypes "go/types"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goChecker type-checks generated Go packages. Imports, including the
// gqlclient runtime, are resolved from source through the go command.
type goChecker struct {
	fset     *token.FileSet
	importer gotypes.Importer
}

func newGoChecker(t *testing.T) *goChecker {
	t.Helper()
	if testing.Short() {
		t.Skip("type-checking from source is slow")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not found")
	}

	// Without cgo, packages such as net are checked from their pure Go files.
	cgo := build.Default.CgoEnabled
	build.Default.CgoEnabled = false
	t.Cleanup(func() { build.Default.CgoEnabled = cgo })

	fset := token.NewFileSet()
	return &goChecker{fset: fset, importer: importer.ForCompiler(fset, "source", nil)}
}

func (c *goChecker) check(t *testing.T, r *Result) {
	t.Helper()

	var files []*goast.File
	for _, f := range r.Files {
		if filepath.Ext(f.Name) != ".go" {
			continue
		}
		file, err := parser.ParseFile(c.fset, f.Name, f.Content, parser.AllErrors)
		require.NoError(t, err, f.Name)
		files = append(files, file)
	}
	require.NotEmpty(t, files)

	conf := gotypes.Config{Importer: c.importer}
	_, err := conf.Check(files[0].Name.Name, c.fset, files, nil)
	require.NoError(t, err)
}

func TestGoTargetCompiles(t *testing.T) {
	checker := newGoChecker(t)

	cases := []struct {
		schema  string
		scalars map[string]string
	}{
		{schema: "shop.graphql"},
		{schema: "search.graphql"},
		{schema: "search.graphql", scalars: map[string]string{"DateTime": "string"}},
		{schema: "cyclic.graphql"},
	}

	for _, tc := range cases {
		t.Run(tc.schema, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Target = TargetGo
			opts.GoPackage = "client"
			opts.Scalars = tc.scalars
			checker.check(t, generate(t, tc.schema, opts))
		})
	}
}

func TestGoTargetRecursiveTypes(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = TargetGo
	types := content(t, generate(t, "cyclic.graphql", opts), "types.go")

	assert.Regexp(t, "Manager\\s+\\*User\\s+`json:\"manager\"`", types)
	assert.Regexp(t, "Pinned\\s+\\*Post\\s+`json:\"pinned\"`", types)
	assert.Regexp(t, "Reports\\s+\\[\\]User\\s+`json:\"reports\"`", types)
	assert.Regexp(t, "Author\\s+\\*User\\s+`json:\"author\"`", types)
	assert.Regexp(t, "Related\\s+\\*Post\\s+`json:\"related,omitempty\"`", types)
	assert.Regexp(t, "And\\s+\\[\\]PostFilter\\s+`json:\"and,omitempty\"`", types)
	assert.Regexp(t, "Not\\s+\\*PostFilter\\s+`json:\"not,omitempty\"`", types)
	assert.NotRegexp(t, "Manager\\s+User\\b", types)

	ops := content(t, generate(t, "cyclic.graphql", opts), "operations.go")
	assert.Contains(t, ops, "func RequestMe(ctx context.Context, c *gqlclient.Client, selection gqlclient.Selection) (User, error) {")
}
