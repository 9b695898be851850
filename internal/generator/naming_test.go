package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"user":        "User",
		"userId":      "UserID",
		"homepageUrl": "HomepageURL",
		"apiKey":      "APIKey",
		"created_at":  "CreatedAt",
	}
	for in, want := range tests {
		assert.Equal(t, want, goName(in), in)
	}
}

func TestConstName(t *testing.T) {
	assert.Equal(t, "ProductStatusDraft", constName("ProductStatus", "draft"))
	assert.Equal(t, "ProductCategoryBooks", constName("ProductCategory", "BOOKS"))
}

func TestScreamingName(t *testing.T) {
	assert.Equal(t, "CREATE_PRODUCT_MUTATION", screamingName("createProduct", "mutation"))
	assert.Equal(t, "USER_QUERY", screamingName("user", "query"))
}

func TestModulePath(t *testing.T) {
	assert.Equal(t, "./types", modulePath("types.ts"))
	assert.Equal(t, "./hooks", modulePath("hooks.tsx"))
	assert.Equal(t, "./@/client", modulePath("@/client"))
}

func TestImportsRender(t *testing.T) {
	imps := newImports()
	imps.value("./runtime", "fill", "toLiteral")
	imps.typ("./runtime", "Selection", "fill")
	imps.typ("./types", "User")
	imps.value("./client", "graphqlRequest")

	assert.Equal(t, "import { graphqlRequest } from './client';\n"+
		"import type { Selection } from './runtime';\n"+
		"import { fill, toLiteral } from './runtime';\n"+
		"import type { User } from './types';\n", imps.render())

	assert.Empty(t, newImports().render())
}
