package raml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/param"
)

const testDoc = `#%RAML 0.8
title: Example API
version: v1
baseUri: http://api.example.com/{version}
traits:
  - paged:
      queryParameters:
        limit:
          type: integer
  - secured:
      headers:
        Authorization:
          type: string
/users:
  get:
    description: List users
  post:
  /{userId}:
    uriParameters:
      userId:
        type: integer
        maximum: 100
        required: true
    get:
/items:
  /{id}:
    get:
/status:
  get:
    queryParameters:
      verbose:
        type: boolean
`

func TestParse(t *testing.T) {
	raw, err := Parse([]byte(testDoc))
	require.NoError(t, err)

	require.Equal(t, "Example API", raw.Title)
	require.Equal(t, "v1", raw.Version)
	require.Equal(t, "http://api.example.com/{version}", raw.BaseURI)
	require.Len(t, raw.Traits, 2)

	require.Len(t, raw.Resources, 3)
	users := findResource(t, raw.Resources, "/users")
	require.Len(t, users.Methods, 2)
	require.Equal(t, "get", users.Methods[0].Method)
	require.Equal(t, "List users", users.Methods[0].Description)
	require.Equal(t, "post", users.Methods[1].Method)

	userID := findResource(t, users.Resources, "/{userId}")
	spec := userID.URIParameters["userId"]
	require.Equal(t, param.TypeInteger, spec.Type)
	require.True(t, spec.Required)
	require.NotNil(t, spec.Maximum)
	require.Equal(t, float64(100), *spec.Maximum)
}

func TestParseSynthesizesImplicitURIParameters(t *testing.T) {
	raw, err := Parse([]byte(testDoc))
	require.NoError(t, err)

	items := findResource(t, raw.Resources, "/items")
	id := findResource(t, items.Resources, "/{id}")
	spec, declared := id.URIParameters["id"]
	require.True(t, declared, "undeclared route tag gets a default spec")
	require.Equal(t, param.TypeString, spec.Type)
}

func TestParseMethodFacets(t *testing.T) {
	raw, err := Parse([]byte(testDoc))
	require.NoError(t, err)

	status := findResource(t, raw.Resources, "/status")
	require.Len(t, status.Methods, 1)
	require.Equal(t, param.TypeBoolean, status.Methods[0].QueryParameters["verbose"].Type)
}

func TestParsedDescriptionNormalizes(t *testing.T) {
	raw, err := Parse([]byte(testDoc))
	require.NoError(t, err)

	desc, err := ast.Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/v1", desc.BaseURI)
	require.Contains(t, desc.Resources, "users")
	require.Contains(t, desc.Resources["users"].Children, "{userId}")
}

func TestParseUnknownMethodSurvivesUntilNormalization(t *testing.T) {
	doc := `
title: Broken
baseUri: http://api.example.com
/users:
  fetch:
`
	raw, err := Parse([]byte(doc))
	require.NoError(t, err, "parsing keeps the entry")

	_, err = ast.Normalize(raw)
	require.Error(t, err, "normalization rejects it")
	require.Contains(t, err.Error(), "unsupported method")
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("{unclosed: ["))
	require.Error(t, err)
}

func findResource(t *testing.T, resources []ast.RawResource, route string) ast.RawResource {
	t.Helper()
	for _, res := range resources {
		if res.RelativeURI == route {
			return res
		}
	}
	t.Fatalf("resource %q not found", route)
	return ast.RawResource{}
}
