package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/param"
)

func floatPtr(v float64) *float64 { return &v }

func getOnly() map[string]ast.Method {
	return map[string]ast.Method{"get": {Verb: "get"}}
}

func testDescription() *ast.Description {
	return &ast.Description{
		BaseURI: "http://api.example.com",
		Resources: map[string]*ast.Resource{
			"users": {
				Relative: "users",
				Methods:  map[string]ast.Method{"get": {Verb: "get"}, "post": {Verb: "post"}},
				Children: map[string]*ast.Resource{
					"{id}": {
						Relative:      "{id}",
						URIParameters: map[string]param.Spec{"id": {Type: param.TypeInteger, Maximum: floatPtr(100)}},
						Methods:       getOnly(),
						Children: map[string]*ast.Resource{
							"posts": {Relative: "posts", Methods: getOnly()},
						},
					},
				},
			},
			"search": {Relative: "search", Methods: getOnly()},
		},
	}
}

func testClient() *Client {
	return New(testDescription(), &fakePipeline{})
}

func TestStaticRoutes(t *testing.T) {
	c := testClient()

	users, err := c.Root().Walk("users")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/users", users.URL())
	require.Equal(t, []string{"get", "post"}, users.Verbs())

	_, err = c.Root().Walk("missing")
	require.ErrorIs(t, err, ErrNoResource)
}

func TestDynamicBareTagRoute(t *testing.T) {
	c := testClient()
	users, err := c.Root().Walk("users")
	require.NoError(t, err)

	// A route of exactly {id} exposes itself under the tag name.
	id, ok := users.Child("id")
	require.True(t, ok)
	require.True(t, id.Dynamic())
	require.Nil(t, id.Static())

	node, err := id.Call(42)
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/users/42", node.URL())

	posts, err := node.Walk("posts")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/users/42/posts", posts.URL())
}

func TestDynamicRouteValidatesArguments(t *testing.T) {
	c := testClient()
	users, err := c.Root().Walk("users")
	require.NoError(t, err)
	id, _ := users.Child("id")

	_, err = id.Call()
	require.ErrorIs(t, err, ErrInsufficientArguments)

	_, err = id.Call(150)
	require.ErrorIs(t, err, param.ErrRangeViolation)

	_, err = id.Call("42")
	require.ErrorIs(t, err, param.ErrTypeMismatch)
}

func TestPrefixedDynamicRoute(t *testing.T) {
	desc := &ast.Description{
		BaseURI: "http://api.example.com",
		Resources: map[string]*ast.Resource{
			"user-{id}": {
				Relative:      "user-{id}",
				URIParameters: map[string]param.Spec{"id": {Type: param.TypeString}},
				Methods:       getOnly(),
			},
		},
	}
	c := New(desc, &fakePipeline{})

	// The accessor takes the literal prefix before the first tag.
	child, ok := c.Root().Child("user-")
	require.True(t, ok)

	node, err := child.Call("42")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/user-42", node.URL())
}

func TestMalformedRoutesSkipped(t *testing.T) {
	desc := &ast.Description{
		BaseURI: "http://api.example.com",
		Resources: map[string]*ast.Resource{
			"pre-{a}-mid-{b}": {
				Relative:      "pre-{a}-mid-{b}",
				URIParameters: map[string]param.Spec{"a": {}, "b": {}},
				Methods:       getOnly(),
			},
			"{a}{b}": {
				Relative: "{a}{b}",
				Methods:  getOnly(),
			},
		},
	}
	c := New(desc, &fakePipeline{})

	// Tags interleaved with trailing static text cannot be mapped.
	_, ok := c.Root().Child("pre-")
	require.False(t, ok)
	// Adjacent tags with no prefix leave no usable accessor name.
	require.Empty(t, c.Root().Children())
}

func TestReservedRoutesSkipped(t *testing.T) {
	desc := &ast.Description{
		BaseURI: "http://api.example.com",
		Resources: map[string]*ast.Resource{
			"{get}":      {Relative: "{get}", Methods: getOnly()},
			"query{id}":  {Relative: "query{id}", Methods: getOnly()},
			"status-{q}": {Relative: "status-{q}", Methods: getOnly()},
		},
	}
	c := New(desc, &fakePipeline{})

	require.Equal(t, []string{"status-"}, c.Root().Children())
}

func TestStaticAndDynamicShareName(t *testing.T) {
	desc := &ast.Description{
		BaseURI: "http://api.example.com",
		Resources: map[string]*ast.Resource{
			"files": {Relative: "files", Methods: getOnly()},
			"files{ext}": {
				Relative:      "files{ext}",
				URIParameters: map[string]param.Spec{"ext": {Type: param.TypeString}},
				Methods:       getOnly(),
			},
		},
	}
	c := New(desc, &fakePipeline{})

	child, ok := c.Root().Child("files")
	require.True(t, ok)
	require.NotNil(t, child.Static(), "static form stays reachable")
	require.True(t, child.Dynamic(), "dynamic form stays reachable")

	require.Equal(t, "http://api.example.com/files", child.Static().URL())
	node, err := child.Call(".zip")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/files.zip", node.URL())
}

func TestPreview(t *testing.T) {
	c := testClient()
	users, err := c.Root().Walk("users")
	require.NoError(t, err)

	id, _ := users.Child("id")
	preview := id.Preview()
	require.NotNil(t, preview)
	require.Equal(t, []string{"get"}, preview.Verbs(), "methods visible without arguments")

	_, ok := preview.Child("posts")
	require.True(t, ok, "nested shape visible without arguments")
}

func TestQuerySnapshots(t *testing.T) {
	c := testClient()
	users, err := c.Root().Walk("users")
	require.NoError(t, err)

	withQuery, err := users.Query(map[string]any{"limit": 10})
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/users?limit=10", withQuery.URL())

	// The original branch and its siblings are untouched snapshots.
	require.Equal(t, "http://api.example.com/users", users.URL())
	search, err := c.Root().Walk("search")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/search", search.URL())

	// The captured query flows into subtrees derived from the new branch.
	id, _ := withQuery.Child("id")
	node, err := id.Call(42)
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/users/42?limit=10", node.URL())
}

func TestHeadersHelper(t *testing.T) {
	c := testClient()

	node, err := c.Root().Headers(map[string]string{"Authorization": "Bearer x"})
	require.NoError(t, err)
	require.NotNil(t, node)

	node, err = c.Root().Headers(map[string]any{"X-Count": 3})
	require.NoError(t, err)
	require.NotNil(t, node)

	_, err = c.Root().Headers("not-a-map")
	require.ErrorIs(t, err, ErrInvalidHeaders)
}

func TestHelpersClaimedByResources(t *testing.T) {
	desc := &ast.Description{
		BaseURI: "http://api.example.com",
		Resources: map[string]*ast.Resource{
			"query":   {Relative: "query", Methods: getOnly()},
			"headers": {Relative: "headers", Methods: getOnly()},
		},
	}
	c := New(desc, &fakePipeline{})

	_, err := c.Root().Query("a=1")
	require.ErrorIs(t, err, ErrNameClaimed)
	_, err = c.Root().Headers(map[string]string{})
	require.ErrorIs(t, err, ErrNameClaimed)

	// The resources themselves stay reachable.
	node, err := c.Root().Walk("query")
	require.NoError(t, err)
	require.Equal(t, "http://api.example.com/query", node.URL())
}

func TestCallOnStaticChild(t *testing.T) {
	c := testClient()
	child, ok := c.Root().Child("search")
	require.True(t, ok)

	_, err := child.Call("x")
	require.ErrorIs(t, err, ErrNotDynamic)
}
