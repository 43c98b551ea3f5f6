package client

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/param"
	"github.com/kolah/ramble/pipeline"
	"github.com/kolah/ramble/template"
)

// routeShape accepts optional leading static text followed by one or more
// adjacent {tag} groups ending the route. Any other templated shape makes
// the resource unmappable and it is skipped.
var routeShape = regexp.MustCompile(`^[^{}]*(?:\{[^{}]+\})+$`)

// reservedNames are claimed by verb callables and the query/headers helpers;
// a dynamic accessor never takes one of these names.
var reservedNames = map[string]bool{
	"query":   true,
	"headers": true,
}

func isReserved(name string) bool {
	return reservedNames[name] || ast.Verbs[name]
}

// Node is one vertex of the synthesized call graph. It owns an immutable
// PathState snapshot, the verbs declared at its resource, and a child union
// per nested resource. Nodes are safe for concurrent use; navigation and
// helpers allocate fresh subtrees instead of mutating.
type Node struct {
	state  PathState
	pipe   pipeline.Pipeline
	verbs  map[string]ast.Method
	source map[string]*ast.Resource
	kids   map[string]*Child
}

// Child is the union attached at one accessor name: a static subtree, a
// template accessor, or both when a static and a templated route share a
// prefix.
type Child struct {
	name    string
	static  *Node
	dynamic *dynamicRoute
}

type dynamicRoute struct {
	route   string
	tags    []string
	specs   map[string]param.Spec
	base    PathState
	res     *ast.Resource
	pipe    pipeline.Pipeline
	preview *Node
}

func newNode(state PathState, verbs map[string]ast.Method, source map[string]*ast.Resource, pipe pipeline.Pipeline) *Node {
	n := &Node{
		state:  state,
		pipe:   pipe,
		verbs:  verbs,
		source: source,
		kids:   make(map[string]*Child, len(source)),
	}
	for route, res := range source {
		n.attach(route, res)
	}
	return n
}

func resourceNode(state PathState, res *ast.Resource, pipe pipeline.Pipeline) *Node {
	return newNode(state, res.Methods, res.Children, pipe)
}

// attach maps one resource route onto the node, deciding whether it becomes
// a static child, a template accessor, or nothing at all.
func (n *Node) attach(route string, res *ast.Resource) {
	tags := template.Tags(route)

	if len(tags) == 0 {
		n.child(route).static = resourceNode(n.state.withSegment(route), res, n.pipe)
		return
	}

	if !routeShape.MatchString(route) {
		return
	}

	name := route[:strings.IndexByte(route, '{')]
	if len(tags) == 1 && route == "{"+tags[0]+"}" {
		name = tags[0]
	}
	if isReserved(name) {
		// Fall back to the literal prefix before the first tag.
		name = route[:strings.IndexByte(route, '{')]
	}
	if name == "" || isReserved(name) {
		return
	}

	n.child(name).dynamic = &dynamicRoute{
		route:   route,
		tags:    tags,
		specs:   res.URIParameters,
		base:    n.state,
		res:     res,
		pipe:    n.pipe,
		preview: resourceNode(n.state.withSegment(template.Strip(route)), res, n.pipe),
	}
}

func (n *Node) child(name string) *Child {
	c, ok := n.kids[name]
	if !ok {
		c = &Child{name: name}
		n.kids[name] = c
	}
	return c
}

// Child looks up the accessor attached at name.
func (n *Node) Child(name string) (*Child, bool) {
	c, ok := n.kids[name]
	return c, ok
}

// Children returns the attached accessor names, sorted.
func (n *Node) Children() []string {
	names := make([]string, 0, len(n.kids))
	for name := range n.kids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Verbs returns the HTTP methods declared at this node, sorted.
func (n *Node) Verbs() []string {
	verbs := make([]string, 0, len(n.verbs))
	for verb := range n.verbs {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

// Walk descends through static children by name.
func (n *Node) Walk(names ...string) (*Node, error) {
	current := n
	for _, name := range names {
		c, ok := current.kids[name]
		if !ok || c.static == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoResource, name)
		}
		current = c.static
	}
	return current, nil
}

// URL reports the resolved URL at this node.
func (n *Node) URL() string {
	return n.state.URL()
}

// Name reports the accessor name the child is attached under.
func (c *Child) Name() string {
	return c.name
}

// Static returns the fixed subtree, or nil if the child is dynamic only.
func (c *Child) Static() *Node {
	return c.static
}

// Dynamic reports whether the child carries a template accessor.
func (c *Child) Dynamic() bool {
	return c.dynamic != nil
}

// Preview returns the introspection subtree of a template accessor, built as
// if the route were already resolved with no arguments. It lets tooling
// inspect the shape below without supplying template values. Nil for
// static-only children.
func (c *Child) Preview() *Node {
	if c.dynamic == nil {
		return nil
	}
	return c.dynamic.preview
}

// Call invokes the template accessor with positional arguments. It requires
// at least as many arguments as the route declares tags, validates and
// substitutes each, and returns a freshly built subtree rooted at the
// resolved segment.
func (c *Child) Call(args ...any) (*Node, error) {
	d := c.dynamic
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotDynamic, c.name)
	}
	if len(args) < len(d.tags) {
		return nil, fmt.Errorf("%w: route %q needs %d, got %d",
			ErrInsufficientArguments, d.route, len(d.tags), len(args))
	}

	resolved, err := template.Substitute(d.route, d.specs, template.Positional(args...))
	if err != nil {
		return nil, fmt.Errorf("resolving route %q: %w", d.route, err)
	}
	return resourceNode(d.base.withSegment(resolved), d.res, d.pipe), nil
}

// Query returns a fresh subtree with the query captured on its PathState.
// The value may be a raw query string, url.Values, a string-keyed map, or a
// struct encoded field-by-field. Errors with ErrNameClaimed when a resource
// named "query" shadows the helper.
func (n *Node) Query(value any) (*Node, error) {
	if _, claimed := n.kids["query"]; claimed {
		return nil, fmt.Errorf("%w: query", ErrNameClaimed)
	}
	encoded, err := encodeQuery(value)
	if err != nil {
		return nil, err
	}
	return newNode(n.state.withQuery(encoded), n.verbs, n.source, n.pipe), nil
}

// Headers returns a fresh subtree with the headers merged onto its
// PathState. The value must be a string-keyed mapping. Errors with
// ErrNameClaimed when a resource named "headers" shadows the helper.
func (n *Node) Headers(value any) (*Node, error) {
	if _, claimed := n.kids["headers"]; claimed {
		return nil, fmt.Errorf("%w: headers", ErrNameClaimed)
	}
	headers, err := asHeaderMap(value)
	if err != nil {
		return nil, err
	}
	return newNode(n.state.withHeaders(headers), n.verbs, n.source, n.pipe), nil
}

func asHeaderMap(value any) (map[string]string, error) {
	switch v := value.(type) {
	case map[string]string:
		return v, nil
	case map[string]any:
		headers := make(map[string]string, len(v))
		for name, raw := range v {
			headers[name] = fmt.Sprint(raw)
		}
		return headers, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidHeaders, value)
}
