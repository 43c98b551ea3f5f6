// Package client synthesizes a navigable call graph from a normalized API
// description. Static route segments become fixed children, templated
// segments become accessors that validate and substitute their arguments,
// and every reachable leaf assembles a request and hands it to the
// execution pipeline. The graph is built once, is immutable, and may be
// shared across concurrent requests.
package client

import (
	"strings"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/param"
	"github.com/kolah/ramble/pipeline"
	"github.com/kolah/ramble/template"
)

// Client holds the call graph synthesized from one API description.
type Client struct {
	desc *ast.Description
	pipe pipeline.Pipeline
	root *Node
}

// New builds the call graph for desc. A nil pipe uses the default HTTP
// pipeline. Construction is synchronous and side-effect-free; malformed
// routes and reserved-name collisions are silently omitted rather than
// failing the whole graph.
func New(desc *ast.Description, pipe pipeline.Pipeline) *Client {
	if pipe == nil {
		pipe = pipeline.NewHTTP(nil)
	}
	return &Client{
		desc: desc,
		pipe: pipe,
		root: newNode(newPathState(desc.BaseURI), nil, desc.Resources, pipe),
	}
}

// Description returns the normalized description the graph was built from.
func (c *Client) Description() *ast.Description {
	return c.desc
}

// Root returns the top of the call graph.
func (c *Client) Root() *Node {
	return c.root
}

// Request bypasses the declared tree and targets an arbitrary path, with
// {tag} tokens expanded from ctx through the template engine but without
// facet validation. The returned node exposes every supported verb.
func (c *Client) Request(path string, ctx template.Context) (*Node, error) {
	specs := make(map[string]param.Spec)
	for _, tag := range template.Tags(path) {
		specs[tag] = param.Spec{}
	}

	expanded, err := template.Substitute(path, specs, ctx)
	if err != nil {
		return nil, err
	}
	expanded = strings.TrimPrefix(expanded, "/")

	state := newPathState(c.desc.BaseURI)
	if expanded != "" {
		state = state.withSegment(expanded)
	}
	return newNode(state, allVerbs(), nil, c.pipe), nil
}

func allVerbs() map[string]ast.Method {
	verbs := make(map[string]ast.Method, len(ast.Verbs))
	for verb := range ast.Verbs {
		verbs[verb] = ast.Method{Verb: verb}
	}
	return verbs
}
