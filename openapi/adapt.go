package openapi

import (
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/param"
	"github.com/kolah/ramble/template"
)

// pathTree accumulates path items into a nested resource tree, keeping
// insertion order for deterministic output.
type pathTree struct {
	params   map[string]param.Spec
	methods  []ast.RawMethod
	children map[string]*pathTree
	order    []string
}

func newPathTree() *pathTree {
	return &pathTree{children: make(map[string]*pathTree)}
}

func (t *pathTree) ensure(segment string) *pathTree {
	child, ok := t.children[segment]
	if !ok {
		child = newPathTree()
		t.children[segment] = child
		t.order = append(t.order, segment)
	}
	return child
}

// declare records a parameter spec for the segment. The first declaration
// wins; sibling paths re-declaring the same parameter do not override it.
func (t *pathTree) declare(name string, spec param.Spec) {
	if t.params == nil {
		t.params = make(map[string]param.Spec)
	}
	if _, exists := t.params[name]; !exists {
		t.params[name] = spec
	}
}

func adapt(doc *v3.Document) *ast.RawDescription {
	raw := &ast.RawDescription{}
	if doc.Info != nil {
		raw.Title = doc.Info.Title
		raw.Version = doc.Info.Version
	}

	adaptServer(doc, raw)

	root := newPathTree()
	if doc.Paths != nil {
		for pathStr, item := range doc.Paths.PathItems.FromOldest() {
			adaptPath(root, pathStr, item)
		}
	}
	raw.Resources = flatten(root)
	return raw
}

// adaptServer maps the first server onto the base URI. Server variables with
// defaults are baked into the URI; the rest become base URI parameters.
func adaptServer(doc *v3.Document, raw *ast.RawDescription) {
	if len(doc.Servers) == 0 {
		return
	}
	server := doc.Servers[0]
	raw.BaseURI = server.URL

	if server.Variables == nil {
		return
	}
	for name, variable := range server.Variables.FromOldest() {
		if variable.Default != "" {
			raw.BaseURI = strings.ReplaceAll(raw.BaseURI, "{"+name+"}", variable.Default)
			continue
		}
		if raw.BaseURIParameters == nil {
			raw.BaseURIParameters = make(map[string]param.Spec)
		}
		raw.BaseURIParameters[name] = param.Spec{
			Type: param.TypeString,
			Enum: variable.Enum,
		}
	}
}

func adaptPath(root *pathTree, pathStr string, item *v3.PathItem) {
	segments := strings.Split(strings.TrimPrefix(pathStr, "/"), "/")

	chain := make([]*pathTree, 0, len(segments))
	node := root
	for _, segment := range segments {
		node = node.ensure(segment)
		chain = append(chain, node)
	}

	declarePathParams(chain, segments, item.Parameters)

	// Deterministic method ordering, matching the document model's layout.
	operations := []struct {
		verb string
		op   *v3.Operation
	}{
		{"get", item.Get},
		{"post", item.Post},
		{"put", item.Put},
		{"delete", item.Delete},
		{"patch", item.Patch},
		{"head", item.Head},
		{"options", item.Options},
	}
	for _, entry := range operations {
		if entry.op == nil {
			continue
		}
		description := entry.op.Description
		if description == "" {
			description = entry.op.Summary
		}
		node.methods = append(node.methods, ast.RawMethod{
			Method:      entry.verb,
			Description: description,
		})
		declarePathParams(chain, segments, entry.op.Parameters)
	}

	// Tags without a declared parameter still need a spec to substitute.
	for i, segment := range segments {
		for _, tag := range template.Tags(segment) {
			if _, declared := chain[i].params[tag]; !declared {
				chain[i].declare(tag, param.Spec{Type: param.TypeString})
			}
		}
	}
}

// declarePathParams attaches each path parameter to the tree node whose
// segment carries the matching template tag.
func declarePathParams(chain []*pathTree, segments []string, params []*v3.Parameter) {
	for _, p := range params {
		if strings.ToLower(p.In) != "path" {
			continue
		}
		for i, segment := range segments {
			if strings.Contains(segment, "{"+p.Name+"}") {
				chain[i].declare(p.Name, adaptParameter(p))
				break
			}
		}
	}
}

func adaptParameter(p *v3.Parameter) param.Spec {
	spec := param.Spec{Type: param.TypeString}
	if p.Required != nil {
		spec.Required = *p.Required
	}
	if p.Schema == nil {
		return spec
	}
	schema := p.Schema.Schema()
	if schema == nil {
		return spec
	}
	return adaptSchema(schema, spec)
}

func adaptSchema(s *base.Schema, spec param.Spec) param.Spec {
	if len(s.Type) > 0 {
		switch s.Type[0] {
		case "integer":
			spec.Type = param.TypeInteger
		case "number":
			spec.Type = param.TypeNumber
		case "boolean":
			spec.Type = param.TypeBoolean
		default:
			spec.Type = param.TypeString
		}
	}

	for _, entry := range s.Enum {
		if entry != nil {
			spec.Enum = append(spec.Enum, entry.Value)
		}
	}
	spec.Pattern = s.Pattern

	if s.MinLength != nil {
		v := int(*s.MinLength)
		spec.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int(*s.MaxLength)
		spec.MaxLength = &v
	}
	if s.Minimum != nil {
		v := float64(*s.Minimum)
		spec.Minimum = &v
	}
	if s.Maximum != nil {
		v := float64(*s.Maximum)
		spec.Maximum = &v
	}
	return spec
}

func flatten(node *pathTree) []ast.RawResource {
	resources := make([]ast.RawResource, 0, len(node.order))
	for _, segment := range node.order {
		child := node.children[segment]
		resources = append(resources, ast.RawResource{
			RelativeURI:   "/" + segment,
			URIParameters: child.params,
			Methods:       child.methods,
			Resources:     flatten(child),
		})
	}
	return resources
}
