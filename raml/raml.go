// Package raml decodes a RAML-style YAML description into the raw AST
// consumed by the normalizer.
package raml

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/param"
	"github.com/kolah/ramble/template"
)

// resourceFields are resource-level keys that are neither nested routes nor
// method declarations. Anything else that is not a route is treated as a
// method entry, so typos surface during normalization.
var resourceFields = map[string]bool{
	"description":       true,
	"displayName":       true,
	"uriParameters":     true,
	"baseUriParameters": true,
	"type":              true,
	"is":                true,
	"securedBy":         true,
}

// ParseFile reads and parses a description file.
func ParseFile(path string) (*ast.RawDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading description file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a RAML-style YAML document into a raw description.
func Parse(data []byte) (*ast.RawDescription, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing description: %w", err)
	}

	raw := &ast.RawDescription{
		Title:             asString(doc["title"]),
		Version:           asString(doc["version"]),
		BaseURI:           asString(doc["baseUri"]),
		BaseURIParameters: parseParams(doc["baseUriParameters"]),
		Traits:            parseFragments(doc["traits"]),
		ResourceTypes:     parseFragments(doc["resourceTypes"]),
	}

	for _, route := range routeKeys(doc) {
		res, err := parseResource(route, doc[route])
		if err != nil {
			return nil, err
		}
		raw.Resources = append(raw.Resources, res)
	}
	return raw, nil
}

func routeKeys(body map[string]any) []string {
	var routes []string
	for key := range body {
		if strings.HasPrefix(key, "/") {
			routes = append(routes, key)
		}
	}
	sort.Strings(routes)
	return routes
}

func parseResource(route string, value any) (ast.RawResource, error) {
	res := ast.RawResource{RelativeURI: route}
	body, ok := value.(map[string]any)
	if !ok {
		// A bare route key with no body is a resource with no methods.
		return withImplicitParams(res), nil
	}

	res.URIParameters = parseParams(body["uriParameters"])

	for _, key := range routeKeys(body) {
		child, err := parseResource(key, body[key])
		if err != nil {
			return res, fmt.Errorf("resource %q: %w", route, err)
		}
		res.Resources = append(res.Resources, child)
	}

	var methodKeys []string
	for key := range body {
		if !strings.HasPrefix(key, "/") && !resourceFields[key] {
			methodKeys = append(methodKeys, key)
		}
	}
	sort.Strings(methodKeys)
	for _, key := range methodKeys {
		res.Methods = append(res.Methods, parseMethod(key, body[key]))
	}

	return withImplicitParams(res), nil
}

// withImplicitParams declares an untyped string parameter for each route
// template tag the description left undeclared, mirroring what RAML parsers
// emit for obvious tags like {id}.
func withImplicitParams(res ast.RawResource) ast.RawResource {
	for _, tag := range template.Tags(res.RelativeURI) {
		if _, declared := res.URIParameters[tag]; declared {
			continue
		}
		if res.URIParameters == nil {
			res.URIParameters = make(map[string]param.Spec)
		}
		res.URIParameters[tag] = param.Spec{Type: param.TypeString}
	}
	return res
}

func parseMethod(name string, value any) ast.RawMethod {
	method := ast.RawMethod{Method: name}
	body, ok := value.(map[string]any)
	if !ok {
		return method
	}
	method.Description = asString(body["description"])
	method.Headers = parseParams(body["headers"])
	method.QueryParameters = parseParams(body["queryParameters"])
	return method
}

func parseFragments(value any) []map[string]ast.Fragment {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	var fragments []map[string]ast.Fragment
	for _, entry := range list {
		body, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		fragment := make(map[string]ast.Fragment, len(body))
		for name, raw := range body {
			if m, ok := raw.(map[string]any); ok {
				fragment[name] = ast.Fragment(m)
			} else {
				fragment[name] = ast.Fragment{}
			}
		}
		fragments = append(fragments, fragment)
	}
	return fragments
}

func parseParams(value any) map[string]param.Spec {
	body, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	params := make(map[string]param.Spec, len(body))
	for name, raw := range body {
		params[name] = parseParam(raw)
	}
	return params
}

func parseParam(value any) param.Spec {
	body, ok := value.(map[string]any)
	if !ok {
		return param.Spec{Type: param.TypeString}
	}

	spec := param.Spec{
		Type:      param.Type(asString(body["type"])),
		Required:  asBool(body["required"]),
		Pattern:   asString(body["pattern"]),
		MinLength: asInt(body["minLength"]),
		MaxLength: asInt(body["maxLength"]),
		Minimum:   asFloat(body["minimum"]),
		Maximum:   asFloat(body["maximum"]),
	}
	if spec.Type == "" {
		spec.Type = param.TypeString
	}
	if enum, ok := body["enum"].([]any); ok {
		for _, entry := range enum {
			spec.Enum = append(spec.Enum, asString(entry))
		}
	}
	return spec
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func asBool(value any) bool {
	b, ok := value.(bool)
	return ok && b
}

func asInt(value any) *int {
	switch v := value.(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case uint64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

func asFloat(value any) *float64 {
	switch v := value.(type) {
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case uint64:
		f := float64(v)
		return &f
	case float64:
		return &v
	}
	return nil
}
