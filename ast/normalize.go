package ast

import (
	"fmt"
	"strings"

	"github.com/kolah/ramble/param"
	"github.com/kolah/ramble/template"
)

// Verbs are the HTTP methods a resource may declare. Anything else in a
// method list fails normalization.
var Verbs = map[string]bool{
	"get":     true,
	"head":    true,
	"post":    true,
	"put":     true,
	"patch":   true,
	"delete":  true,
	"options": true,
}

// Normalize turns a raw parsed description into its canonical form: trait
// and resource-type fragments merged into single mappings, method lists
// rewritten verb-keyed, leading separators stripped from resource keys, and
// the base URI resolved against the root-level parameters.
func Normalize(raw *RawDescription) (*Description, error) {
	desc := &Description{
		Title:             raw.Title,
		Version:           raw.Version,
		BaseURIParameters: raw.BaseURIParameters,
		Traits:            mergeFragments(raw.Traits),
		ResourceTypes:     mergeFragments(raw.ResourceTypes),
	}

	resources, err := normalizeResources(raw.Resources)
	if err != nil {
		return nil, err
	}
	desc.Resources = resources

	baseURI, err := resolveBaseURI(raw)
	if err != nil {
		return nil, fmt.Errorf("resolving base URI: %w", err)
	}
	desc.BaseURI = baseURI

	return desc, nil
}

// mergeFragments flattens a fragment list into one mapping; later fragments
// with duplicate keys override earlier ones.
func mergeFragments(fragments []map[string]Fragment) map[string]Fragment {
	merged := make(map[string]Fragment)
	for _, fragment := range fragments {
		for name, body := range fragment {
			merged[name] = body
		}
	}
	return merged
}

func normalizeResources(raw []RawResource) (map[string]*Resource, error) {
	resources := make(map[string]*Resource, len(raw))
	for i := range raw {
		res, err := normalizeResource(&raw[i])
		if err != nil {
			return nil, err
		}
		resources[res.Relative] = res
	}
	return resources, nil
}

func normalizeResource(raw *RawResource) (*Resource, error) {
	res := &Resource{
		Relative:      strings.TrimPrefix(raw.RelativeURI, "/"),
		URIParameters: raw.URIParameters,
		Methods:       make(map[string]Method, len(raw.Methods)),
	}

	for _, m := range raw.Methods {
		verb := strings.ToLower(m.Method)
		if !Verbs[verb] {
			return nil, fmt.Errorf("resource %q: unsupported method %q", raw.RelativeURI, m.Method)
		}
		res.Methods[verb] = Method{
			Verb:            verb,
			Description:     m.Description,
			Headers:         m.Headers,
			QueryParameters: m.QueryParameters,
		}
	}

	children, err := normalizeResources(raw.Resources)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", raw.RelativeURI, err)
	}
	res.Children = children

	return res, nil
}

// resolveBaseURI substitutes the base URI template's own variables using the
// description itself as context. A {version} reference is an implicit
// required parameter when not declared explicitly.
func resolveBaseURI(raw *RawDescription) (string, error) {
	specs := make(map[string]param.Spec, len(raw.BaseURIParameters)+1)
	for name, spec := range raw.BaseURIParameters {
		specs[name] = spec
	}
	if _, declared := specs["version"]; !declared && strings.Contains(raw.BaseURI, "{version}") {
		specs["version"] = param.Spec{Type: param.TypeString, Required: true}
	}

	context := make(map[string]any)
	if raw.Version != "" {
		context["version"] = raw.Version
	}

	resolved, err := template.Substitute(raw.BaseURI, specs, template.Named(context))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(resolved, "/"), nil
}
