// Package ast models an API description as a resource tree and normalizes a
// raw parsed description into the canonical form the client builder consumes.
package ast

import "github.com/kolah/ramble/param"

// Fragment is a partial trait or resource-type definition. Fragments arrive
// as a list of name-keyed maps and are merged during normalization.
type Fragment map[string]any

// RawMethod is one entry of a resource's method list before normalization.
type RawMethod struct {
	Method          string
	Description     string
	Headers         map[string]param.Spec
	QueryParameters map[string]param.Spec
}

// RawResource is a resource as produced by a description loader: the route
// still carries its leading separator, methods are a flat list, and children
// are nested in order of appearance.
type RawResource struct {
	RelativeURI   string
	URIParameters map[string]param.Spec
	Methods       []RawMethod
	Resources     []RawResource
}

// RawDescription is the loader-facing shape of an API description. Any
// compliant resource-description format can be adapted to it.
type RawDescription struct {
	Title             string
	Version           string
	BaseURI           string
	BaseURIParameters map[string]param.Spec
	Traits            []map[string]Fragment
	ResourceTypes     []map[string]Fragment
	Resources         []RawResource
}

// Method is a normalized HTTP method declaration.
type Method struct {
	Verb            string
	Description     string
	Headers         map[string]param.Spec
	QueryParameters map[string]param.Spec
}

// Resource is a node of the normalized tree. Relative carries no leading
// separator, methods are verb-keyed, and children are keyed by their bare
// segment name. Resources are created once at normalization and never
// mutated afterwards.
type Resource struct {
	Relative      string
	URIParameters map[string]param.Spec
	Methods       map[string]Method
	Children      map[string]*Resource
}

// Description is the canonical, normalized API description.
type Description struct {
	Title             string
	Version           string
	BaseURI           string
	BaseURIParameters map[string]param.Spec
	Traits            map[string]Fragment
	ResourceTypes     map[string]Fragment
	Resources         map[string]*Resource
}
