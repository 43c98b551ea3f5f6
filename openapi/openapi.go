// Package openapi adapts OpenAPI 3.x documents to the raw description tree,
// so the client synthesizer can drive any API published as OpenAPI.
package openapi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	"github.com/pb33f/libopenapi/datamodel"

	"github.com/kolah/ramble/ast"
)

// Options controls document loading.
type Options struct {
	// ValidateDocument runs the document through the OpenAPI schema
	// validator before adaptation.
	ValidateDocument bool

	// BasePath resolves file references. Set automatically by LoadFile.
	BasePath string
}

// LoadFile reads an OpenAPI document and adapts it to a raw description.
func LoadFile(path string, opts *Options) (*ast.RawDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	if opts == nil {
		opts = &Options{}
	}
	if opts.BasePath == "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving absolute path: %w", err)
		}
		opts.BasePath = filepath.Dir(absPath)
	}
	return Load(data, opts)
}

// Load parses an OpenAPI 3.x document and adapts it to a raw description.
func Load(data []byte, opts *Options) (*ast.RawDescription, error) {
	if opts == nil {
		opts = &Options{}
	}

	var doc libopenapi.Document
	var err error
	if opts.BasePath != "" {
		config := &datamodel.DocumentConfiguration{
			BasePath:            opts.BasePath,
			AllowFileReferences: true,
		}
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %s (only 3.x supported)", version)
	}

	if opts.ValidateDocument {
		v, errs := validator.NewValidator(doc)
		if len(errs) > 0 {
			return nil, fmt.Errorf("building document validator: %w", errs[0])
		}
		if valid, valErrs := v.ValidateDocument(); !valid && len(valErrs) > 0 {
			return nil, fmt.Errorf("document validation failed: %s", valErrs[0].Message)
		}
	}

	model, err := doc.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI model: %w", err)
	}

	return adapt(&model.Model), nil
}
