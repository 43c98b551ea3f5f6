package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kolah/ramble/ast"
	"github.com/kolah/ramble/client"
	"github.com/kolah/ramble/internal/config"
	"github.com/kolah/ramble/openapi"
	"github.com/kolah/ramble/pipeline"
	"github.com/kolah/ramble/raml"
)

// buildClient loads the description named by the config, normalizes it, and
// synthesizes the call graph over the given pipeline.
func buildClient(cfg *config.Config, pipe pipeline.Pipeline) (*client.Client, error) {
	raw, err := loadDescription(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.BaseURI != "" {
		raw.BaseURI = cfg.BaseURI
	}

	desc, err := ast.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing description: %w", err)
	}
	return client.New(desc, pipe), nil
}

func loadDescription(cfg *config.Config) (*ast.RawDescription, error) {
	data, err := os.ReadFile(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("reading description file: %w", err)
	}

	format := cfg.Format
	if format == "" || format == "auto" {
		format = sniffFormat(cfg.Spec, data)
	}

	switch format {
	case "raml":
		return raml.Parse(data)
	case "openapi":
		opts := &openapi.Options{ValidateDocument: cfg.ValidateDocument}
		if absPath, err := filepath.Abs(cfg.Spec); err == nil {
			opts.BasePath = filepath.Dir(absPath)
		}
		return openapi.Load(data, opts)
	default:
		return nil, fmt.Errorf("unsupported description format: %s", format)
	}
}

func sniffFormat(path string, data []byte) string {
	head := string(data)
	switch {
	case strings.HasPrefix(head, "#%RAML"):
		return "raml"
	case strings.HasPrefix(head, "openapi:") || strings.Contains(head, "\nopenapi:"):
		return "openapi"
	case strings.EqualFold(filepath.Ext(path), ".raml"):
		return "raml"
	case strings.Contains(head, "\nbaseUri:") || strings.HasPrefix(head, "baseUri:"):
		return "raml"
	default:
		return "openapi"
	}
}
