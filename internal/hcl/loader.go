package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/config"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths (files are
// taken as-is, directories are walked recursively) and translates them
// into one combined model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var filePaths []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read graph path %q: %w", path, err)
		}
		if !info.IsDir() {
			filePaths = append(filePaths, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("cannot walk graph directory %q: %w", path, err)
		}
		filePaths = append(filePaths, found...)
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl graph files found.", "paths", paths)
		return &config.Model{}, nil
	}
	logger.Debug("Found graph files to load.", "files", filePaths)

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}
		if err := l.translateFile(ctx, hclFile.Body, model); err != nil {
			return nil, fmt.Errorf("failed to process graph file %s: %w", filePath, err)
		}
	}

	logger.Info("Graph definition loaded.", "nodes", len(model.Nodes), "connections", len(model.Connections))
	return model, nil
}

// LoadSource parses a single in-memory graph definition. Used by tests
// and embedded callers.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	model := &config.Model{}
	if err := l.translateFile(ctx, hclFile.Body, model); err != nil {
		return nil, err
	}
	return model, nil
}

// translateFile decodes one file body and appends its declarations to
// the model. Argument and position expressions are evaluated eagerly:
// graph files are static data, so no evaluation context is offered.
func (l *Loader) translateFile(ctx context.Context, body hcl.Body, model *config.Model) error {
	var file graphFile
	if diags := gohcl.DecodeBody(body, nil, &file); diags.HasErrors() {
		return fmt.Errorf("invalid graph file structure: %w", diags)
	}

	for _, nb := range file.Nodes {
		decl := &config.NodeDecl{
			Type:     nb.Type,
			Name:     nb.Name,
			Position: cty.NilVal,
		}

		if nb.Position != nil {
			v, diags := nb.Position.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("node %q: invalid position: %w", nb.Name, diags)
			}
			if !v.IsNull() {
				decl.Position = v
			}
		}

		args, err := extractArguments(nb)
		if err != nil {
			return err
		}
		decl.Arguments = args

		model.Nodes = append(model.Nodes, decl)
		ctxlog.FromContext(ctx).Debug("translated node block.", "type", nb.Type, "name", nb.Name, "arguments", len(args))
	}

	for _, cb := range file.Connections {
		model.Connections = append(model.Connections, &config.ConnectionDecl{From: cb.From, To: cb.To})
	}
	return nil
}

func extractArguments(nb *nodeBlock) (map[string]cty.Value, error) {
	if nb.Arguments == nil || nb.Arguments.Body == nil {
		return nil, nil
	}
	attrs, diags := nb.Arguments.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q: invalid arguments block: %w", nb.Name, diags)
	}
	args := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q: argument %q: %w", nb.Name, name, diags)
		}
		args[name] = v
	}
	return args, nil
}
