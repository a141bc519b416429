// Package hclcfg provides the HCL implementation of the build configuration
// Loader. It parses a flat attribute document, converting each value through
// cty into the agnostic model. Attributes outside the known schema are
// rejected by the body content check.
package hclcfg

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/buildcfg"
)

// docSchema enumerates every attribute a configuration document may carry.
// Body.Content returns diagnostics for anything not listed here.
var docSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "target_backends"},
		{Name: "distribution_components"},
		{Name: "build_targets"},
		{Name: "projects"},
		{Name: "runtimes"},
		{Name: "build_type"},
		{Name: "cmake_flags"},
		{Name: "use_default_cmake_flags"},
	},
}

// Loader implements buildcfg.Loader for HCL documents.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader returns an HCL document loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Extensions implements buildcfg.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load implements buildcfg.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*buildcfg.Config, error) {
	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	content, diags := file.Body.Content(docSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid build config %s: %w", path, diags)
	}

	cfg := &buildcfg.Config{}
	for name, attr := range content.Attributes {
		var err error
		switch name {
		case "target_backends":
			cfg.TargetBackends, err = stringList(attr)
		case "distribution_components":
			cfg.DistributionComponents, err = stringList(attr)
		case "build_targets":
			cfg.BuildTargets, err = stringList(attr)
		case "projects":
			cfg.Projects, err = stringList(attr)
		case "runtimes":
			cfg.Runtimes, err = stringList(attr)
		case "cmake_flags":
			cfg.CMakeFlags, err = stringList(attr)
		case "build_type":
			cfg.BuildType, err = stringValue(attr)
		case "use_default_cmake_flags":
			cfg.UseDefaultCMakeFlags, err = boolValue(attr)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid build config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// stringList evaluates attr into a list of strings. A null value keeps the
// field unset, preserving the absent-vs-empty distinction of the model.
func stringList(attr *hcl.Attribute) ([]string, error) {
	val, present, err := value(attr, cty.List(cty.String))
	if err != nil || !present {
		return nil, err
	}
	out := make([]string, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsString())
	}
	return out, nil
}

func stringValue(attr *hcl.Attribute) (string, error) {
	val, present, err := value(attr, cty.String)
	if err != nil || !present {
		return "", err
	}
	return val.AsString(), nil
}

func boolValue(attr *hcl.Attribute) (bool, error) {
	val, present, err := value(attr, cty.Bool)
	if err != nil || !present {
		return false, err
	}
	return val.True(), nil
}

// value evaluates the attribute expression and converts it to want. The
// boolean reports presence: an explicit null behaves like an absent key.
func value(attr *hcl.Attribute, want cty.Type) (cty.Value, bool, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, false, diags
	}
	if val.IsNull() {
		return cty.NilVal, false, nil
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, false, fmt.Errorf("attribute %q: %w", attr.Name, err)
	}
	return converted, true, nil
}
