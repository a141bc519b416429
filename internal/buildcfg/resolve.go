package buildcfg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/ctxlog"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
)

// ErrNoConfigSelected is returned when no configuration selector was given.
// Selecting a configuration is mandatory for a build.
var ErrNoConfigSelected = errors.New("build config is not selected")

// Resolve turns a configuration selector into a normalized Config. The
// selector is either one of the reserved preset names or a filesystem path
// to a configuration document; the document's extension picks the loader.
// Document values are used verbatim — there is no merging with presets.
func Resolve(ctx context.Context, selector string, platform hostenv.Platform, loaders ...Loader) (*Config, error) {
	if selector == "" {
		return nil, ErrNoConfigSelected
	}

	if cfg, ok := Preset(selector, platform); ok {
		return cfg, nil
	}

	ctxlog.FromContext(ctx).Info("Using build config from file.", "path", selector)
	ext := strings.ToLower(filepath.Ext(selector))
	for _, loader := range loaders {
		for _, supported := range loader.Extensions() {
			if ext == supported {
				cfg, err := loader.Load(ctx, selector)
				if err != nil {
					return nil, fmt.Errorf("failed to load build config %s: %w", selector, err)
				}
				return cfg, nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported build config document %q: unknown extension %q", selector, ext)
}
