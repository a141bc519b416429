// Package jsoncfg provides the JSON implementation of the build
// configuration Loader. Unknown keys are rejected at parse time; a key that
// is absent or null leaves the corresponding model field unset.
package jsoncfg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/buildcfg"
)

// document mirrors the on-disk key names. A nil slice here means the key was
// absent or null, which translates to an unset model field.
type document struct {
	TargetBackends         []string `json:"target_backends"`
	DistributionComponents []string `json:"distribution_components"`
	BuildTargets           []string `json:"build_targets"`
	Projects               []string `json:"projects"`
	Runtimes               []string `json:"runtimes"`
	BuildType              string   `json:"build_type"`
	CMakeFlags             []string `json:"cmake_flags"`
	UseDefaultCMakeFlags   bool     `json:"use_default_cmake_flags"`
}

// Loader implements buildcfg.Loader for JSON documents.
type Loader struct{}

// NewLoader returns a JSON document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements buildcfg.Loader.
func (l *Loader) Extensions() []string {
	return []string{".json"}
}

// Load implements buildcfg.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*buildcfg.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// Decode stops at the end of the first value; anything after it is junk.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("failed to parse %s: unexpected data after config document", path)
	}

	return translate(&doc), nil
}

// translate converts the on-disk schema into the agnostic model.
func translate(doc *document) *buildcfg.Config {
	return &buildcfg.Config{
		BuildTargets:           doc.BuildTargets,
		Projects:               doc.Projects,
		Runtimes:               doc.Runtimes,
		DistributionComponents: doc.DistributionComponents,
		TargetBackends:         doc.TargetBackends,
		BuildType:              doc.BuildType,
		CMakeFlags:             doc.CMakeFlags,
		UseDefaultCMakeFlags:   doc.UseDefaultCMakeFlags,
	}
}
