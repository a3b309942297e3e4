// Package svgcompile chains parsing, lowering and bytecode compilation,
// for one document or for a batch of files.
package svgcompile

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/benoitkugler/svgbytecode/svgbc"
	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svglower"
)

// Options configures the compilation. The zero value is usable.
type Options struct {
	// Workers is the number of files compiled concurrently.
	// Zero means runtime.NumCPU().
	Workers int `toml:"workers" yaml:"workers"`
	// Compress enables zstd compression of bundles.
	Compress bool `toml:"compress" yaml:"compress"`
	// PathPrefix selects the definitions compiled as path routines.
	// Empty means svglower.DefaultPathPrefix.
	PathPrefix string `toml:"path_prefix" yaml:"path_prefix"`
}

// PathBytecode is a compiled path routine.
type PathBytecode struct {
	ID       string
	Bytecode []byte
}

// Asset is a compiled document.
type Asset struct {
	Name     string // derived from the file name
	File     string // empty when not compiled from a file
	Routines svgir.Routines
	Bytecode []byte
	Paths    []PathBytecode
}

// Name returns the asset name for file, its base name without extension.
func Name(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Compile lowers and encodes doc.
func Compile(doc *svgdoc.Document, name string, opts Options) (*Asset, error) {
	logger := Logger().With("asset", name)
	start := time.Now()

	routines, err := svglower.Lower(doc, svglower.Options{PathPrefix: opts.PathPrefix, Logger: logger})
	if err != nil {
		return nil, err
	}
	lowered := time.Since(start)

	asset := &Asset{
		Name:     name,
		Routines: routines,
		Bytecode: svgbc.Compile(routines.Drawing),
	}
	for _, p := range routines.Paths {
		asset.Paths = append(asset.Paths, PathBytecode{ID: p.ID, Bytecode: svgbc.CompilePath(p)})
	}

	logger.Debug("compiled",
		"lowering", lowered,
		"total", time.Since(start),
		"gradients", len(routines.Drawing.Gradients),
		"paths", len(routines.Paths),
		"bytes", len(asset.Bytecode),
	)
	return asset, nil
}

// CompileFile parses and compiles one SVG file.
func CompileFile(file string, opts Options) (*Asset, error) {
	doc, err := svgdoc.ParseFile(file)
	if err != nil {
		return nil, err
	}
	asset, err := Compile(doc, Name(file), opts)
	if err != nil {
		return nil, fmt.Errorf("lowering: %w", err)
	}
	asset.File = file
	return asset, nil
}
