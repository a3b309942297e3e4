// Command svgbc compiles SVG files into a bytecode bundle.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tdewolff/argp"

	"github.com/benoitkugler/svgbytecode/svgcompile"
	"github.com/benoitkugler/svgbytecode/svgraster"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inputs     []string
		configFile string
		cfg        = defaultConfig()
		flags      config
		noCompress bool
		watch      bool
		quiet      bool
		verbose    int
	)

	f := argp.New("svgbc")
	f.AddRest(&inputs, "inputs", "Input SVG files or directories")
	f.AddOpt(&flags.Output, "o", "output", "", "Output bundle file")
	f.AddOpt(&flags.Positions, "", "positions", "", "Output JSON file with the position of each asset in the bundle")
	f.AddOpt(&flags.PNG, "", "png", "", "Directory where PNG previews are written")
	f.AddOpt(&flags.Scale, "", "png-scale", 0.0, "Scale of the PNG previews")
	f.AddOpt(&flags.Workers, "j", "jobs", 0, "Number of files compiled concurrently, 0 is the number of CPUs")
	f.AddOpt(&flags.PathPrefix, "", "prefix", "", "Prefix of the ids compiled as path routines")
	f.AddOpt(&noCompress, "", "no-compress", false, "Do not compress the bundle")
	f.AddOpt(&watch, "w", "watch", false, "Watch inputs and compile upon changes")
	f.AddOpt(&configFile, "c", "config", "", "Configuration file (.toml, .yaml or .yml)")
	f.AddOpt(&quiet, "q", "quiet", false, "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{&verbose}, "v", "verbose", nil, "Verbose mode")
	f.Parse()

	level := slog.LevelInfo
	if 0 < verbose {
		level = slog.LevelDebug
	}
	if quiet {
		logger = slog.New(slog.DiscardHandler)
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		svgcompile.SetLogger(logger)
	}

	if configFile != "" {
		if err := loadConfig(configFile, &cfg); err != nil {
			logger.Error("reading config", "file", configFile, "err", err)
			return 1
		}
	}
	cfg.override(flags, noCompress)

	if len(inputs) == 0 {
		logger.Error("no input, see --help")
		return 1
	}

	files, err := listFiles(inputs)
	if err != nil {
		logger.Error("listing inputs", "err", err)
		return 1
	}

	ok := compileAll(files, cfg)
	if !watch {
		if !ok {
			return 1
		}
		return 0
	}

	watcher, err := NewWatcher()
	if err != nil {
		logger.Error("watching", "err", err)
		return 1
	}
	defer watcher.Close()
	for _, input := range inputs {
		if err := watcher.AddPath(input); err != nil {
			logger.Error("watching", "path", input, "err", err)
			return 1
		}
	}
	changes := watcher.Run()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	for changes != nil {
		select {
		case <-c:
			watcher.Close()
		case file, ok := <-changes:
			if !ok {
				changes = nil
				break
			}
			logger.Info("changed", "file", file)
			if files, err = listFiles(inputs); err != nil {
				logger.Error("listing inputs", "err", err)
				break
			}
			compileAll(files, cfg)
		}
	}
	return 0
}

func isSVG(file string) bool { return strings.EqualFold(filepath.Ext(file), ".svg") }

// listFiles expands the directories of inputs into their SVG files,
// sorted by path.
func listFiles(inputs []string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}
		var inDir []string
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSVG(path) {
				inDir = append(inDir, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(inDir)
		files = append(files, inDir...)
	}
	return files, nil
}

// compileAll compiles the files and writes the outputs. It returns
// false if any file or output failed.
func compileAll(files []string, cfg config) bool {
	start := time.Now()
	ok := true
	assets, err := svgcompile.CompileFiles(files, cfg.Options)
	if err != nil {
		var batch *svgcompile.BatchError
		if !errors.As(err, &batch) {
			logger.Error("compiling", "err", err)
			return false
		}
		for _, fe := range batch.Files {
			logger.Error("compiling", "file", fe.File, "err", fe.Err)
		}
		ok = false
	}

	blob, manifest, err := svgcompile.Bundle(assets, cfg.Compress)
	if err != nil {
		logger.Error("bundling", "err", err)
		return false
	}
	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, blob.Bytes, 0o644); err != nil {
			logger.Error("writing bundle", "err", err)
			ok = false
		}
	}
	if cfg.Positions != "" {
		if err := writeJSON(cfg.Positions, manifest); err != nil {
			logger.Error("writing positions", "err", err)
			ok = false
		}
	}
	if cfg.PNG != "" {
		if err := writePreviews(cfg.PNG, cfg.Scale, assets); err != nil {
			logger.Error("writing previews", "err", err)
			ok = false
		}
	}

	logger.Info("compiled",
		"files", len(files),
		"assets", len(manifest.Assets),
		"bytes", blob.DecompressedSize,
		"compressed", blob.CompressedSize,
		"duration", time.Since(start),
	)
	return ok
}

func writeJSON(file string, v any) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o644)
}

func writePreviews(dir string, scale float64, assets []*svgcompile.Asset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, a := range assets {
		if a == nil {
			continue
		}
		img, err := svgraster.Render(a.Routines.Drawing, scale)
		if errors.Is(err, svgraster.ErrEmptyImage) {
			logger.Warn("no preview", "asset", a.Name, "err", err)
			continue
		} else if err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
		out, err := os.Create(filepath.Join(dir, a.Name+".png"))
		if err != nil {
			return err
		}
		err = png.Encode(out, img)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
	}
	return nil
}
