package svgcompile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgbytecode/svgbc"
	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgref"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="20">
	<defs><path id="cggen.arrow" d="M0 0 L5 5"/></defs>
	<rect width="4" height="4" fill="red"/>
</svg>`

func writeFiles(t *testing.T, contents map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range contents {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestName(t *testing.T) {
	assert.Equal(t, "icon", Name("a/b/icon.svg"))
	assert.Equal(t, "icon.min", Name("icon.min.svg"))
}

func TestCompileFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"square.svg": square})
	asset, err := CompileFile(filepath.Join(dir, "square.svg"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "square", asset.Name)
	assert.Equal(t, 20., asset.Routines.Drawing.BoundingRect.H)
	require.Len(t, asset.Paths, 1)
	assert.Equal(t, "arrow", asset.Paths[0].ID)

	decoded, err := svgbc.Decode(asset.Bytecode)
	require.NoError(t, err)
	assert.NotEmpty(t, decoded.Steps)

	_, err = CompileFile(filepath.Join(dir, "missing.svg"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompileFiles(t *testing.T) {
	contents := map[string]string{
		"bad.svg":    `<svg xmlns="http://www.w3.org/2000/svg"><text>a</text></svg>`,
		"cyclic.svg": `<svg xmlns="http://www.w3.org/2000/svg"><use id="a" href="#a"/></svg>`,
	}
	var files []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("icon%02d.svg", i)
		contents[name] = square
		files = append(files, name)
	}
	files = append(files, "bad.svg", "cyclic.svg")
	dir := writeFiles(t, contents)
	for i := range files {
		files[i] = filepath.Join(dir, files[i])
	}

	for _, workers := range []int{0, 1, 3} {
		assets, err := CompileFiles(files, Options{Workers: workers})
		require.Len(t, assets, len(files))
		for i := 0; i < 12; i++ {
			assert.Equal(t, fmt.Sprintf("icon%02d", i), assets[i].Name)
		}
		assert.Nil(t, assets[12])
		assert.Nil(t, assets[13])

		var batch *BatchError
		require.ErrorAs(t, err, &batch)
		require.Len(t, batch.Files, 2)
		assert.Equal(t, files[12], batch.Files[0].File)
		assert.ErrorIs(t, batch.Files[0], svgdoc.ErrUnknownElement)
		assert.ErrorIs(t, err, svgref.ErrCyclicReference)
		assert.Contains(t, err.Error(), "2 file(s) failed")
	}

	assets, err := CompileFiles(files[:3], Options{})
	assert.NoError(t, err)
	assert.Len(t, assets, 3)

	assets, err = CompileFiles(nil, Options{})
	assert.NoError(t, err)
	assert.Empty(t, assets)
}

func TestBundle(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.svg": square, "b.svg": square})
	assets, err := CompileFiles([]string{filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.svg")}, Options{})
	require.NoError(t, err)
	assets = append(assets, nil)

	for _, compress := range []bool{false, true} {
		blob, m, err := Bundle(assets, compress)
		require.NoError(t, err)
		require.Len(t, m.Assets, 2)
		require.Len(t, m.Paths, 2)
		assert.Equal(t, compress, m.Compressed)
		assert.Equal(t, "b", m.Assets[1].Name)
		assert.Equal(t, 10., m.Assets[1].Width)
		assert.Equal(t, PathPosition{Asset: "a", ID: "arrow", Start: m.Paths[0].Start, End: m.Paths[0].End}, m.Paths[0])

		raw, err := svgbc.Decompress(blob)
		require.NoError(t, err)
		a := m.Assets[0]
		assert.Equal(t, assets[0].Bytecode, raw[a.Start:a.End+1])
		p := m.Paths[1]
		assert.Equal(t, assets[1].Paths[0].Bytecode, raw[p.Start:p.End+1])
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	doc, err := svgdoc.Parse(bytes.NewReader([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4">
		<rect width="0" height="4"/>
	</svg>`)))
	require.NoError(t, err)
	_, err = Compile(doc, "flat", Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "asset=flat")
	assert.Contains(t, buf.String(), "msg=compiled")

	SetLogger(nil)
	buf.Reset()
	_, err = Compile(doc, "flat", Options{})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestBatchErrorUnwrap(t *testing.T) {
	errA := errors.New("a")
	err := &BatchError{Files: []*FileError{{File: "x.svg", Err: errA}}}
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, "1 file(s) failed to compile\n\tx.svg: a", err.Error())
}
