package svgbc

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// pageSize is the chunk size fed to the compressor.
const pageSize = 128

// Position locates one routine in the decompressed blob.
// End is inclusive, so that an empty routine has End == Start-1.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Blob is the concatenation of several compiled routines.
type Blob struct {
	Bytes []byte // zstd frames when Compressed is set

	Positions     []Position // of the drawing routines
	PathPositions []Position // of the path routines, after all drawings

	DecompressedSize int
	CompressedSize   int
	Compressed       bool
}

// Merge concatenates the drawings then the paths, and optionally
// compresses the result with zstd.
func Merge(routines, pathRoutines [][]byte, compress bool) (Blob, error) {
	var (
		raw []byte
		out Blob
	)
	place := func(bc []byte) Position {
		pos := Position{Start: len(raw), End: len(raw) + len(bc) - 1}
		raw = append(raw, bc...)
		return pos
	}
	for _, bc := range routines {
		out.Positions = append(out.Positions, place(bc))
	}
	for _, bc := range pathRoutines {
		out.PathPositions = append(out.PathPositions, place(bc))
	}

	out.DecompressedSize = len(raw)
	if !compress {
		out.Bytes = raw
		out.CompressedSize = len(raw)
		return out, nil
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return Blob{}, fmt.Errorf("creating compressor: %w", err)
	}
	for page := raw; len(page) > 0; {
		n := min(pageSize, len(page))
		if _, err := enc.Write(page[:n]); err != nil {
			enc.Close()
			return Blob{}, fmt.Errorf("compressing: %w", err)
		}
		page = page[n:]
	}
	if err := enc.Close(); err != nil {
		return Blob{}, fmt.Errorf("compressing: %w", err)
	}

	out.Bytes = buf.Bytes()
	out.CompressedSize = len(out.Bytes)
	out.Compressed = true
	return out, nil
}

// Decompress returns the concatenated routines of b.
func Decompress(b Blob) ([]byte, error) {
	if !b.Compressed {
		return b.Bytes, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(b.Bytes, make([]byte, 0, b.DecompressedSize))
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	if len(out) != b.DecompressedSize {
		return nil, fmt.Errorf("decompressing: got %d bytes, expected %d", len(out), b.DecompressedSize)
	}
	return out, nil
}
