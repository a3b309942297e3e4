package svgcompile

import (
	"github.com/benoitkugler/svgbytecode/svgbc"
)

// AssetPosition locates an asset in a bundle, with the size
// of its drawing.
type AssetPosition struct {
	Name   string  `json:"name"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PathPosition locates a path routine in a bundle.
type PathPosition struct {
	Asset string `json:"asset"`
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Manifest describes the content of a bundle.
type Manifest struct {
	Assets           []AssetPosition `json:"assets"`
	Paths            []PathPosition  `json:"paths"`
	Compressed       bool            `json:"compressed"`
	DecompressedSize int             `json:"decompressedSize"`
	CompressedSize   int             `json:"compressedSize"`
}

// Bundle merges the bytecode of the assets, skipping nil entries.
func Bundle(assets []*Asset, compress bool) (svgbc.Blob, Manifest, error) {
	var (
		drawings, paths [][]byte
		kept            []*Asset
		pathOwners      []*Asset
		pathIDs         []string
	)
	for _, a := range assets {
		if a == nil {
			continue
		}
		kept = append(kept, a)
		drawings = append(drawings, a.Bytecode)
		for _, p := range a.Paths {
			paths = append(paths, p.Bytecode)
			pathOwners = append(pathOwners, a)
			pathIDs = append(pathIDs, p.ID)
		}
	}

	blob, err := svgbc.Merge(drawings, paths, compress)
	if err != nil {
		return svgbc.Blob{}, Manifest{}, err
	}

	m := Manifest{
		Compressed:       blob.Compressed,
		DecompressedSize: blob.DecompressedSize,
		CompressedSize:   blob.CompressedSize,
	}
	for i, a := range kept {
		pos := blob.Positions[i]
		rect := a.Routines.Drawing.BoundingRect
		m.Assets = append(m.Assets, AssetPosition{
			Name: a.Name, Start: pos.Start, End: pos.End,
			Width: rect.W, Height: rect.H,
		})
	}
	for i, pos := range blob.PathPositions {
		m.Paths = append(m.Paths, PathPosition{
			Asset: pathOwners[i].Name, ID: pathIDs[i],
			Start: pos.Start, End: pos.End,
		})
	}
	Logger().Debug("bundle",
		"assets", len(kept),
		"paths", len(paths),
		"decompressed", blob.DecompressedSize,
		"compressed", blob.CompressedSize,
	)
	return blob, m, nil
}
