package renderer

import (
	"image"
)

// Tile is a rectangular region of the output image. Tiles partition the
// image exactly: every pixel belongs to one tile, so workers writing their
// own tiles never touch the same pixel.
type Tile struct {
	ID     int
	Bounds image.Rectangle
	Seed   int64 // Seed for this tile's random generator
}

// NewTileGrid partitions a width x height image into tiles of at most
// tileSize on a side, in row-major order. Edge tiles may be smaller.
// Each tile gets a deterministic seed derived from the base seed and its ID.
func NewTileGrid(width, height, tileSize int, baseSeed int64) []Tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			id := len(tiles)
			tiles = append(tiles, Tile{
				ID:     id,
				Bounds: image.Rect(x0, y0, x1, y1),
				Seed:   baseSeed + int64(id),
			})
		}
	}
	return tiles
}
