// Package gridmerge assembles many same-size images into one large canvas.
//
// # Overview
//
// Each source image (a tile) is placed at a deterministic grid position and
// its rows are copied into a single destination buffer. The copy of each
// tile is an independent unit of work, so a merge scales across all
// available cores without any locking: destination rectangles never
// overlap.
//
// # Quick Start
//
//	import "github.com/gogpu/gridmerge"
//
//	tile := gridmerge.Dimensions{Width: 256, Height: 256}
//	layout, err := gridmerge.Plan(len(tiles), tile, gridmerge.SquareAspect())
//	if err != nil {
//	    return err
//	}
//
//	canvas, err := gridmerge.Merge(gridmerge.MergeJob{
//	    Tile:    tile,
//	    Format:  gridmerge.FormatRGBA8,
//	    Sources: tiles,
//	}, layout)
//
// # Components
//
//   - Plan computes canvas size and tile origins from a count, a tile size
//     and an ArrangementPolicy (FixedColumns or SquareAspect).
//   - Engine and Merge validate a job against a Layout, allocate one zeroed
//     destination buffer and copy every tile row by row on a WorkerPool.
//   - Assembler fills a fixed grid incrementally with Push, PushAll and
//     Remove.
//
// # Pixel Data
//
// A PixelBuffer is a row-major byte buffer with a fixed channel layout
// (Format). Pixels are copied as raw bytes: no blending, scaling or format
// conversion happens anywhere in a merge. Decoding and encoding files is
// left to the caller; cmd/gridmerge shows one way to do it.
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down. Tile i sits
// at row i / columns, column i % columns.
package gridmerge

// Version is the current version of the library.
const Version = "0.3.0"
