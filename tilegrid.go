package gamekit

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EmptyTile marks a cell with no tile.
const EmptyTile = -1

// TileGrid is a grid of tile indexes drawn from one or more sprite maps.
// Indexes run through the sources in order: with two 16-tile maps, index 20
// is tile 4 of the second map. Cells are addressed by column then row.
type TileGrid struct {
	Entity
	// GridSize, when positive, outlines every cell with lines this wide.
	GridSize  float64
	GridColor Color

	cells   [][]int
	w, h    int
	sources []*SpriteSource
}

// NewTileGrid returns a w x h grid of empty cells.
func NewTileGrid(w, h int, sources ...*SpriteSource) *TileGrid {
	g := &TileGrid{Entity: NewEntity(), sources: sources, GridColor: ColorBlack}
	g.Resize(w, h, EmptyTile)
	return g
}

// Dimensions returns the number of columns and rows.
func (g *TileGrid) Dimensions() (w, h int) { return g.w, g.h }

// Sources returns the sprite maps tiles are drawn from.
func (g *TileGrid) Sources() []*SpriteSource { return g.sources }

// TileSize returns the pixel size of one cell, taken from the first source.
func (g *TileGrid) TileSize() (w, h float64) {
	if len(g.sources) == 0 || g.sources[0].Len() == 0 {
		return 0, 0
	}
	r, _ := g.sources[0].Region(0)
	return float64(r.W), float64(r.H)
}

// Size returns the unscaled pixel size of the grid.
func (g *TileGrid) Size() (w, h float64) {
	tw, th := g.TileSize()
	return tw * float64(g.w), th * float64(g.h)
}

// Resize grows the grid to at least w x h. It never shrinks: a smaller w or
// h keeps the current size. Existing cells are kept and new cells are set
// to fill.
func (g *TileGrid) Resize(w, h, fill int) {
	w, h = max(w, g.w), max(h, g.h)
	if w == g.w && h == g.h && g.cells != nil {
		return
	}
	cells := make([][]int, w)
	for x := range cells {
		col := make([]int, h)
		for y := range col {
			if x < g.w && y < g.h {
				col[y] = g.cells[x][y]
			} else {
				col[y] = fill
			}
		}
		cells[x] = col
	}
	g.cells = cells
	g.w, g.h = w, h
}

// At returns the tile index at (x, y), or EmptyTile outside the grid.
func (g *TileGrid) At(x, y int) int {
	if !g.inside(x, y) {
		return EmptyTile
	}
	return g.cells[x][y]
}

// Set stores a tile index at (x, y).
func (g *TileGrid) Set(x, y, index int) error {
	if !g.inside(x, y) {
		return fmt.Errorf("set tile (%d,%d) in %dx%d grid: %w", x, y, g.w, g.h, ErrInvalidCoordinates)
	}
	g.cells[x][y] = index
	return nil
}

func (g *TileGrid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// SetData replaces cells column by column. The grid grows to fit data.
func (g *TileGrid) SetData(columns [][]int) {
	h := g.h
	for _, col := range columns {
		h = max(h, len(col))
	}
	if len(columns) > g.w || h > g.h {
		g.Resize(max(g.w, len(columns)), h, EmptyTile)
	}
	for x, col := range columns {
		copy(g.cells[x], col)
	}
}

// SetStream fills the grid row by row from Tiled layer data, where 0 is an
// empty cell and n is tile n-1. Missing trailing values leave cells empty.
func (g *TileGrid) SetStream(stream []int) {
	i := 0
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			idx := EmptyTile
			if i < len(stream) && stream[i] > 0 {
				idx = stream[i] - 1
			}
			g.cells[x][y] = idx
			i++
		}
	}
}

// Fill flood fills the region of equal tiles connected to (x, y) along the
// four axes with index.
func (g *TileGrid) Fill(x, y, index int) error {
	if !g.inside(x, y) {
		return fmt.Errorf("fill from (%d,%d) in %dx%d grid: %w", x, y, g.w, g.h, ErrInvalidCoordinates)
	}
	old := g.cells[x][y]
	if old == index {
		return nil
	}
	stack := []Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !g.inside(p.X, p.Y) || g.cells[p.X][p.Y] != old {
			continue
		}
		g.cells[p.X][p.Y] = index
		stack = append(stack,
			Point{X: p.X, Y: p.Y - 1},
			Point{X: p.X - 1, Y: p.Y},
			Point{X: p.X + 1, Y: p.Y},
			Point{X: p.X, Y: p.Y + 1},
		)
	}
	return nil
}

// Path finds a route between two cells, never entering a tile in avoid.
// See FindPath.
func (g *TileGrid) Path(from, to Point, avoid ...int) ([]Point, error) {
	return FindPath(g, from, to, avoid...)
}

// region resolves a tile index across the grid's sources.
func (g *TileGrid) region(idx int) (Region, bool) {
	for _, src := range g.sources {
		if idx < src.Len() {
			return src.Region(idx)
		}
		idx -= src.Len()
	}
	return Region{}, false
}

// Draw draws every non-empty cell, then the grid lines.
func (g *TileGrid) Draw(s Surface) {
	tw, th := g.TileSize()
	if tw == 0 || th == 0 {
		return
	}
	g.applyTransform(s)
	for x, col := range g.cells {
		for y, idx := range col {
			if idx < 0 {
				continue
			}
			r, ok := g.region(idx)
			if !ok {
				continue
			}
			s.DrawImage(r.Image, r.Rect(), Rect{X: float64(x) * tw, Y: float64(y) * th, W: tw, H: th})
		}
	}
	if g.GridSize > 0 {
		for x := 0; x < g.w; x++ {
			for y := 0; y < g.h; y++ {
				s.StrokeRect(Rect{X: float64(x) * tw, Y: float64(y) * th, W: tw, H: th}, g.GridColor, g.GridSize)
			}
		}
	}
}

// --- Snapshots ---

type gridSnapshot struct {
	W     int   `msgpack:"w"`
	H     int   `msgpack:"h"`
	Cells []int `msgpack:"cells"`
}

// Snapshot encodes the cell data as MessagePack, row by row.
func (g *TileGrid) Snapshot() ([]byte, error) {
	snap := gridSnapshot{W: g.w, H: g.h, Cells: make([]int, 0, g.w*g.h)}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			snap.Cells = append(snap.Cells, g.cells[x][y])
		}
	}
	b, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("gamekit: encode grid snapshot: %w", err)
	}
	return b, nil
}

// Restore replaces the grid's dimensions and cells with a snapshot.
func (g *TileGrid) Restore(data []byte) error {
	var snap gridSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("gamekit: decode grid snapshot: %w", err)
	}
	if snap.W < 0 || snap.H < 0 || len(snap.Cells) != snap.W*snap.H {
		return fmt.Errorf("gamekit: grid snapshot has %d cells for %dx%d", len(snap.Cells), snap.W, snap.H)
	}
	// Restore replaces the grid, so it may shrink.
	g.cells = nil
	g.w, g.h = 0, 0
	g.Resize(snap.W, snap.H, EmptyTile)
	i := 0
	for y := 0; y < snap.H; y++ {
		for x := 0; x < snap.W; x++ {
			g.cells[x][y] = snap.Cells[i]
			i++
		}
	}
	return nil
}
