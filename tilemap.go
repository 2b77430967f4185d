package gamekit

import (
	"encoding/json"
	"fmt"
)

// Tiled stores flip flags in the top bits of a tile GID.
const (
	tileFlipH    uint32 = 1 << 31 // horizontal flip
	tileFlipV    uint32 = 1 << 30 // vertical flip
	tileFlipD    uint32 = 1 << 29 // diagonal flip (90° rotation)
	tileFlagMask uint32 = tileFlipH | tileFlipV | tileFlipD
)

// TiledMap is the subset of a Tiled JSON map document the toolkit reads.
type TiledMap struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	TileWidth  int            `json:"tilewidth"`
	TileHeight int            `json:"tileheight"`
	Layers     []TiledLayer   `json:"layers"`
	Tilesets   []TiledTileset `json:"tilesets"`
}

// TiledLayer is one layer of a Tiled map. Only "tilelayer" layers are used.
type TiledLayer struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Visible bool     `json:"visible"`
	Data    []uint32 `json:"data"`
}

// TiledTileset names a tileset. Key, when set, names the loaded sprite map
// to use; otherwise Name does.
type TiledTileset struct {
	FirstGID int    `json:"firstgid"`
	Name     string `json:"name"`
	Key      string `json:"key"`
	Image    string `json:"image"`
}

// AssetKey returns the key the tileset's sprite map is loaded under.
func (t TiledTileset) AssetKey() string {
	if t.Key != "" {
		return t.Key
	}
	return t.Name
}

// ParseTiledMap decodes a Tiled JSON map. Layers without a visible field are
// treated as visible.
func ParseTiledMap(data []byte) (*TiledMap, error) {
	var raw struct {
		TiledMap
		Layers []struct {
			TiledLayer
			Visible *bool `json:"visible"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("gamekit: failed to parse Tiled map: %w", err)
	}
	m := raw.TiledMap
	m.Layers = make([]TiledLayer, len(raw.Layers))
	for i, l := range raw.Layers {
		m.Layers[i] = l.TiledLayer
		m.Layers[i].Visible = l.Visible == nil || *l.Visible
	}
	return &m, nil
}

// TileMap is a stack of tile grids sharing one set of sprite maps, moved and
// faded as a group.
type TileMap struct {
	Group
	Width, Height int

	layers  []*TileGrid
	sources []*SpriteSource
}

// NewTileMap returns an empty w x h map drawing tiles from sources.
func NewTileMap(w, h int, sources ...*SpriteSource) *TileMap {
	return &TileMap{Group: *NewGroup(), Width: w, Height: h, sources: sources}
}

// NewTiledTileMap builds a map from a Tiled document. Each tile layer becomes
// a grid; invisible layers get alpha 0. sources must follow the document's
// tileset order.
func NewTiledTileMap(doc *TiledMap, sources ...*SpriteSource) *TileMap {
	m := NewTileMap(doc.Width, doc.Height, sources...)
	for _, l := range doc.Layers {
		if l.Type != "tilelayer" {
			continue
		}
		g := m.CreateLayer(l.Width, l.Height)
		g.Name = l.Name
		g.SetPosition(l.X, l.Y)
		stream := make([]int, len(l.Data))
		for i, gid := range l.Data {
			stream[i] = int(gid &^ tileFlagMask)
		}
		g.SetStream(stream)
		if !l.Visible {
			g.Alpha = 0
		}
	}
	return m
}

// CreateLayer adds an empty grid on top. Zero sizes use the map size.
func (m *TileMap) CreateLayer(w, h int) *TileGrid {
	if w <= 0 {
		w = m.Width
	}
	if h <= 0 {
		h = m.Height
	}
	g := NewTileGrid(w, h, m.sources...)
	m.layers = append(m.layers, g)
	m.Attach(g)
	return g
}

// Layers returns the map's grids, bottom first.
func (m *TileMap) Layers() []*TileGrid { return m.layers }

// TileLayer returns grid i, or nil when out of range.
func (m *TileMap) TileLayer(i int) *TileGrid {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	return m.layers[i]
}

// Path finds a route across grid layer. See FindPath.
func (m *TileMap) Path(layer int, from, to Point, avoid ...int) ([]Point, error) {
	g := m.TileLayer(layer)
	if g == nil {
		return nil, fmt.Errorf("gamekit: tile map has no layer %d", layer)
	}
	return g.Path(from, to, avoid...)
}
