package gamekit

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultFPS is the frame rate of animations created without one.
const DefaultFPS = 25

// SourceKind tells how a SpriteSource was built.
type SourceKind uint8

const (
	SourcePlain     SourceKind = iota // one region covering a whole image
	SourceSpriteMap                   // a grid of equal tiles addressed by index
	SourceAtlas                       // named regions addressed by key
)

func (k SourceKind) String() string {
	switch k {
	case SourcePlain:
		return "plain"
	case SourceSpriteMap:
		return "spritemap"
	case SourceAtlas:
		return "atlas"
	}
	return "unknown"
}

// Region is a rectangle of pixels inside an image.
type Region struct {
	Image      *ebiten.Image
	X, Y, W, H int
}

// Rect returns the region bounds as a Rect.
func (r Region) Rect() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// SubImage returns the region as an ebiten sub-image.
func (r Region) SubImage() *ebiten.Image {
	return r.Image.SubImage(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)).(*ebiten.Image)
}

// Animation is a named frame sequence. Frames index the source's regions.
type Animation struct {
	Key    string
	Frames []int
	FPS    float64
	Loop   bool
}

// frameDuration returns the time one frame is shown, in milliseconds.
func (a *Animation) frameDuration() float64 {
	fps := a.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return 1000 / fps
}

// SpriteSource is a set of image regions a Sprite can show: a whole image,
// a sprite map split into tiles, or an atlas of named regions.
type SpriteSource struct {
	Kind SourceKind

	regions    []Region
	keys       []string
	index      map[string]int
	animations map[string]*Animation

	// Grid layout, for sprite maps.
	tileW, tileH int
	columns      int
	rows         int
}

// PlainSource wraps a whole image as a single-region source.
func PlainSource(img *ebiten.Image) *SpriteSource {
	b := img.Bounds()
	return &SpriteSource{
		Kind:       SourcePlain,
		regions:    []Region{{Image: img, X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()}},
		animations: make(map[string]*Animation),
	}
}

// SpriteMapConfig describes how an image is split into tiles.
type SpriteMapConfig struct {
	TileW, TileH int
	// OffsetX and OffsetY skip blank space at the top-left of the image.
	OffsetX, OffsetY int
	// SpacingX and SpacingY are the gaps between tiles.
	SpacingX, SpacingY int
}

// NewSpriteMap splits img into a grid of tiles, indexed left to right, top
// to bottom. Partial tiles at the right and bottom edges are dropped.
func NewSpriteMap(img *ebiten.Image, cfg SpriteMapConfig) (*SpriteSource, error) {
	if cfg.TileW <= 0 || cfg.TileH <= 0 {
		return nil, fmt.Errorf("gamekit: sprite map tile size %dx%d must be positive", cfg.TileW, cfg.TileH)
	}
	b := img.Bounds()
	cols := (b.Dx() - cfg.OffsetX + cfg.SpacingX) / (cfg.TileW + cfg.SpacingX)
	rows := (b.Dy() - cfg.OffsetY + cfg.SpacingY) / (cfg.TileH + cfg.SpacingY)
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	src := &SpriteSource{
		Kind:       SourceSpriteMap,
		regions:    make([]Region, 0, cols*rows),
		animations: make(map[string]*Animation),
		tileW:      cfg.TileW,
		tileH:      cfg.TileH,
		columns:    cols,
		rows:       rows,
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			src.regions = append(src.regions, Region{
				Image: img,
				X:     b.Min.X + cfg.OffsetX + x*(cfg.TileW+cfg.SpacingX),
				Y:     b.Min.Y + cfg.OffsetY + y*(cfg.TileH+cfg.SpacingY),
				W:     cfg.TileW,
				H:     cfg.TileH,
			})
		}
	}
	return src, nil
}

// NewSpriteAtlas builds an atlas from JSON region data over one or more page
// images. Accepted layouts:
//
//	{"key": {"x": 0, "y": 0, "w": 16, "h": 16}}      verbose
//	{"key": [0, 0, 16, 16]}                          short
//	{"frames": {"key": {"frame": {...}}}}            TexturePacker hash
//	{"frames": [{"filename": "key", "frame": {...}}]} TexturePacker array
//	{"textures": [{"frames": {...}}, ...]}           TexturePacker multi-page
//
// Keys are ordered by name.
func NewSpriteAtlas(data []byte, pages ...*ebiten.Image) (*SpriteSource, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("gamekit: atlas needs at least one page image")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("gamekit: failed to parse atlas JSON: %w", err)
	}

	rects := make(map[string]atlasRect)
	var err error
	switch {
	case probe["textures"] != nil:
		err = parseTexturePages(probe["textures"], rects, len(pages))
	case probe["frames"] != nil:
		err = parseTextureFrames(probe["frames"], 0, rects)
	default:
		err = parsePlainAtlas(probe, rects)
	}
	if err != nil {
		return nil, err
	}

	src := &SpriteSource{
		Kind:       SourceAtlas,
		index:      make(map[string]int, len(rects)),
		animations: make(map[string]*Animation),
	}
	for key := range rects {
		src.keys = append(src.keys, key)
	}
	sort.Strings(src.keys)
	for i, key := range src.keys {
		r := rects[key]
		src.index[key] = i
		src.regions = append(src.regions, Region{Image: pages[r.page], X: r.x, Y: r.y, W: r.w, H: r.h})
	}
	return src, nil
}

type atlasRect struct {
	page       int
	x, y, w, h int
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename string   `json:"filename"`
	Frame    jsonRect `json:"frame"`
	Rotated  bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Frames json.RawMessage `json:"frames"`
}

func parsePlainAtlas(entries map[string]json.RawMessage, out map[string]atlasRect) error {
	for key, raw := range entries {
		if key == "meta" {
			continue
		}
		var verbose jsonRect
		if err := json.Unmarshal(raw, &verbose); err == nil {
			out[key] = atlasRect{x: verbose.X, y: verbose.Y, w: verbose.W, h: verbose.H}
			continue
		}
		var short []int
		if err := json.Unmarshal(raw, &short); err != nil || len(short) != 4 {
			return fmt.Errorf("gamekit: atlas entry %q is neither {x,y,w,h} nor [x,y,w,h]", key)
		}
		out[key] = atlasRect{x: short[0], y: short[1], w: short[2], h: short[3]}
	}
	return nil
}

// parseTextureFrames parses a TexturePacker frame list in hash or array form.
func parseTextureFrames(raw json.RawMessage, page int, out map[string]atlasRect) error {
	var hash map[string]jsonFrame
	if err := json.Unmarshal(raw, &hash); err == nil {
		for name, f := range hash {
			out[name] = frameToRect(f, page)
		}
		return nil
	}
	var list []jsonFrame
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("gamekit: failed to parse atlas frames: %w", err)
	}
	for i, f := range list {
		if f.Filename == "" {
			return fmt.Errorf("gamekit: atlas frame %d has no filename", i)
		}
		out[f.Filename] = frameToRect(f, page)
	}
	return nil
}

func parseTexturePages(raw json.RawMessage, out map[string]atlasRect, pages int) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("gamekit: failed to parse atlas textures array: %w", err)
	}
	if len(textures) > pages {
		return fmt.Errorf("gamekit: atlas has %d pages but %d images were given", len(textures), pages)
	}
	for i, tex := range textures {
		if err := parseTextureFrames(tex.Frames, i, out); err != nil {
			return err
		}
	}
	return nil
}

// frameToRect converts a TexturePacker frame. Rotated frames are stored
// 90 degrees clockwise, so their packed width and height are swapped.
func frameToRect(f jsonFrame, page int) atlasRect {
	r := atlasRect{page: page, x: f.Frame.X, y: f.Frame.Y, w: f.Frame.W, h: f.Frame.H}
	if f.Rotated {
		r.w, r.h = r.h, r.w
	}
	return r
}

// --- Lookup ---

// Len returns the number of regions.
func (s *SpriteSource) Len() int { return len(s.regions) }

// Region returns the region at index i.
func (s *SpriteSource) Region(i int) (Region, bool) {
	if i < 0 || i >= len(s.regions) {
		return Region{}, false
	}
	return s.regions[i], true
}

// Keys returns the atlas keys in region order. Nil for other kinds.
func (s *SpriteSource) Keys() []string { return s.keys }

// IndexOf returns the region index for an atlas key.
func (s *SpriteSource) IndexOf(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

// RegionByKey returns the region for an atlas key.
func (s *SpriteSource) RegionByKey(key string) (Region, bool) {
	i, ok := s.index[key]
	if !ok {
		return Region{}, false
	}
	return s.regions[i], true
}

// Grid returns the tile size and grid dimensions of a sprite map.
func (s *SpriteSource) Grid() (tileW, tileH, columns, rows int) {
	return s.tileW, s.tileH, s.columns, s.rows
}

// --- Animations ---

// CreateAnimation stores an animation over the index range [from, to]. A
// range running backwards plays in reverse. fps <= 0 uses DefaultFPS.
func (s *SpriteSource) CreateAnimation(key string, from, to int, fps float64, loop bool) error {
	if from < 0 || from >= len(s.regions) || to < 0 || to >= len(s.regions) {
		return fmt.Errorf("animation %q range %d..%d: %w", key, from, to, ErrUnknownSource)
	}
	step := 1
	if to < from {
		step = -1
	}
	var frames []int
	for i := from; ; i += step {
		frames = append(frames, i)
		if i == to {
			break
		}
	}
	s.addAnimation(key, frames, fps, loop)
	return nil
}

// CreateAtlasAnimation stores an animation over atlas keys, in order.
func (s *SpriteSource) CreateAtlasAnimation(key string, keys []string, fps float64, loop bool) error {
	frames := make([]int, 0, len(keys))
	for _, k := range keys {
		i, ok := s.index[k]
		if !ok {
			return fmt.Errorf("animation %q frame %q: %w", key, k, ErrUnknownSource)
		}
		frames = append(frames, i)
	}
	if len(frames) == 0 {
		return fmt.Errorf("animation %q has no frames", key)
	}
	s.addAnimation(key, frames, fps, loop)
	return nil
}

func (s *SpriteSource) addAnimation(key string, frames []int, fps float64, loop bool) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	s.animations[key] = &Animation{Key: key, Frames: frames, FPS: fps, Loop: loop}
}

// Animation returns a stored animation.
func (s *SpriteSource) Animation(key string) (*Animation, bool) {
	a, ok := s.animations[key]
	return a, ok
}
