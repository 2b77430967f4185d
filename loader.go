package gamekit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/webp" // register WebP decoding
	"golang.org/x/sync/errgroup"
)

// DefaultLoadConcurrency bounds how many files a Loader reads and decodes at
// once.
const DefaultLoadConcurrency = 4

var (
	spriteMapName = regexp.MustCompile(`\.smap\.(\d+)x(\d+)\.`)
	atlasName     = regexp.MustCompile(`\.atlas\.`)
)

// Loader reads images from a file system into sprite sources. Files are read
// and decoded on background goroutines; sources are created and promises
// settled on the frame goroutine through Core.Post.
//
// Image names select the source kind:
//
//	hero.png               plain source
//	tiles.smap.32x32.png   sprite map of 32x32 tiles
//	ui.atlas.png           atlas, regions read from ui.atlas.json
type Loader struct {
	// Concurrency bounds parallel reads. Zero uses DefaultLoadConcurrency.
	Concurrency int

	core     *Core
	fsys     fs.FS
	folder   string
	sources  map[string]*SpriteSource
	inflight map[string]*Promise
}

// NewLoader returns a loader reading from folder inside fsys.
func NewLoader(c *Core, fsys fs.FS, folder string) *Loader {
	return &Loader{
		core:     c,
		fsys:     fsys,
		folder:   folder,
		sources:  make(map[string]*SpriteSource),
		inflight: make(map[string]*Promise),
	}
}

// Source returns a loaded source.
func (l *Loader) Source(key string) (*SpriteSource, bool) {
	s, ok := l.sources[key]
	return s, ok
}

// Keys returns the keys of loaded sources.
func (l *Loader) Keys() []string {
	keys := make([]string, 0, len(l.sources))
	for k := range l.sources {
		keys = append(keys, k)
	}
	return keys
}

// Put stores a source under key, replacing any loaded one.
func (l *Loader) Put(key string, src *SpriteSource) {
	l.sources[key] = src
}

func (l *Loader) path(name string) string {
	return path.Join(l.folder, name)
}

type assetRequest struct {
	key, file string
}

type decodedAsset struct {
	assetRequest
	img   image.Image
	atlas []byte
}

// Fetch loads "key:file" assets. Keys already loaded are skipped and keys
// being loaded by an earlier call are shared. The promise resolves once all
// named keys are available and rejects on the first failure. A single name
// ending in .json, .yaml or .yml is fetched as a manifest.
func (l *Loader) Fetch(names ...string) *Promise {
	if len(names) == 1 && !strings.Contains(names[0], ":") && isManifest(names[0]) {
		return l.FetchManifest(names[0])
	}

	var reqs []assetRequest
	var wait []*Promise
	seen := make(map[string]bool)
	for _, n := range names {
		key, file, ok := strings.Cut(n, ":")
		if !ok || key == "" || file == "" || strings.Contains(file, ":") {
			return Rejected(fmt.Errorf("asset %q: %w", n, ErrMalformedAssetName))
		}
		if _, loaded := l.sources[key]; loaded || seen[key] {
			continue
		}
		seen[key] = true
		if p, ok := l.inflight[key]; ok {
			wait = append(wait, p)
			continue
		}
		reqs = append(reqs, assetRequest{key: key, file: file})
	}

	if len(reqs) > 0 {
		batch := l.core.NewPromise()
		for _, r := range reqs {
			l.inflight[r.key] = batch
		}
		l.load(reqs, batch)
		wait = append(wait, batch)
	}
	if len(wait) == 0 {
		return Resolved()
	}
	return All(wait...)
}

// load reads and decodes reqs in the background, then builds sources on the
// frame goroutine.
func (l *Loader) load(reqs []assetRequest, batch *Promise) {
	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultLoadConcurrency
	}
	decoded := make([]decodedAsset, len(reqs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, r := range reqs {
		g.Go(func() error {
			d, err := l.decode(r)
			if err != nil {
				return err
			}
			decoded[i] = d
			return nil
		})
	}

	go func() {
		err := g.Wait()
		l.core.Post(func() {
			for _, r := range reqs {
				delete(l.inflight, r.key)
			}
			if err != nil {
				l.core.log.Warn("asset load failed", "err", err)
				batch.Reject(err)
				return
			}
			for _, d := range decoded {
				src, err := buildSource(d)
				if err != nil {
					l.core.log.Warn("asset build failed", "key", d.key, "err", err)
					batch.Reject(err)
					return
				}
				l.sources[d.key] = src
				l.core.log.Debug("asset loaded", "key", d.key, "file", d.file, "kind", src.Kind)
			}
			batch.Resolve()
		})
	}()
}

func (l *Loader) decode(r assetRequest) (decodedAsset, error) {
	d := decodedAsset{assetRequest: r}
	data, err := fs.ReadFile(l.fsys, l.path(r.file))
	if err != nil {
		return d, fmt.Errorf("read asset %q: %w", r.key, err)
	}
	d.img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return d, fmt.Errorf("decode asset %q: %w", r.key, err)
	}
	if atlasName.MatchString(r.file) {
		jsonFile := strings.TrimSuffix(r.file, path.Ext(r.file)) + ".json"
		d.atlas, err = fs.ReadFile(l.fsys, l.path(jsonFile))
		if err != nil {
			return d, fmt.Errorf("read atlas data for %q: %w", r.key, err)
		}
	}
	return d, nil
}

// buildSource creates the ebiten image and wraps it in the source kind the
// file name asks for. It runs on the frame goroutine.
func buildSource(d decodedAsset) (*SpriteSource, error) {
	img := ebiten.NewImageFromImage(d.img)
	if m := spriteMapName.FindStringSubmatch(d.file); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		return NewSpriteMap(img, SpriteMapConfig{TileW: w, TileH: h})
	}
	if d.atlas != nil {
		return NewSpriteAtlas(d.atlas, img)
	}
	return PlainSource(img), nil
}

// --- Manifests and JSON ---

func isManifest(name string) bool {
	switch path.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// manifest is either a bare list of "key:file" names or an object with an
// assets list.
type manifest struct {
	Assets []string `yaml:"assets" json:"assets"`
}

func parseManifest(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Assets, nil
}

// FetchManifest reads a YAML or JSON list of "key:file" names and fetches
// them.
func (l *Loader) FetchManifest(name string) *Promise {
	out := l.core.NewPromise()
	l.readAsync(name, func(data []byte) (any, error) {
		names, err := parseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("parse manifest %q: %w", name, err)
		}
		return names, nil
	}).Then(func(values ...any) any {
		names := values[0].([]string)
		if len(names) == 0 {
			return nil
		}
		return l.Fetch(names...)
	}, nil).Then(func(...any) any {
		out.Resolve()
		return nil
	}, func(values ...any) any {
		out.Reject(values...)
		return nil
	})
	return out
}

// GetJSON reads and decodes a JSON file. The promise resolves with the
// decoded value.
func (l *Loader) GetJSON(name string) *Promise {
	return l.readAsync(name, func(data []byte) (any, error) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse %q: %w", name, err)
		}
		return v, nil
	})
}

// FetchTileMap reads a Tiled JSON map and builds a TileMap from it. Every
// tileset's sprite map must already be loaded under its asset key.
func (l *Loader) FetchTileMap(name string) *Promise {
	return l.readAsync(name, func(data []byte) (any, error) {
		return ParseTiledMap(data)
	}).Then(func(values ...any) any {
		doc := values[0].(*TiledMap)
		sources := make([]*SpriteSource, 0, len(doc.Tilesets))
		for _, ts := range doc.Tilesets {
			src, ok := l.sources[ts.AssetKey()]
			if !ok {
				return Rejected(fmt.Errorf("tileset %q: %w", ts.AssetKey(), ErrUnknownSource))
			}
			sources = append(sources, src)
		}
		return NewTiledTileMap(doc, sources...)
	}, nil)
}

// readAsync reads name and runs parse in the background, settling the
// returned promise on the frame goroutine.
func (l *Loader) readAsync(name string, parse func([]byte) (any, error)) *Promise {
	p := l.core.NewPromise()
	go func() {
		var v any
		data, err := fs.ReadFile(l.fsys, l.path(name))
		if err == nil {
			v, err = parse(data)
		} else {
			err = fmt.Errorf("read %q: %w", name, err)
		}
		l.core.Post(func() {
			if err != nil {
				l.core.log.Warn("asset read failed", "file", name, "err", err)
				p.Reject(err)
				return
			}
			p.Resolve(v)
		})
	}()
	return p
}
