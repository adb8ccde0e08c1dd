package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// ErrAssetNotFound is returned when no directory holds the asset
var ErrAssetNotFound = errors.New("asset not found")

// DefaultDPI rasterizes vector (PDF) assets
const DefaultDPI = 300

// Loader is what the rasterizer needs from a resolver
type Loader interface {
	Load(name string) (image.Image, error)
}

type entry struct {
	img image.Image
	err error
}

// Resolver finds static files by name in an ordered list of directories,
// decodes them once and keeps the result.
type Resolver struct {
	Dirs []string
	DPI  int

	mu    sync.Mutex
	cache map[string]*entry
	once  map[string]*sync.Once
}

// NewResolver searches dirs in order
func NewResolver(dirs ...string) *Resolver {
	return &Resolver{
		Dirs:  dirs,
		DPI:   DefaultDPI,
		cache: make(map[string]*entry),
		once:  make(map[string]*sync.Once),
	}
}

// Resolve returns the path of the first file called name. Absolute paths
// are used as they are.
func (r *Resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrAssetNotFound)
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return name, nil
	}
	clean := filepath.Clean(name)
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: %s escapes the asset directories", ErrAssetNotFound, name)
	}
	for _, dir := range r.Dirs {
		p := filepath.Join(dir, clean)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrAssetNotFound, name, strings.Join(r.Dirs, ", "))
}

// Load decodes the asset once; later calls share the image and the error
func (r *Resolver) Load(name string) (image.Image, error) {
	r.mu.Lock()
	if r.cache == nil {
		r.cache = make(map[string]*entry)
		r.once = make(map[string]*sync.Once)
	}
	once, ok := r.once[name]
	if !ok {
		once = &sync.Once{}
		r.once[name] = once
		r.cache[name] = &entry{}
	}
	e := r.cache[name]
	r.mu.Unlock()

	once.Do(func() {
		e.img, e.err = r.load(name)
	})
	return e.img, e.err
}

func (r *Resolver) load(name string) (image.Image, error) {
	path, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		dpi := r.DPI
		if dpi <= 0 {
			dpi = DefaultDPI
		}
		return renderPDF(path, dpi)
	}
	return decodeImage(path)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// renderPDF rasterizes the first page of a vector logo
func renderPDF(path string, dpi int) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%s has no pages", path)
	}
	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return img, nil
}

// Dimensions reads the pixel size of an asset without keeping it
func (r *Resolver) Dimensions(name string) (int, int, error) {
	path, err := r.Resolve(name)
	if err != nil {
		return 0, 0, err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		doc, err := fitz.New(path)
		if err != nil {
			return 0, 0, err
		}
		defer doc.Close()
		rect, err := doc.Bound(0)
		if err != nil {
			return 0, 0, err
		}
		return rect.Dx(), rect.Dy(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
