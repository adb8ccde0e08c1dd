package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует image.RGBA одного размера между кадрами,
// чтобы снизить нагрузку на Garbage Collector (GC).
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex

	allocated atomic.Int64
}

// NewImagePool creates an empty pool
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

func (p *ImagePool) pool(rect image.Rectangle) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, exists = p.pools[rect]; !exists {
		pool = &sync.Pool{
			New: func() any {
				p.allocated.Add(1)
				return image.NewRGBA(rect)
			},
		}
		p.pools[rect] = pool
	}
	return pool
}

// Get возвращает прозрачный *image.RGBA нужного размера из пула
// или создает новый.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	img := p.pool(rect).Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put возвращает изображение в пул. Изображения чужого размера
// получают собственный пул.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.pool(img.Rect).Put(img)
}

// Allocated is the number of images the pool had to create
func (p *ImagePool) Allocated() int64 {
	return p.allocated.Load()
}
