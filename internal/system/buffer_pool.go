package system

import (
	"image"
	"sync"
)

// CanvasPool recycles RGBA canvases by size so that rasterizing many frames
// of one composition does not allocate a full canvas per frame.
type CanvasPool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

// NewCanvasPool returns an empty pool.
func NewCanvasPool() *CanvasPool {
	return &CanvasPool{pools: make(map[image.Point]*sync.Pool)}
}

// Get returns a zeroed canvas of the given size.
func (p *CanvasPool) Get(size image.Point) *image.RGBA {
	img := p.pool(size).Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put hands a canvas back. Canvases not obtained from Get are ignored.
func (p *CanvasPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, ok := p.pools[img.Rect.Size()]
	p.mu.RUnlock()
	if ok && img.Rect.Min == (image.Point{}) {
		pool.Put(img)
	}
}

func (p *CanvasPool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}
