package engine

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelframe/internal/config"
	"github.com/ivlev/reelframe/internal/preview"
	"github.com/ivlev/reelframe/internal/renderer"
	"github.com/ivlev/reelframe/internal/source"
)

// Sink receives rendered frames. Write is called from several workers at
// once and in no particular order.
type Sink interface {
	Write(fr *renderer.Frame) error
	Close() error
}

// OpenSink creates the sink for cfg.Format under cfg.OutputDir. frames is
// the ordered selection the run will produce.
func OpenSink(cfg config.Config, composition string, frames []int) (Sink, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, err
	}

	switch cfg.Format {
	case config.FormatJSONL:
		f, err := os.Create(filepath.Join(cfg.OutputDir, composition+".jsonl"))
		if err != nil {
			return nil, err
		}
		return NewJSONLSink(f, frames), nil
	case config.FormatYAML:
		return NewDirSink(filepath.Join(cfg.OutputDir, composition))
	case config.FormatPreview:
		r, err := NewRasterizer(cfg)
		if err != nil {
			return nil, err
		}
		return NewPreviewSink(filepath.Join(cfg.OutputDir, composition), r)
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

// NewRasterizer builds the preview rasterizer described by cfg.
func NewRasterizer(cfg config.Config) (*preview.Rasterizer, error) {
	opts := preview.Options{Scale: cfg.PreviewScale, Debug: cfg.Debug}
	if cfg.AssetsDir != "" {
		assets, err := source.NewAssets(cfg.AssetsDir)
		if err != nil {
			return nil, err
		}
		opts.Assets = assets
	}
	return preview.New(opts)
}

// JSONLSink writes one JSON document per line in selection order, holding
// back frames that finish before their predecessors.
type JSONLSink struct {
	mu      sync.Mutex
	w       *bufio.Writer
	closer  io.Closer
	enc     *json.Encoder
	order   []int
	next    int
	pending map[int]*renderer.Frame
}

// NewJSONLSink writes to w. When w is an io.Closer, Close closes it.
func NewJSONLSink(w io.Writer, frames []int) *JSONLSink {
	bw := bufio.NewWriter(w)
	s := &JSONLSink{
		w:       bw,
		enc:     json.NewEncoder(bw),
		order:   frames,
		pending: make(map[int]*renderer.Frame),
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *JSONLSink) Write(fr *renderer.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[fr.Index] = fr
	for s.next < len(s.order) {
		ready, ok := s.pending[s.order[s.next]]
		if !ok {
			break
		}
		if err := s.enc.Encode(ready); err != nil {
			return fmt.Errorf("write frame %d: %w", ready.Index, err)
		}
		delete(s.pending, ready.Index)
		s.next++
	}
	return nil
}

// Close flushes the output. It reports frames of the selection that were
// never written.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.next < len(s.order) {
		errs = append(errs, fmt.Errorf("jsonl: %d of %d frames missing, first is %d",
			len(s.order)-s.next, len(s.order), s.order[s.next]))
	}
	errs = append(errs, s.w.Flush())
	if s.closer != nil {
		errs = append(errs, s.closer.Close())
	}
	return errors.Join(errs...)
}

// DirSink writes every frame as its own YAML file.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Write(fr *renderer.Frame) error {
	data, err := yaml.Marshal(fr)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", fr.Index, err)
	}
	return os.WriteFile(FramePath(s.dir, fr.Index, ".yaml"), data, 0644)
}

func (s *DirSink) Close() error { return nil }

// PreviewSink rasterizes every frame into a PNG file.
type PreviewSink struct {
	dir string
	r   *preview.Rasterizer
}

func NewPreviewSink(dir string, r *preview.Rasterizer) (*PreviewSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PreviewSink{dir: dir, r: r}, nil
}

func (s *PreviewSink) Write(fr *renderer.Frame) error {
	f, err := os.Create(FramePath(s.dir, fr.Index, ".png"))
	if err != nil {
		return err
	}
	if err := s.r.EncodePNG(f, fr); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *PreviewSink) Close() error { return nil }

// FramePath names the per-frame file of frame in dir.
func FramePath(dir string, frame int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d%s", frame, ext))
}
