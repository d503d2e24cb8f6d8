// Package engine renders frame ranges of a composition in parallel and hands
// the descriptors to a sink.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelframe/internal/config"
	"github.com/ivlev/reelframe/internal/registry"
	"github.com/ivlev/reelframe/internal/system"
)

// BenchmarkLog is appended to after every run with ShowStats set.
const BenchmarkLog = "benchmark.log"

type RenderProject struct {
	Config      config.Config
	Composition registry.Composition
	Props       map[string]any
	Sink        Sink
	Logger      *slog.Logger
	Metrics     *Metrics
}

func NewRenderProject(cfg config.Config, comp registry.Composition, props map[string]any, sink Sink, logger *slog.Logger, metrics *Metrics) *RenderProject {
	return &RenderProject{
		Config:      cfg,
		Composition: comp,
		Props:       props,
		Sink:        sink,
		Logger:      logger,
		Metrics:     metrics,
	}
}

// Frames returns the frame indices selected by the config, in order.
func Frames(cfg config.Config, duration int) ([]int, error) {
	from, to, err := cfg.FrameRange(duration)
	if err != nil {
		return nil, err
	}
	every := max(cfg.Every, 1)
	frames := make([]int, 0, (to-from+every-1)/every)
	for f := from; f < to; f += every {
		frames = append(frames, f)
	}
	return frames, nil
}

// Stats summarizes a run.
type Stats struct {
	Composition string
	Frames      int
	Workers     int
	Total       time.Duration
	// Eval is the summed evaluation time across workers.
	Eval time.Duration
}

// FPS is the effective throughput of the run.
func (s Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

// Run evaluates every selected frame and writes it to the sink. The first
// failure cancels the remaining work. The sink is closed before Run returns.
func (p *RenderProject) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	comp := p.Composition

	frames, err := Frames(p.Config, comp.DurationInFrames)
	if err != nil {
		return Stats{}, errors.Join(err, p.Sink.Close())
	}

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	workers = min(workers, len(frames))

	p.Logger.Info("render started",
		"composition", comp.ID,
		"frames", len(frames),
		"size", fmt.Sprintf("%dx%d", comp.Width, comp.Height),
		"fps", comp.FPS,
		"workers", workers,
		"format", p.Config.Format)

	var evalNanos, done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, f := range frames {
		if gctx.Err() != nil {
			break
		}
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			t0 := time.Now()
			fr, err := comp.Render(f, p.Props)
			took := time.Since(t0)
			p.Metrics.ObserveFrame(comp.ID, took, err)
			if err != nil {
				return fmt.Errorf("render frame %d: %w", f, err)
			}
			evalNanos.Add(int64(took))

			if err := p.Sink.Write(fr); err != nil {
				p.Metrics.ObserveFailure(comp.ID)
				return fmt.Errorf("write frame %d: %w", f, err)
			}

			n := done.Add(1)
			p.Logger.Debug("frame ready", "frame", f, "done", n, "of", len(frames))
			return nil
		})
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}
	if err := p.Sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close sink: %w", err)
	}

	stats := Stats{
		Composition: comp.ID,
		Frames:      int(done.Load()),
		Workers:     workers,
		Total:       time.Since(start),
		Eval:        time.Duration(evalNanos.Load()),
	}
	if runErr != nil {
		p.Logger.Error("render failed", "error", runErr, "frames_done", stats.Frames)
		return stats, runErr
	}

	p.Logger.Info("render finished", "composition", comp.ID, "frames", stats.Frames, "took", stats.Total.Round(time.Millisecond))
	if p.Config.ShowStats {
		p.report(stats)
	}
	return stats, nil
}

func (p *RenderProject) report(stats Stats) {
	attrs := []any{
		"build", p.Config.BuildVersion,
		"total", stats.Total.Round(time.Millisecond),
		"eval", stats.Eval.Round(time.Millisecond),
		"workers", stats.Workers,
		"effective_fps", fmt.Sprintf("%.2f", stats.FPS()),
	}
	if mem, err := system.Memory(); err == nil {
		attrs = append(attrs,
			"heap_mb", mem.HeapAlloc>>20,
			"host_mem_used", fmt.Sprintf("%.1f%%", mem.HostUsedPercent))
	} else {
		p.Logger.Warn("memory stats unavailable", "error", err)
	}
	p.Logger.Info("performance report", attrs...)

	path := filepath.Join(p.Config.OutputDir, BenchmarkLog)
	if err := AppendBenchmark(path, p.Config.BuildVersion, stats, time.Now()); err != nil {
		p.Logger.Warn("could not write benchmark log", "path", path, "error", err)
	}
}

// AppendBenchmark adds one line describing stats to the log at path.
func AppendBenchmark(path, build string, stats Stats, at time.Time) error {
	entry := fmt.Sprintf("[%s] Build: %s | Composition: %s | Frames: %d | Workers: %d | Total: %.2fs | Eval: %.2fs | FPS: %.2f\n",
		at.Format("2006-01-02 15:04:05"),
		build,
		stats.Composition,
		stats.Frames,
		stats.Workers,
		stats.Total.Seconds(),
		stats.Eval.Seconds(),
		stats.FPS(),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
