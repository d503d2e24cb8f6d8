package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ivlev/reelframe/internal/engine"
	"github.com/ivlev/reelframe/internal/server"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <composition>",
		Short: "Render a frame range with a worker pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			cfg.Composition = args[0]
			overrideString(cmd, "props", &cfg.PropsPath)
			overrideString(cmd, "out", &cfg.OutputDir)
			overrideString(cmd, "format", &cfg.Format)
			overrideInt(cmd, "from", &cfg.From)
			overrideInt(cmd, "to", &cfg.To)
			overrideInt(cmd, "every", &cfg.Every)
			overrideInt(cmd, "workers", &cfg.Workers)
			overrideFloat(cmd, "preview-scale", &cfg.PreviewScale)
			overrideBool(cmd, "debug", &cfg.Debug)
			overrideString(cmd, "assets", &cfg.AssetsDir)
			overrideBool(cmd, "stats", &cfg.ShowStats)
			overrideString(cmd, "metrics-addr", &cfg.MetricsAddr)
			if err := cfg.Validate(); err != nil {
				return err
			}

			comp, err := a.reg.Lookup(cfg.Composition)
			if err != nil {
				return err
			}
			props, err := a.props(cfg.PropsPath)
			if err != nil {
				return err
			}

			frames, err := engine.Frames(cfg, comp.DurationInFrames)
			if err != nil {
				return err
			}
			sink, err := engine.OpenSink(cfg, comp.ID, frames)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			metrics := engine.NewMetrics(reg)
			if cfg.MetricsAddr != "" {
				go serveMetrics(ctx, a, cfg.MetricsAddr, reg)
			}

			project := engine.NewRenderProject(cfg, comp, props, sink, a.logger, metrics)
			_, err = project.Run(ctx)
			return err
		},
	}

	def := a.cfg
	cmd.Flags().String("props", "", "Props file (.json or .yaml); defaults to the newest file in "+propsDir)
	cmd.Flags().String("out", def.OutputDir, "Output directory")
	cmd.Flags().String("format", def.Format, "Output format: jsonl, yaml or png")
	cmd.Flags().Int("from", 0, "First frame")
	cmd.Flags().Int("to", 0, "End frame, exclusive (0 = composition end)")
	cmd.Flags().Int("every", 1, "Render every n-th frame")
	cmd.Flags().Int("workers", 0, "Worker count (0 = logical CPUs)")
	cmd.Flags().Float64("preview-scale", def.PreviewScale, "PNG downscale factor")
	cmd.Flags().Bool("debug", false, "Stamp a QR code with frame id into PNG output")
	cmd.Flags().String("assets", "", "Directory with local copies of image assets for PNG output")
	cmd.Flags().Bool("stats", false, "Print a performance report and append to benchmark.log")
	cmd.Flags().String("metrics-addr", "", "Expose Prometheus metrics on this address while rendering")
	return cmd
}

func serveMetrics(ctx context.Context, a *app, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := server.ListenAndServe(ctx, addr, mux, a.logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("metrics server stopped", "error", err)
	}
}
