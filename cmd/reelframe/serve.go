package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ivlev/reelframe/internal/engine"
	"github.com/ivlev/reelframe/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frame descriptors over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			overrideFloat(cmd, "preview-scale", &cfg.PreviewScale)
			overrideBool(cmd, "debug", &cfg.Debug)
			overrideString(cmd, "assets", &cfg.AssetsDir)
			addr, _ := cmd.Flags().GetString("addr")

			rast, err := engine.NewRasterizer(cfg)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			srv := &server.Server{
				Registry: a.reg,
				Metrics:  engine.NewMetrics(reg),
				Preview:  rast,
				Logger:   a.logger,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = server.ListenAndServe(ctx, addr, server.NewHandler(srv, reg), a.logger)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Float64("preview-scale", 0.25, "PNG downscale factor")
	cmd.Flags().Bool("debug", false, "Stamp a QR code with frame id into PNG output")
	cmd.Flags().String("assets", "", "Directory with local copies of image assets for PNG output")
	return cmd
}
