package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelframe/internal/config"
	"github.com/ivlev/reelframe/internal/engine"
	"github.com/ivlev/reelframe/internal/renderer"
)

func newFrameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame <composition> <frame>",
		Short: "Render one frame descriptor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := a.reg.Lookup(args[0])
			if err != nil {
				return err
			}
			frame, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid frame %q: %w", args[1], err)
			}

			propsPath, _ := cmd.Flags().GetString("props")
			props, err := a.props(propsPath)
			if err != nil {
				return err
			}

			fr, err := comp.Render(frame, props)
			if err != nil {
				return err
			}

			cfg := a.cfg
			overrideString(cmd, "format", &cfg.Format)
			overrideFloat(cmd, "preview-scale", &cfg.PreviewScale)
			overrideBool(cmd, "debug", &cfg.Debug)
			overrideString(cmd, "assets", &cfg.AssetsDir)

			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return writeFrame(out, fr, cfg)
		},
	}

	cmd.Flags().String("props", "", "Props file (.json or .yaml)")
	cmd.Flags().String("format", "json", "Output format: json, yaml or png")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Flags().Float64("preview-scale", 0.25, "PNG downscale factor")
	cmd.Flags().Bool("debug", false, "Stamp a QR code with frame id into PNG output")
	cmd.Flags().String("assets", "", "Directory with local copies of image assets for PNG output")
	return cmd
}

func writeFrame(w io.Writer, fr *renderer.Frame, cfg config.Config) error {
	switch cfg.Format {
	case "json", "jsonl":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fr)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fr); err != nil {
			return err
		}
		return enc.Close()
	case "png":
		r, err := engine.NewRasterizer(cfg)
		if err != nil {
			return err
		}
		return r.EncodePNG(w, fr)
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
}
