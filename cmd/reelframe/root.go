package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelframe/internal/config"
	"github.com/ivlev/reelframe/internal/logging"
	"github.com/ivlev/reelframe/internal/registry"
	"github.com/ivlev/reelframe/internal/system"
)

// propsDir is searched for the newest props file when none is given.
const propsDir = "input/props"

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	reg    *registry.Registry
}

func newRootCmd(version string) *cobra.Command {
	a := &app{cfg: config.Default(), reg: registry.Default()}

	root := &cobra.Command{
		Use:           "reelframe",
		Short:         "Frame-accurate motion graphics descriptors",
		Long:          `reelframe evaluates the built-in video compositions frame by frame and writes render descriptors, previews and timelines.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, version)
		},
	}

	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newListCmd(a),
		newFrameCmd(a),
		newRenderCmd(a),
		newTimelineCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, version string) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.cfg.BuildVersion = version
	overrideString(cmd, "log-level", &a.cfg.LogLevel)

	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logging.New(level, cmd.ErrOrStderr())
	return nil
}

// props loads the props file named by path, the config, or the newest file
// in propsDir, in that order. No file at all means default props.
func (a *app) props(path string) (map[string]any, error) {
	if path == "" {
		path = a.cfg.PropsPath
	}
	if path == "" {
		latest, err := system.FindLatest(propsDir, ".json", ".yaml", ".yml")
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				a.logger.Debug("no props file found", "dir", propsDir, "error", err)
			}
			return nil, nil
		}
		a.logger.Info("using latest props file", "path", latest)
		path = latest
	}
	return config.LoadProps(path)
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}
