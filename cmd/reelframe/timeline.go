package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelframe/internal/composer"
	"github.com/ivlev/reelframe/internal/director"
	"github.com/ivlev/reelframe/internal/motion"
	"github.com/ivlev/reelframe/internal/registry"
)

// settleThreshold is the distance from 1 at which a spring counts as settled.
const settleThreshold = 0.005

func newTimelineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print or check the scene and caption schedule",
		Long: `Prints the scene windows and caption segments of the story composition as YAML.
With --input, reads and validates an existing scenario file instead.
Captions that do not line up with a scene window are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenario *director.Scenario
			if path, _ := cmd.Flags().GetString("input"); path != "" {
				s, err := director.ReadScenario(path)
				if err != nil {
					return err
				}
				scenario = s
			} else {
				comp, err := a.reg.Lookup(registry.StoryID)
				if err != nil {
					return err
				}
				fps := comp.FPS
				overrideInt(cmd, "fps", &fps)
				s, err := composer.StoryScenario(fps)
				if err != nil {
					return err
				}
				scenario = s
			}

			for _, m := range director.CheckAlignment(scenario.Scenes, scenario.Captions, scenario.FPS) {
				a.logger.Warn("caption not aligned with a scene", "caption", m.Caption, "start", m.StartFrame, "end", m.EndFrame)
			}

			reveal := director.DefaultRevealConfig()
			settle, err := motion.SettleFrame(float64(scenario.FPS), reveal.Spring, settleThreshold)
			if err != nil {
				return err
			}
			a.logger.Info("timeline",
				"scenes", len(scenario.Scenes),
				"captions", len(scenario.Captions),
				"frames", director.Timeline(scenario.Scenes).TotalFrames(),
				"word_settle_frames", settle)

			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := director.WriteScenario(scenario, path); err != nil {
					return fmt.Errorf("write scenario: %w", err)
				}
				a.logger.Info("scenario saved", "path", path)
				return nil
			}
			return director.EncodeScenario(cmd.OutOrStdout(), scenario)
		},
	}

	cmd.Flags().Int("fps", 30, "Frame rate of the generated schedule")
	cmd.Flags().String("input", "", "Validate an existing scenario file")
	cmd.Flags().StringP("output", "o", "", "Write the scenario to a file instead of stdout")
	return cmd
}
